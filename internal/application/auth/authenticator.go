package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rezkam/listor/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Default configuration values.
const (
	DefaultTokenTTL         = 24 * time.Hour
	DefaultOperationTimeout = 5 * time.Second
	DefaultUpdateQueueSize  = 1000

	maxPasswordLength = 72 // bcrypt input limit
	minPasswordLength = 8
)

// Config holds configuration for the Authenticator.
type Config struct {
	TokenSecret      string        // HMAC secret for session tokens
	TokenTTL         time.Duration // Session token lifetime
	OperationTimeout time.Duration // Timeout for storage operations
	UpdateQueueSize  int           // Buffer size for last_active_at updates
}

// lastActiveUpdate holds information for updating a user's last_active_at
// timestamp.
type lastActiveUpdate struct {
	userID    string
	timestamp time.Time
}

// Authenticator handles account registration, login, and session token
// validation. Last-active stamping happens on a background worker so token
// validation never blocks on a write.
type Authenticator struct {
	repo              Repository
	appCtx            context.Context // Application context, cancelled on shutdown
	secret            []byte
	tokenTTL          time.Duration
	lastActiveUpdates chan lastActiveUpdate
	shutdownChan      chan struct{}
	shutdownOnce      sync.Once // Ensures shutdown is idempotent
	wg                sync.WaitGroup
	operationTimeout  time.Duration
}

// NewAuthenticator creates a new authenticator and starts the background
// worker for processing last_active_at updates.
// The ctx parameter should be an application-level context that gets cancelled on shutdown.
func NewAuthenticator(ctx context.Context, repo Repository, config Config) *Authenticator {
	if config.TokenTTL <= 0 {
		config.TokenTTL = DefaultTokenTTL
	}
	if config.OperationTimeout <= 0 {
		config.OperationTimeout = DefaultOperationTimeout
	}
	if config.UpdateQueueSize <= 0 {
		config.UpdateQueueSize = DefaultUpdateQueueSize
	}

	a := &Authenticator{
		repo:              repo,
		appCtx:            ctx,
		secret:            []byte(config.TokenSecret),
		tokenTTL:          config.TokenTTL,
		lastActiveUpdates: make(chan lastActiveUpdate, config.UpdateQueueSize),
		shutdownChan:      make(chan struct{}),
		operationTimeout:  config.OperationTimeout,
	}

	a.wg.Add(1)
	go a.processLastActiveUpdates()

	return a
}

// processLastActiveUpdates is a background worker that applies last_active_at
// updates from a buffered channel. This prevents goroutine explosion under
// high load.
func (a *Authenticator) processLastActiveUpdates() {
	defer a.wg.Done()

	for {
		select {
		case update := <-a.lastActiveUpdates:
			ctx, cancel := context.WithTimeout(a.appCtx, a.operationTimeout)
			if err := a.repo.UpdateLastActive(ctx, update.userID, update.timestamp); err != nil {
				// Log failure but continue processing (last_active_at is non-critical)
				slog.WarnContext(ctx, "failed to update user last_active_at",
					slog.String("user_id", update.userID),
					slog.String("error", err.Error()))
			}
			cancel()

		case <-a.shutdownChan:
			// Drain remaining updates before shutdown
			for {
				select {
				case update := <-a.lastActiveUpdates:
					ctx, cancel := context.WithTimeout(context.Background(), a.operationTimeout)
					_ = a.repo.UpdateLastActive(ctx, update.userID, update.timestamp)
					cancel()
				default:
					return
				}
			}
		}
	}
}

// Shutdown stops the background worker and waits for it to finish
// processing remaining updates, respecting the context deadline.
// Safe to call multiple times.
func (a *Authenticator) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.shutdownOnce.Do(func() {
		close(a.shutdownChan)

		done := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			shutdownErr = nil
		case <-ctx.Done():
			shutdownErr = fmt.Errorf("shutdown timeout: %w", ctx.Err())
		}
	})
	return shutdownErr
}

// Register creates a new account and returns the user with a session token.
func (a *Authenticator) Register(ctx context.Context, emailRaw, password, displayName string) (*domain.User, string, error) {
	email, err := domain.NewEmail(emailRaw)
	if err != nil {
		return nil, "", err
	}

	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be between %d and %d characters",
			domain.ErrInvalidCredentials, minPasswordLength, maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           idObj.String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastActiveAt: now,
	}

	created, err := a.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := a.issueToken(created.ID, now)
	if err != nil {
		return nil, "", err
	}

	return created, token, nil
}

// Login verifies credentials and returns the user with a session token.
// Returns domain.ErrInvalidCredentials for unknown email or wrong password,
// never distinguishing the two.
func (a *Authenticator) Login(ctx context.Context, emailRaw, password string) (*domain.User, string, error) {
	email, err := domain.NewEmail(emailRaw)
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := a.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token, err := a.issueToken(user.ID, now)
	if err != nil {
		return nil, "", err
	}

	a.queueLastActive(ctx, user.ID, now)

	return user, token, nil
}

// ValidateToken verifies a session token and returns the account it belongs
// to. Returns domain.ErrUnauthorized for anything invalid or expired.
// This is the public method for HTTP middleware and other transport layers.
func (a *Authenticator) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	opCtx, cancel := context.WithTimeout(ctx, a.operationTimeout)
	defer cancel()

	user, err := a.repo.FindUserByID(opCtx, claims.Subject)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	a.queueLastActive(ctx, user.ID, time.Now().UTC())

	return user, nil
}

// queueLastActive enqueues a last_active_at update without blocking.
func (a *Authenticator) queueLastActive(ctx context.Context, userID string, timestamp time.Time) {
	select {
	case a.lastActiveUpdates <- lastActiveUpdate{userID: userID, timestamp: timestamp}:
	default:
		// Channel full, drop update (last_active_at is non-critical)
		slog.WarnContext(ctx, "dropped last_active_at update due to full queue",
			slog.String("user_id", userID))
	}
}

// SetAvatarURL sets or clears a user's avatar URL.
func (a *Authenticator) SetAvatarURL(ctx context.Context, userID string, avatarURL *string) error {
	return a.repo.UpdateAvatarURL(ctx, userID, avatarURL)
}

func (a *Authenticator) issueToken(userID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
