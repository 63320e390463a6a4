package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rezkam/listor/internal/env"
)

// ErrTokenSecretRequired is returned when the session token secret is not configured.
var ErrTokenSecretRequired = errors.New("LISTOR_AUTH_TOKEN_SECRET is required")

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Database        DatabaseConfig
	HTTP            HTTPConfig
	Auth            AuthConfig
	Email           EmailConfig
	Storage         StorageConfig
	Observability   ObservabilityConfig
	Sharing         SharingConfig
	ShutdownTimeout time.Duration `env:"LISTOR_SHUTDOWN_TIMEOUT" default:"15s"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"LISTOR_HTTP_HOST"`
	Port              string        `env:"LISTOR_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"LISTOR_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"LISTOR_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"LISTOR_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"LISTOR_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"LISTOR_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"LISTOR_HTTP_MAX_BODY_BYTES"`
}

// AuthConfig holds authenticator configuration.
type AuthConfig struct {
	TokenSecret      string        `env:"LISTOR_AUTH_TOKEN_SECRET"`
	TokenTTL         time.Duration `env:"LISTOR_AUTH_TOKEN_TTL"`
	OperationTimeout time.Duration `env:"LISTOR_AUTH_OPERATION_TIMEOUT"`
	UpdateQueueSize  int           `env:"LISTOR_AUTH_UPDATE_QUEUE_SIZE"`
}

// Validate validates the authenticator configuration.
func (c *AuthConfig) Validate() error {
	if c.TokenSecret == "" {
		return ErrTokenSecretRequired
	}
	return nil
}

// EmailConfig holds outgoing mail configuration. When Enabled is false
// invitation emails are skipped and invitations are delivered by link only.
type EmailConfig struct {
	Enabled     bool   `env:"LISTOR_SMTP_ENABLED"`
	Host        string `env:"LISTOR_SMTP_HOST"`
	Port        int    `env:"LISTOR_SMTP_PORT" default:"587"`
	Username    string `env:"LISTOR_SMTP_USERNAME"`
	Password    string `env:"LISTOR_SMTP_PASSWORD"`
	FromAddress string `env:"LISTOR_SMTP_FROM_ADDRESS"`
	FromName    string `env:"LISTOR_SMTP_FROM_NAME" default:"Listor"`
}

// Validate validates the email configuration.
func (c *EmailConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("LISTOR_SMTP_HOST is required when LISTOR_SMTP_ENABLED is true")
	}
	if c.FromAddress == "" {
		return fmt.Errorf("LISTOR_SMTP_FROM_ADDRESS is required when LISTOR_SMTP_ENABLED is true")
	}
	return nil
}

// StorageConfig holds avatar blob storage configuration.
type StorageConfig struct {
	Type      string `env:"LISTOR_STORAGE_TYPE" default:"fs"` // fs, gcs
	FSDir     string `env:"LISTOR_FS_DIR" default:"./listor-data"`
	FSBaseURL string `env:"LISTOR_FS_BASE_URL" default:"/static"`
	GCSBucket string `env:"LISTOR_GCS_BUCKET"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	switch c.Type {
	case "fs":
		if c.FSDir == "" {
			return fmt.Errorf("LISTOR_FS_DIR is required when LISTOR_STORAGE_TYPE is 'fs'")
		}
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("LISTOR_GCS_BUCKET is required when LISTOR_STORAGE_TYPE is 'gcs'")
		}
	default:
		return fmt.Errorf("unknown LISTOR_STORAGE_TYPE: %s", c.Type)
	}
	return nil
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"LISTOR_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}

// SharingConfig holds list sharing configuration.
type SharingConfig struct {
	// InvitationBaseURL is the public origin used to build invitation deep
	// links sent in email, e.g. "https://listor.eu".
	InvitationBaseURL string `env:"LISTOR_INVITATION_BASE_URL" default:"http://localhost:8081"`
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
