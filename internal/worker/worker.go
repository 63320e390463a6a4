package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/recurring"
)

// Repository defines the storage operations the sweep needs.
type Repository interface {
	// FindRecurringSources retrieves recurring tasks that are not
	// themselves generated instances.
	FindRecurringSources(ctx context.Context) ([]*domain.Task, error)

	// FindGeneratedInstances retrieves all tasks generated from a
	// recurring source task.
	FindGeneratedInstances(ctx context.Context, sourceTaskID string) ([]*domain.Task, error)

	// CreateTask persists a generated task instance.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)
}

// Worker periodically sweeps recurring tasks and generates upcoming
// instances inside the generation window, so recurring schedules advance
// even when nobody completes the current instance.
type Worker struct {
	repo             Repository
	scanInterval     time.Duration
	operationTimeout time.Duration
}

// Option is a functional option for configuring Worker.
type Option func(*Worker)

// WithScanInterval sets how often the worker sweeps recurring tasks.
func WithScanInterval(d time.Duration) Option {
	return func(w *Worker) {
		w.scanInterval = d
	}
}

// WithOperationTimeout sets the timeout for a single sweep.
func WithOperationTimeout(d time.Duration) Option {
	return func(w *Worker) {
		w.operationTimeout = d
	}
}

// New creates a new Worker with the given repository and options.
func New(repo Repository, opts ...Option) *Worker {
	w := &Worker{
		repo:             repo,
		scanInterval:     1 * time.Hour,
		operationTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start runs the sweep loop until the context is cancelled. A sweep runs
// immediately on startup, then on every tick.
func (w *Worker) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "recurring sweep started", "interval", w.scanInterval)

	w.sweep(ctx)

	ticker := time.NewTicker(w.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)
		case <-ctx.Done():
			slog.InfoContext(ctx, "recurring sweep stopped")
			return nil
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, w.operationTimeout)
	defer cancel()

	generated, err := w.RunSweepOnce(opCtx)
	if err != nil {
		slog.ErrorContext(opCtx, "recurring sweep failed", "error", err)
		return
	}
	if generated > 0 {
		slog.InfoContext(opCtx, "recurring sweep generated instances", "count", generated)
	}
}

// RunSweepOnce performs a single sweep and returns how many instances were
// generated. A failure on one source is logged and does not stop the
// sweep.
func (w *Worker) RunSweepOnce(ctx context.Context) (int, error) {
	sources, err := w.repo.FindRecurringSources(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find recurring tasks: %w", err)
	}

	now := time.Now().UTC()
	generated := 0
	for _, source := range sources {
		created, err := w.generateForSource(ctx, source, now)
		if err != nil {
			slog.WarnContext(ctx, "failed to generate recurring instance",
				"task_id", source.ID, "error", err)
			continue
		}
		if created {
			generated++
		}
	}
	return generated, nil
}

// generateForSource creates the next instance for one recurring source if
// the schedule calls for it.
func (w *Worker) generateForSource(ctx context.Context, source *domain.Task, now time.Time) (bool, error) {
	if source.RecurrencePattern == nil {
		return false, nil
	}

	instances, err := w.repo.FindGeneratedInstances(ctx, source.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load generated instances: %w", err)
	}

	// The schedule advances from the latest known due date in the chain.
	lastDue := now
	if source.DueDate != nil {
		lastDue = *source.DueDate
	}
	existing := make([]time.Time, 0, len(instances))
	for _, inst := range instances {
		if inst.DueDate == nil {
			continue
		}
		existing = append(existing, *inst.DueDate)
		if inst.DueDate.After(lastDue) {
			lastDue = *inst.DueDate
		}
	}

	if !recurring.ShouldGenerate(lastDue, *source.RecurrencePattern, existing, now) {
		return false, nil
	}

	next := recurring.NextOccurrence(lastDue, *source.RecurrencePattern)
	if next == nil {
		return false, nil
	}

	instance, err := recurring.NewInstance(source, *next, now)
	if err != nil {
		return false, err
	}

	if _, err := w.repo.CreateTask(ctx, instance); err != nil {
		return false, fmt.Errorf("failed to create instance: %w", err)
	}
	return true, nil
}
