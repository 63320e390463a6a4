package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rezkam/listor/internal/application/auth"
	"github.com/rezkam/listor/internal/application/sharing"
	"github.com/rezkam/listor/internal/application/task"
	"github.com/rezkam/listor/internal/worker"
)

// dbtx is the subset of pgx operations shared by a pool and a transaction,
// letting every query method run in either.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides the PostgreSQL implementation of all repository
// interfaces. It composes multiple repository implementations through
// interface satisfaction.
//
// This store implements:
// - application/auth.Repository (user account operations)
// - application/task.Repository (lists, tasks, subtasks), via Tasks()
// - application/sharing.Repository (invitations, notifications), via Sharing()
// - worker.Repository (recurring task scan)
//
// The task and sharing interfaces each carry their own Atomic method, so
// they are exposed through thin wrappers that pin the transaction-scoped
// repository type.
type Store struct {
	pool *pgxpool.Pool
	db   dbtx
}

// Compile-time verification that the store implements all repository
// interfaces.
var (
	_ auth.Repository    = (*Store)(nil)
	_ task.Repository    = TaskStore{}
	_ sharing.Repository = SharingStore{}
	_ worker.Repository  = (*Store)(nil)
)

// NewStore creates a new PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		db:   pool,
	}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// TaskStore exposes the store as a task repository.
type TaskStore struct {
	*Store
}

// Tasks returns the task repository view of the store.
func (s *Store) Tasks() TaskStore {
	return TaskStore{s}
}

// Atomic executes a callback within a database transaction. All operations
// inside the callback succeed together or fail together.
func (s TaskStore) Atomic(ctx context.Context, fn func(repo task.Repository) error) error {
	return s.executeInTransaction(ctx, "task_atomic", func(txStore *Store) error {
		return fn(TaskStore{txStore})
	})
}

// SharingStore exposes the store as a sharing repository.
type SharingStore struct {
	*Store
}

// Sharing returns the sharing repository view of the store.
func (s *Store) Sharing() SharingStore {
	return SharingStore{s}
}

// Atomic executes a callback within a database transaction.
func (s SharingStore) Atomic(ctx context.Context, fn func(repo sharing.Repository) error) error {
	return s.executeInTransaction(ctx, "sharing_atomic", func(txStore *Store) error {
		return fn(SharingStore{txStore})
	})
}

// finalizeTx handles transaction cleanup for normal error/success cases.
// Rolls back on error, commits on success.
// Note: panics are handled separately in the defer blocks before finalizeTx
// is called.
func finalizeTx(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		slog.ErrorContext(ctx, "transaction failed, rolling back",
			"error", *err)
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.ErrorContext(ctx, "rollback failed",
				"original_error", *err,
				"rollback_error", rbErr)
			*err = fmt.Errorf("transaction failed: %w (rollback error: %v)", *err, rbErr)
		}
	} else {
		*err = tx.Commit(ctx)
		if *err != nil {
			slog.ErrorContext(ctx, "transaction commit failed",
				"error", *err)
		}
	}
}

// executeInTransaction executes a callback within a transaction with
// logging and panic recovery.
func (s *Store) executeInTransaction(ctx context.Context, operationName string, fn func(txStore *Store) error) (err error) {
	start := time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction",
			"operation", operationName,
			"error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "transaction panic, rolling back",
				"operation", operationName,
				"panic", p)
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.ErrorContext(ctx, "rollback after panic failed",
					"operation", operationName,
					"panic", p,
					"rollback_error", rbErr)
			}
			panic(p)
		}

		finalizeTx(ctx, tx, &err)
		if err == nil {
			slog.DebugContext(ctx, "transaction completed",
				"operation", operationName,
				"duration_ms", time.Since(start).Milliseconds())
		}
	}()

	txStore := &Store{
		pool: s.pool,
		db:   tx,
	}

	err = fn(txStore)
	return
}
