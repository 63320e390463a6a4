package config

import (
	"fmt"
	"time"

	"github.com/rezkam/listor/internal/env"
)

// WorkerConfig holds all configuration for the recurring task worker binary.
type WorkerConfig struct {
	Database         DatabaseConfig
	Observability    ObservabilityConfig
	ScanInterval     time.Duration `env:"LISTOR_WORKER_SCAN_INTERVAL"`
	OperationTimeout time.Duration `env:"LISTOR_WORKER_OPERATION_TIMEOUT"`
}

// LoadWorkerConfig loads and validates worker configuration from environment.
func LoadWorkerConfig() (*WorkerConfig, error) {
	cfg := &WorkerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	return cfg, nil
}
