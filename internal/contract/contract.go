// Package contract provides interfaces and shared utilities for the trendscope CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/trendscope/schema"
)

// DatasetSource hands out the dataset for the configured data directories.
// Implementations may cache; the returned dataset must be treated as read-only.
type DatasetSource interface {
	Open(ctx context.Context) (*schema.Dataset, error)
}

// StoreManager defines the interface for managing persistent stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for recording dashboard computations.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with the computed summary
	EndRun(runID int64, endTime time.Time, dataDir string, summary schema.Summary) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// Close closes the underlying connection
	Close() error
}
