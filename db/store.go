package db

import (
	"context"
	"fmt"
	"time"

	"airquality/ml"
)

// PredictionRecord is one successful prediction kept in the history.
type PredictionRecord struct {
	ID            int64            `json:"id"`
	Features      ml.FeatureVector `json:"features"`
	Class         int              `json:"class"`
	Label         string           `json:"label"`
	Probabilities []float64        `json:"probabilities"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Store keeps prediction history. Implementations are safe for concurrent use.
type Store interface {
	Save(ctx context.Context, record PredictionRecord) (int64, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]PredictionRecord, error)
	Close() error
}

// Open returns the store for backend, or nil when history is disabled.
func Open(backend string, size int, path string) (Store, error) {
	switch backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryStore(size)
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}
