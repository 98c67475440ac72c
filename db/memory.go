package db

import (
	"context"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore keeps the last size predictions; older entries are evicted.
type MemoryStore struct {
	cache  *lru.Cache[int64, PredictionRecord]
	nextID atomic.Int64
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	cache, err := lru.New[int64, PredictionRecord](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: cache}, nil
}

func (s *MemoryStore) Save(ctx context.Context, record PredictionRecord) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	record.ID = s.nextID.Add(1)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	record.Probabilities = append([]float64(nil), record.Probabilities...)
	s.cache.Add(record.ID, record)
	return record.ID, nil
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []PredictionRecord{}, nil
	}
	// Keys are ordered oldest to newest; Peek leaves recency untouched.
	keys := s.cache.Keys()
	out := make([]PredictionRecord, 0, min(limit, len(keys)))
	for i := len(keys) - 1; i >= 0 && len(out) < limit; i-- {
		if record, ok := s.cache.Peek(keys[i]); ok {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.cache.Purge()
	return nil
}
