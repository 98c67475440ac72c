package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists prediction history in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	database, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        features TEXT NOT NULL,
        predicted_class INTEGER NOT NULL,
        label VARCHAR(20) NOT NULL,
        probabilities TEXT NOT NULL,
        created_at INTEGER NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: database}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, record PredictionRecord) (int64, error) {
	features, err := json.Marshal(record.Features)
	if err != nil {
		return 0, err
	}
	probabilities, err := json.Marshal(record.Probabilities)
	if err != nil {
		return 0, err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
        INSERT INTO predictions (features, predicted_class, label, probabilities, created_at)
        VALUES (?, ?, ?, ?, ?)`,
		string(features), record.Class, record.Label, string(probabilities), record.CreatedAt.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("insert failed: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		return []PredictionRecord{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, features, predicted_class, label, probabilities, created_at
        FROM predictions
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0, limit)
	for rows.Next() {
		var (
			r             PredictionRecord
			features      string
			probabilities string
			createdAt     int64
		)
		if err := rows.Scan(&r.ID, &features, &r.Class, &r.Label, &probabilities, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(features), &r.Features); err != nil {
			return nil, fmt.Errorf("record %d: bad features: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(probabilities), &r.Probabilities); err != nil {
			return nil, fmt.Errorf("record %d: bad probabilities: %w", r.ID, err)
		}
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
