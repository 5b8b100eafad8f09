//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"foxhunt/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveEstimate(ctx context.Context, record model.EstimateRecord) error {
	if record.ID == "" {
		return errors.New("estimate id is required")
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	record = Stamp(record)
	payload, err := EncodeEstimate(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO estimates (id, sweep_id, track_size, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sweep_id = excluded.sweep_id,
			track_size = excluded.track_size,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, record.ID, record.SweepID, record.TrackSize, record.SchemaVersion, record.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetEstimate(ctx context.Context, id string) (model.EstimateRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.EstimateRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM estimates WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.EstimateRecord{}, false, nil
		}
		return model.EstimateRecord{}, false, err
	}

	record, err := DecodeEstimate(payload)
	if err != nil {
		return model.EstimateRecord{}, false, fmt.Errorf("decode estimate %s: %w", id, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) ListEstimates(ctx context.Context, limit int) ([]model.EstimateRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx, `SELECT id, payload FROM estimates ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EstimateRecord
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		record, err := DecodeEstimate(payload)
		if err != nil {
			return nil, fmt.Errorf("decode estimate %s: %w", id, err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteEstimate(ctx context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM estimates WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS estimates (
			id TEXT PRIMARY KEY,
			sweep_id TEXT NOT NULL DEFAULT '',
			track_size INTEGER NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS estimates_sweep_id ON estimates (sweep_id);
	`)
	return err
}
