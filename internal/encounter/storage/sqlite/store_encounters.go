package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/storage"
)

// PutEncounter inserts or updates an encounter record.
func (s *Store) PutEncounter(ctx context.Context, record storage.EncounterRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("encounter id is required")
	}
	now := time.Now().UTC()
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO encounters (id, name, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		id, record.Name, toMillis(createdAt), toMillis(updatedAt))
	if err != nil {
		return fmt.Errorf("put encounter: %w", err)
	}
	return nil
}

// GetEncounter loads one encounter record by id.
func (s *Store) GetEncounter(ctx context.Context, id string) (storage.EncounterRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.EncounterRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EncounterRecord{}, fmt.Errorf("storage is not configured")
	}

	var record storage.EncounterRecord
	var createdAt, updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM encounters WHERE id = ?", strings.TrimSpace(id)).
		Scan(&record.ID, &record.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.EncounterRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.EncounterRecord{}, fmt.Errorf("get encounter: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// ListEncounters returns all encounter records, newest first.
func (s *Store) ListEncounters(ctx context.Context) ([]storage.EncounterRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM encounters ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}
	defer rows.Close()

	var records []storage.EncounterRecord
	for rows.Next() {
		var record storage.EncounterRecord
		var createdAt, updatedAt int64
		if err := rows.Scan(&record.ID, &record.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan encounter: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read encounters: %w", err)
	}
	return records, nil
}
