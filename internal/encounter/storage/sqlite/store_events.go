package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
)

// AppendEvent atomically appends an event and returns it with its sequence set.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	if s.eventRegistry == nil {
		return event.Event{}, fmt.Errorf("event registry is required")
	}

	validated, err := s.eventRegistry.ValidateForAppend(evt)
	if err != nil {
		return event.Event{}, err
	}
	evt = validated
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return event.Event{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_seq (encounter_id, next_seq) VALUES (?, 1)", evt.EncounterID); err != nil {
		return event.Event{}, fmt.Errorf("init event seq: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx,
		"SELECT next_seq FROM event_seq WHERE encounter_id = ?", evt.EncounterID).Scan(&seq); err != nil {
		return event.Event{}, fmt.Errorf("get event seq: %w", err)
	}
	evt.Seq = uint64(seq)

	if _, err := tx.ExecContext(ctx,
		"UPDATE event_seq SET next_seq = next_seq + 1 WHERE encounter_id = ?", evt.EncounterID); err != nil {
		return event.Event{}, fmt.Errorf("increment event seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO events (
    encounter_id, seq, timestamp, event_type, request_id,
    actor_type, actor_id, entity_type, entity_id, payload_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.EncounterID,
		int64(evt.Seq),
		toMillis(evt.Timestamp),
		string(evt.Type),
		evt.RequestID,
		string(evt.ActorType),
		evt.ActorID,
		evt.EntityType,
		evt.EntityID,
		evt.PayloadJSON,
	); err != nil {
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return event.Event{}, fmt.Errorf("commit append: %w", err)
	}
	return evt, nil
}

// ListEvents returns up to limit events with Seq greater than afterSeq, in
// sequence order. A limit of zero or less means no limit.
func (s *Store) ListEvents(ctx context.Context, encounterID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	encounterID = strings.TrimSpace(encounterID)
	if encounterID == "" {
		return nil, fmt.Errorf("encounter id is required")
	}

	query := `
SELECT encounter_id, seq, timestamp, event_type, request_id,
       actor_type, actor_id, entity_type, entity_id, payload_json
FROM events WHERE encounter_id = ? AND seq > ? ORDER BY seq`
	args := []any{encounterID, int64(afterSeq)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var evt event.Event
		var seq, timestamp int64
		var eventType, actorType string
		if err := rows.Scan(
			&evt.EncounterID, &seq, &timestamp, &eventType, &evt.RequestID,
			&actorType, &evt.ActorID, &evt.EntityType, &evt.EntityID, &evt.PayloadJSON,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Timestamp = fromMillis(timestamp)
		evt.Type = event.Type(eventType)
		evt.ActorType = event.ActorType(actorType)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}
