package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// EventJournal implements storage.EventJournal using ClickHouse.
type EventJournal struct {
	conn *Conn
}

// NewEventJournal creates a new EventJournal.
func NewEventJournal(conn *Conn) *EventJournal {
	return &EventJournal{conn: conn}
}

// Compile-time interface check.
var _ storage.EventJournal = (*EventJournal)(nil)

// Append records an event.
func (j *EventJournal) Append(ctx context.Context, e *domain.Event) error {
	if e == nil || e.Kind == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO ledger_events (
			kind, project_id, user, amount, fee, new_total, reward_rate, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := j.conn.Exec(ctx, query,
		string(e.Kind), e.ProjectID, e.User,
		e.Amount, e.Fee, e.NewTotal, e.RewardRate,
		e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// GetByProject retrieves events of a project within [start, end] (inclusive).
func (j *EventJournal) GetByProject(ctx context.Context, projectID string, start, end int64) ([]*domain.Event, error) {
	query := `
		SELECT kind, project_id, user, amount, fee, new_total, reward_rate, timestamp
		FROM ledger_events
		WHERE project_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`

	rows, err := j.conn.Query(ctx, query, projectID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query events by project: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByUser retrieves events of a user within [start, end] (inclusive).
func (j *EventJournal) GetByUser(ctx context.Context, user string, start, end int64) ([]*domain.Event, error) {
	query := `
		SELECT kind, project_id, user, amount, fee, new_total, reward_rate, timestamp
		FROM ledger_events
		WHERE user = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`

	rows, err := j.conn.Query(ctx, query, user, start, end)
	if err != nil {
		return nil, fmt.Errorf("query events by user: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// scanEvents scans rows into a slice of Event.
func scanEvents(rows driver.Rows) ([]*domain.Event, error) {
	var events []*domain.Event

	for rows.Next() {
		var e domain.Event
		var kind string

		err := rows.Scan(
			&kind, &e.ProjectID, &e.User,
			&e.Amount, &e.Fee, &e.NewTotal, &e.RewardRate,
			&e.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}

		e.Kind = domain.EventKind(kind)
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, nil
}
