package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/observability"
	"github.com/Ken19931113/debook/internal/storage"
)

// DefaultRecentLimit caps Recent when the filter sets no limit.
const DefaultRecentLimit = 1000

// ActivityStore implements storage.ActivityStore using ClickHouse.
type ActivityStore struct {
	conn *Conn
}

// NewActivityStore creates a new ActivityStore.
func NewActivityStore(conn *Conn) *ActivityStore {
	return &ActivityStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ActivityStore = (*ActivityStore)(nil)

// Append inserts one event.
func (s *ActivityStore) Append(ctx context.Context, ev *domain.ActivityEvent) (err error) {
	if ev == nil || ev.Kind == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "activity_append", time.Since(start).Seconds(), err)
	}()

	err = s.conn.Exec(ctx, `
		INSERT INTO activity_events (
			kind, subject, property_id, tx_hash, amount, detail, occurred_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		string(ev.Kind),
		ev.Subject,
		ev.PropertyID,
		ev.TxHash,
		ev.Amount,
		ev.Detail,
		ev.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert activity event: %w", err)
	}
	return nil
}

// Recent returns matching events, newest first.
func (s *ActivityStore) Recent(ctx context.Context, filter storage.ActivityFilter) (events []*domain.ActivityEvent, err error) {
	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "activity_recent", time.Since(start).Seconds(), err)
	}()

	var where []string
	var args []interface{}
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Subject != "" {
		where = append(where, "subject = ?")
		args = append(args, filter.Subject)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	query := `
		SELECT kind, subject, property_id, tx_hash, amount, detail, occurred_at
		FROM activity_events
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT %d", limit)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity events: %w", err)
	}
	defer rows.Close()

	events = make([]*domain.ActivityEvent, 0)
	for rows.Next() {
		var ev domain.ActivityEvent
		var kind string
		if err := rows.Scan(
			&kind,
			&ev.Subject,
			&ev.PropertyID,
			&ev.TxHash,
			&ev.Amount,
			&ev.Detail,
			&ev.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		ev.Kind = domain.ActivityKind(kind)
		ev.OccurredAt = ev.OccurredAt.UTC()
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity events: %w", err)
	}
	return events, nil
}
