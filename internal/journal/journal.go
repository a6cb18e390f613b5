// Package journal records service activity (quotes, listing submissions,
// account events) to an append-only store.
package journal

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/observability"
	"github.com/Ken19931113/debook/internal/storage"
)

// Recorder accepts activity events. Recording never fails the caller.
type Recorder interface {
	Record(ctx context.Context, ev domain.ActivityEvent)
}

// Nop discards every event.
type Nop struct{}

// Record does nothing.
func (Nop) Record(context.Context, domain.ActivityEvent) {}

// Journal writes events to a storage.ActivityStore.
type Journal struct {
	store  storage.ActivityStore
	logger *log.Logger
	now    func() time.Time
}

// Compile-time interface check.
var _ Recorder = (*Journal)(nil)

// New creates a journal over store.
func New(store storage.ActivityStore) *Journal {
	return &Journal{
		store:  store,
		logger: log.New(os.Stdout, "[journal] ", log.LstdFlags|log.Lshortfile),
		now:    time.Now,
	}
}

// SetLogger replaces the default logger.
func (j *Journal) SetLogger(logger *log.Logger) {
	if logger != nil {
		j.logger = logger
	}
}

// Record stamps ev with the current time when unset and appends it.
// Store failures are logged and dropped.
func (j *Journal) Record(ctx context.Context, ev domain.ActivityEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = j.now().UTC()
	}
	// a cancelled request must not lose its journal entry
	ctx = context.WithoutCancel(ctx)

	if err := j.store.Append(ctx, &ev); err != nil {
		j.logger.Printf("append %s event for %q: %v", ev.Kind, ev.Subject, err)
		return
	}
	observability.RecordActivity(string(ev.Kind))
}

// Recent returns matching events, newest first.
func (j *Journal) Recent(ctx context.Context, kind domain.ActivityKind, subject string, limit int) ([]*domain.ActivityEvent, error) {
	return j.store.Recent(ctx, storage.ActivityFilter{Kind: kind, Subject: subject, Limit: limit})
}
