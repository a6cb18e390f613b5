package journal

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/storage"
	"github.com/Ken19931113/debook/internal/storage/memory"
)

type brokenStore struct{}

func (brokenStore) Append(context.Context, *domain.ActivityEvent) error {
	return errors.New("connection refused")
}

func (brokenStore) Recent(context.Context, storage.ActivityFilter) ([]*domain.ActivityEvent, error) {
	return nil, errors.New("connection refused")
}

func TestJournal_RecordStampsTime(t *testing.T) {
	j := New(memory.NewActivityStore(0))
	fixed := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	ctx := context.Background()
	j.Record(ctx, domain.ActivityEvent{Kind: domain.ActivityQuote, Subject: "alice", PropertyID: 3})

	past := fixed.Add(-time.Hour)
	j.Record(ctx, domain.ActivityEvent{Kind: domain.ActivityWalletLinked, Subject: "alice", OccurredAt: past})

	events, err := j.Recent(ctx, "", "alice", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, past, events[0].OccurredAt)
	assert.Equal(t, fixed, events[1].OccurredAt)
}

func TestJournal_RecordSurvivesCancelledContext(t *testing.T) {
	j := New(memory.NewActivityStore(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j.Record(ctx, domain.ActivityEvent{Kind: domain.ActivityListingSubmit, TxHash: "0x01"})

	events, err := j.Recent(context.Background(), domain.ActivityListingSubmit, "", 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestJournal_StoreFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	j := New(brokenStore{})
	j.SetLogger(log.New(&buf, "", 0))

	j.Record(context.Background(), domain.ActivityEvent{Kind: domain.ActivityQuote, Subject: "alice"})

	assert.True(t, strings.Contains(buf.String(), "connection refused"), buf.String())
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.Record(context.Background(), domain.ActivityEvent{Kind: domain.ActivityQuote})
}
