package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/storage"
)

func TestActivityStore_RecentNewestFirst(t *testing.T) {
	store := NewActivityStore(0)
	ctx := context.Background()

	for i, kind := range []domain.ActivityKind{domain.ActivityQuote, domain.ActivityListingSubmit, domain.ActivityQuote} {
		err := store.Append(ctx, &domain.ActivityEvent{Kind: kind, Subject: "alice", PropertyID: uint64(i + 1)})
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	all, err := store.Recent(ctx, storage.ActivityFilter{})
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(all))
	}
	if all[0].PropertyID != 3 || all[2].PropertyID != 1 {
		t.Errorf("Expected newest first, got %d..%d", all[0].PropertyID, all[2].PropertyID)
	}

	quotes, _ := store.Recent(ctx, storage.ActivityFilter{Kind: domain.ActivityQuote, Limit: 1})
	if len(quotes) != 1 || quotes[0].PropertyID != 3 {
		t.Errorf("Expected latest quote only, got %+v", quotes)
	}

	none, _ := store.Recent(ctx, storage.ActivityFilter{Subject: "bob"})
	if len(none) != 0 {
		t.Errorf("Expected no events for bob, got %d", len(none))
	}
}

func TestActivityStore_Capacity(t *testing.T) {
	store := NewActivityStore(2)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_ = store.Append(ctx, &domain.ActivityEvent{Kind: domain.ActivityQuote, PropertyID: uint64(i)})
	}

	events, _ := store.Recent(ctx, storage.ActivityFilter{})
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[1].PropertyID != 2 {
		t.Errorf("Expected oldest event evicted, got %d", events[1].PropertyID)
	}
}

func TestActivityStore_InvalidInput(t *testing.T) {
	store := NewActivityStore(0)

	if err := store.Append(context.Background(), &domain.ActivityEvent{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
