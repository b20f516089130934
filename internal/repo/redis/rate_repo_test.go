package redis

import (
	"context"
	"testing"
	"time"
)

func TestIncrementCycleResetsAtThreshold(t *testing.T) {
	_, client := newMiniRedisClient(t)
	repo := NewRateRepo(client)
	ctx := context.Background()

	var hits []int
	for i := 1; i <= 10; i++ {
		_, hit, err := repo.IncrementCycle(ctx, "ads:swipes:u1", 5)
		if err != nil {
			t.Fatalf("increment cycle #%d: %v", i, err)
		}
		if hit {
			hits = append(hits, i)
		}
	}
	if len(hits) != 2 || hits[0] != 5 || hits[1] != 10 {
		t.Fatalf("unexpected threshold hits: %v", hits)
	}
}

func TestIncrementWindowExpires(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	repo := NewRateRepo(client)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, ttl, err := repo.IncrementWindow(ctx, "rl:swipes:10s:u1", 10*time.Second)
		if err != nil {
			t.Fatalf("increment window: %v", err)
		}
		if count != i {
			t.Fatalf("unexpected count: got %d want %d", count, i)
		}
		if ttl <= 0 || ttl > 10*time.Second {
			t.Fatalf("unexpected ttl: %v", ttl)
		}
	}

	count, _, err := repo.WindowState(ctx, "rl:swipes:10s:u1")
	if err != nil || count != 3 {
		t.Fatalf("unexpected window state: got %d, %v want 3", count, err)
	}

	mr.FastForward(11 * time.Second)

	count, ttl, err := repo.WindowState(ctx, "rl:swipes:10s:u1")
	if err != nil || count != 0 || ttl != 0 {
		t.Fatalf("expected an empty window after expiry, got %d %v %v", count, ttl, err)
	}
	count, _, err = repo.IncrementWindow(ctx, "rl:swipes:10s:u1", 10*time.Second)
	if err != nil || count != 1 {
		t.Fatalf("expected a fresh window, got %d %v", count, err)
	}
}

func TestIncrementWindowRejectsBadInput(t *testing.T) {
	_, client := newMiniRedisClient(t)
	repo := NewRateRepo(client)

	if _, _, err := repo.IncrementWindow(context.Background(), "", time.Second); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if _, _, err := repo.IncrementWindow(context.Background(), "k", 0); err == nil {
		t.Fatalf("expected error for zero window")
	}
}
