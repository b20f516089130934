package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/slayerintech/Lovify/internal/domain/model"
)

func TestChatRepoRecentReturnsOldestFirst(t *testing.T) {
	_, client := newMiniRedisClient(t)
	repo := NewChatRepo(client)
	ctx := context.Background()
	t0 := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if _, err := repo.Append(ctx, model.ChatMessage{
			ID:        fmt.Sprintf("m%d", i),
			MatchID:   "match-1",
			SenderID:  "alice",
			Text:      fmt.Sprintf("hi %d", i),
			CreatedAt: t0.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("append message #%d: %v", i, err)
		}
	}

	got, err := repo.Recent(ctx, "match-1", 3)
	if err != nil {
		t.Fatalf("recent messages: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected message count: got %d want 3", len(got))
	}
	if got[0].ID != "m2" || got[2].ID != "m4" {
		t.Fatalf("unexpected message order: %s..%s", got[0].ID, got[2].ID)
	}
	if !got[2].CreatedAt.Equal(t0.Add(4 * time.Second)) {
		t.Fatalf("unexpected timestamp: %s", got[2].CreatedAt)
	}
}

func TestChatRepoRecentEmptyThread(t *testing.T) {
	_, client := newMiniRedisClient(t)
	got, err := NewChatRepo(client).Recent(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("recent messages: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
}
