package redis

import (
	"context"
	"testing"
)

func TestPendingRepoAddIsIdempotentAndPopDrains(t *testing.T) {
	_, client := newMiniRedisClient(t)
	repo := NewPendingRepo(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Add(ctx, "alice", "bob"); err != nil {
			t.Fatalf("add pending: %v", err)
		}
	}
	if err := repo.Add(ctx, "carol", "dave"); err != nil {
		t.Fatalf("add pending: %v", err)
	}

	n, err := repo.Len(ctx)
	if err != nil {
		t.Fatalf("len pending: %v", err)
	}
	if n != 2 {
		t.Fatalf("unexpected pending size: got %d want 2", n)
	}

	pairs, err := repo.Pop(ctx, 10)
	if err != nil {
		t.Fatalf("pop pending: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("unexpected popped pairs: %v", pairs)
	}
	seen := map[[2]string]bool{}
	for _, p := range pairs {
		seen[p] = true
	}
	if !seen[[2]string{"alice", "bob"}] || !seen[[2]string{"carol", "dave"}] {
		t.Fatalf("unexpected pairs: %v", pairs)
	}

	rest, err := repo.Pop(ctx, 10)
	if err != nil {
		t.Fatalf("pop empty: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected empty pop, got %v", rest)
	}
}

func TestPendingRepoKeepsSeparatorIDsIntact(t *testing.T) {
	_, client := newMiniRedisClient(t)
	repo := NewPendingRepo(client)
	ctx := context.Background()

	want := map[[2]string]bool{
		{"b:c", "a"}:    true,
		{"b", "c:a"}:    true,
		{"x\x1fy", "z"}: true,
	}
	for pair := range want {
		if err := repo.Add(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("add pending: %v", err)
		}
	}

	pairs, err := repo.Pop(ctx, 10)
	if err != nil {
		t.Fatalf("pop pending: %v", err)
	}
	if len(pairs) != len(want) {
		t.Fatalf("unexpected popped pairs: got %v want %d", pairs, len(want))
	}
	for _, p := range pairs {
		if !want[p] {
			t.Fatalf("unexpected pair: %q", p)
		}
	}
}

func TestParsePendingMemberRejectsJunk(t *testing.T) {
	for _, member := range []string{"", "alice", "x:alice:bob", "9:alice:bob", "5:alice:", "5:alicebob"} {
		if _, _, ok := parsePendingMember(member); ok {
			t.Fatalf("expected %q to be rejected", member)
		}
	}
}
