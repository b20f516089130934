package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

func TestPurgeAccountKeepsMatches(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	_ = s.UpsertProfile(ctx, model.Profile{UserID: "a", CreatedAt: now})
	_ = s.PutDecision(ctx, model.Decision{DeciderID: "a", CandidateID: "b", Type: enums.DecisionLike, CreatedAt: now})
	_ = s.PutDecision(ctx, model.Decision{DeciderID: "b", CandidateID: "a", Type: enums.DecisionLike, CreatedAt: now})
	_ = s.PutDecision(ctx, model.Decision{DeciderID: "b", CandidateID: "c", Type: enums.DecisionLike, CreatedAt: now})
	if _, _, err := s.CreateMatchIfAbsent(ctx, model.Match{ID: rules.MatchID("a", "b"), UserA: "b", UserB: "a", CreatedAt: now}); err != nil {
		t.Fatalf("create match: %v", err)
	}

	n, err := s.PurgeAccount(ctx, "a")
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("unexpected purge count: got %d want 2", n)
	}
	if s.MatchCount() != 1 {
		t.Fatalf("expected match history kept")
	}
	ids, _ := s.JudgedIDs(ctx, "b")
	if len(ids) != 1 || ids[0] != "c" {
		t.Fatalf("unexpected judged ids: %v", ids)
	}
}

func TestUpsertProfileKeepsCreatedAt(t *testing.T) {
	s := New()
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = s.UpsertProfile(ctx, model.Profile{UserID: "a", Name: "x", CreatedAt: t0})
	_ = s.UpsertProfile(ctx, model.Profile{UserID: "a", Name: "y", CreatedAt: t0.Add(time.Hour)})

	p, err := s.GetProfile(ctx, "a")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.Name != "y" || !p.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestDecisionsWithSeparatorInIDsStayApart(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.PutDecision(ctx, model.Decision{DeciderID: "b", CandidateID: "c:a", Type: enums.DecisionLike, CreatedAt: now}); err != nil {
		t.Fatalf("put decision: %v", err)
	}

	if _, err := s.GetDecision(ctx, "b:c", "a"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unexpected decision lookup error: got %v want %v", err, errs.ErrNotFound)
	}
	d, err := s.GetDecision(ctx, "b", "c:a")
	if err != nil || d.DeciderID != "b" || d.CandidateID != "c:a" {
		t.Fatalf("unexpected decision: %+v, %v", d, err)
	}
}
