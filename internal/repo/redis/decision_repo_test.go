package redis

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

func TestDecisionRepoLatestWins(t *testing.T) {
	_, client := newMiniRedisClient(t)
	repo := NewDecisionRepo(client)
	ctx := context.Background()
	t0 := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	put := func(typ enums.DecisionType, at time.Time) {
		t.Helper()
		if err := repo.PutDecision(ctx, model.Decision{DeciderID: "a", CandidateID: "b", Type: typ, CreatedAt: at}); err != nil {
			t.Fatalf("put decision: %v", err)
		}
	}

	put(enums.DecisionLike, t0)
	put(enums.DecisionDislike, t0.Add(time.Second))
	put(enums.DecisionLike, t0.Add(-time.Second))

	got, err := repo.GetDecision(ctx, "a", "b")
	if err != nil {
		t.Fatalf("get decision: %v", err)
	}
	if got.Type != enums.DecisionDislike {
		t.Fatalf("unexpected decision type: got %s want %s", got.Type, enums.DecisionDislike)
	}
	if !got.CreatedAt.Equal(t0.Add(time.Second)) {
		t.Fatalf("unexpected decision time: got %s", got.CreatedAt)
	}

	ids, err := repo.JudgedIDs(ctx, "a")
	if err != nil {
		t.Fatalf("judged ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "b" {
		t.Fatalf("unexpected judged ids: %v", ids)
	}
}

func TestDecisionRepoMissingIsNotFound(t *testing.T) {
	_, client := newMiniRedisClient(t)
	_, err := NewDecisionRepo(client).GetDecision(context.Background(), "a", "b")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDecisionRepoDeleteInvolving(t *testing.T) {
	_, client := newMiniRedisClient(t)
	repo := NewDecisionRepo(client)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, d := range []model.Decision{
		{DeciderID: "gone", CandidateID: "x", Type: enums.DecisionLike, CreatedAt: now},
		{DeciderID: "gone", CandidateID: "y", Type: enums.DecisionDislike, CreatedAt: now},
		{DeciderID: "x", CandidateID: "gone", Type: enums.DecisionLike, CreatedAt: now},
		{DeciderID: "x", CandidateID: "y", Type: enums.DecisionLike, CreatedAt: now},
	} {
		if err := repo.PutDecision(ctx, d); err != nil {
			t.Fatalf("put decision: %v", err)
		}
	}

	n, err := repo.DeleteDecisionsInvolving(ctx, "gone")
	if err != nil {
		t.Fatalf("delete decisions: %v", err)
	}
	if n != 3 {
		t.Fatalf("unexpected purge count: got %d want 3", n)
	}

	ids, err := repo.JudgedIDs(ctx, "x")
	if err != nil {
		t.Fatalf("judged ids: %v", err)
	}
	sort.Strings(ids)
	if len(ids) != 1 || ids[0] != "y" {
		t.Fatalf("unexpected remaining judged ids: %v", ids)
	}
	if _, err := repo.GetDecision(ctx, "gone", "x"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected outgoing decision removed, got %v", err)
	}
}
