package dynamo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

func TestProfileRepoFiltersAndKeepsCreatedAt(t *testing.T) {
	tables := TablesWithPrefix("test_")
	api := newFakeAPI(tables)
	repo := NewProfileRepo(api, tables)
	ctx := context.Background()
	t0 := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"c", "a", "b"} {
		gender := enums.GenderFemale
		if id == "b" {
			gender = enums.GenderMale
		}
		if err := repo.UpsertProfile(ctx, model.Profile{
			UserID:       id,
			Name:         id,
			Age:          21,
			Gender:       gender,
			InterestedIn: enums.InterestedInBoth,
			Photos:       []string{id + ".jpg"},
			CreatedAt:    t0.Add(time.Duration(i) * time.Minute),
			UpdatedAt:    t0,
		}); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	female := enums.GenderFemale
	got, err := repo.QueryProfiles(ctx, model.ProfileFilter{GenderEquals: &female})
	if err != nil {
		t.Fatalf("query profiles: %v", err)
	}
	if len(got) != 2 || got[0].UserID != "c" || got[1].UserID != "a" {
		t.Fatalf("unexpected profiles: %+v", got)
	}

	again := got[0]
	again.CreatedAt = t0.Add(time.Hour)
	again.Bio = "updated"
	if err := repo.UpsertProfile(ctx, again); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	stored, err := repo.GetProfile(ctx, "c")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if stored.Bio != "updated" || !stored.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected stored profile: %+v", stored)
	}
}

func TestDecisionRepoConditionalPut(t *testing.T) {
	tables := TablesWithPrefix("test_")
	repo := NewDecisionRepo(newFakeAPI(tables), tables)
	ctx := context.Background()
	t0 := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	if err := repo.PutDecision(ctx, model.Decision{DeciderID: "a", CandidateID: "b", Type: enums.DecisionLike, CreatedAt: t0}); err != nil {
		t.Fatalf("put decision: %v", err)
	}
	if err := repo.PutDecision(ctx, model.Decision{DeciderID: "a", CandidateID: "b", Type: enums.DecisionDislike, CreatedAt: t0.Add(-time.Second)}); err != nil {
		t.Fatalf("stale put should be a no-op, got %v", err)
	}

	got, err := repo.GetDecision(ctx, "a", "b")
	if err != nil {
		t.Fatalf("get decision: %v", err)
	}
	if got.Type != enums.DecisionLike {
		t.Fatalf("unexpected decision: got %s want %s", got.Type, enums.DecisionLike)
	}
	if _, err := repo.GetDecision(ctx, "b", "a"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDecisionRepoDeleteInvolving(t *testing.T) {
	tables := TablesWithPrefix("test_")
	repo := NewDecisionRepo(newFakeAPI(tables), tables)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, d := range []model.Decision{
		{DeciderID: "x", CandidateID: "y", Type: enums.DecisionLike, CreatedAt: now},
		{DeciderID: "y", CandidateID: "x", Type: enums.DecisionLike, CreatedAt: now},
		{DeciderID: "y", CandidateID: "z", Type: enums.DecisionDislike, CreatedAt: now},
	} {
		if err := repo.PutDecision(ctx, d); err != nil {
			t.Fatalf("put decision: %v", err)
		}
	}

	n, err := repo.DeleteDecisionsInvolving(ctx, "x")
	if err != nil {
		t.Fatalf("delete decisions: %v", err)
	}
	if n != 2 {
		t.Fatalf("unexpected purge count: got %d want 2", n)
	}
	ids, err := repo.JudgedIDs(ctx, "y")
	if err != nil {
		t.Fatalf("judged ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "z" {
		t.Fatalf("unexpected judged ids: %v", ids)
	}
}

func TestMatchRepoCreateIfAbsentConcurrent(t *testing.T) {
	tables := TablesWithPrefix("test_")
	repo := NewMatchRepo(newFakeAPI(tables), tables)
	ctx := context.Background()
	t0 := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := "p", "q"
			if i%2 == 1 {
				a, b = b, a
			}
			_, ok, err := repo.CreateMatchIfAbsent(ctx, model.Match{
				ID:        rules.MatchID(a, b),
				UserA:     a,
				UserB:     b,
				Snapshots: map[string]model.ProfileSnapshot{a: {Name: a, Gender: enums.GenderMale}, b: {Name: b}},
				CreatedAt: t0,
			})
			if err != nil {
				t.Errorf("create match: %v", err)
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("unexpected created count: got %d want 1", created)
	}

	if _, _, err := repo.CreateMatchIfAbsent(ctx, model.Match{ID: rules.MatchID("p", "r"), UserA: "p", UserB: "r", CreatedAt: t0.Add(time.Hour)}); err != nil {
		t.Fatalf("create second match: %v", err)
	}
	list, err := repo.QueryMatchesForUser(ctx, "p")
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(list) != 2 || list[0].OtherUser("p") != "r" || list[1].OtherUser("p") != "q" {
		t.Fatalf("unexpected match order: %+v", list)
	}
	if list[1].Snapshots["p"].Gender != enums.GenderMale {
		t.Fatalf("expected snapshots to round-trip, got %+v", list[1].Snapshots)
	}
}

func TestThrottlingIsTransient(t *testing.T) {
	tables := TablesWithPrefix("test_")
	api := newFakeAPI(tables)
	api.failAll = &types.ProvisionedThroughputExceededException{Message: aws.String("slow down")}

	_, err := NewDecisionRepo(api, tables).GetDecision(context.Background(), "a", "b")
	if !errs.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestCreateTablesIsIdempotent(t *testing.T) {
	tables := TablesWithPrefix("test_")
	api := newFakeAPI(tables)
	for i := 0; i < 2; i++ {
		if err := CreateTables(context.Background(), api, tables); err != nil {
			t.Fatalf("create tables pass %d: %v", i, err)
		}
	}
}
