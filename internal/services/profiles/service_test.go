package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
	"github.com/slayerintech/Lovify/internal/repo/memory"
)

func validInput() Input {
	return Input{
		Name:         "  Meera ",
		Age:          24,
		Gender:       " Female",
		InterestedIn: "BOTH",
		Photos:       []string{"photos/meera/1.jpg"},
		Bio:          "Coffee first.",
		Interests:    []string{"music", "Travel", "MUSIC", " "},
		LookingFor:   "chill type",
		Religion:     "hindu",
	}
}

func TestSaveNormalizesInput(t *testing.T) {
	svc := NewService(Dependencies{Profiles: memory.New()})

	p, err := svc.Save(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.Name != "Meera" || p.Gender != enums.GenderFemale || p.InterestedIn != enums.InterestedInBoth {
		t.Fatalf("unexpected normalized profile: %+v", p)
	}
	if len(p.Interests) != 2 || p.Interests[0] != enums.InterestMusic || p.Interests[1] != enums.InterestTravel {
		t.Fatalf("unexpected interests: %v", p.Interests)
	}
	if p.LookingFor != enums.LookingForChill || p.Religion != enums.ReligionHindu {
		t.Fatalf("unexpected tags: %q %q", p.LookingFor, p.Religion)
	}
}

func TestSaveKeepsPremiumAndCreatedAt(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	since := created.Add(time.Hour)
	if err := store.UpsertProfile(ctx, model.Profile{
		UserID:       "u1",
		Name:         "Old",
		IsPremium:    true,
		PremiumSince: &since,
		CreatedAt:    created,
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	svc := NewService(Dependencies{Profiles: store})
	p, err := svc.Save(ctx, "u1", validInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !p.IsPremium || p.PremiumSince == nil || !p.CreatedAt.Equal(created) {
		t.Fatalf("unexpected preserved fields: %+v", p)
	}
}

func TestSaveRejectsInvalidProfile(t *testing.T) {
	svc := NewService(Dependencies{Profiles: memory.New()})

	cases := []struct {
		name  string
		mut   func(in *Input)
		field string
	}{
		{name: "underage", mut: func(in *Input) { in.Age = 17 }, field: "age"},
		{name: "no photos", mut: func(in *Input) { in.Photos = nil }, field: "photos"},
		{name: "bad gender", mut: func(in *Input) { in.Gender = "robot" }, field: "gender"},
		{name: "unknown interest", mut: func(in *Input) { in.Interests = []string{"Skydiving"} }, field: "interests"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			_, err := svc.Save(context.Background(), "u1", in)
			if !errors.Is(err, errs.ErrInvalidInput) {
				t.Fatalf("unexpected error: got %v want %v", err, errs.ErrInvalidInput)
			}
			var verr rules.ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("unexpected validation field: got %+v want %s", verr, tc.field)
			}
		})
	}
}

func TestDeleteAccountPurgesDecisionsAndKeepsMatches(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"u1", "u2", "u3"} {
		if err := store.UpsertProfile(ctx, model.Profile{UserID: id, Name: id}); err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}
	for _, d := range []model.Decision{
		{DeciderID: "u1", CandidateID: "u2", Type: enums.DecisionLike, CreatedAt: now},
		{DeciderID: "u2", CandidateID: "u1", Type: enums.DecisionLike, CreatedAt: now},
		{DeciderID: "u3", CandidateID: "u1", Type: enums.DecisionDislike, CreatedAt: now},
		{DeciderID: "u2", CandidateID: "u3", Type: enums.DecisionLike, CreatedAt: now},
	} {
		if err := store.PutDecision(ctx, d); err != nil {
			t.Fatalf("seed decision: %v", err)
		}
	}
	userA, userB := rules.SortedPair("u1", "u2")
	if _, _, err := store.CreateMatchIfAbsent(ctx, model.Match{ID: rules.MatchID(userA, userB), UserA: userA, UserB: userB, CreatedAt: now}); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	svc := NewService(Dependencies{Profiles: store, Decisions: store})
	purged, err := svc.DeleteAccount(ctx, "u1")
	if err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if purged != 3 {
		t.Fatalf("unexpected purged count: got %d want 3", purged)
	}
	if _, err := store.GetProfile(ctx, "u1"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected profile to be gone, got %v", err)
	}
	if _, err := store.GetDecision(ctx, "u2", "u3"); err != nil {
		t.Fatalf("expected unrelated decision to survive: %v", err)
	}
	matches, err := store.QueryMatchesForUser(ctx, "u2")
	if err != nil {
		t.Fatalf("query matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("unexpected matches after purge: got %d want 1", len(matches))
	}
}

// profilesOnly hides PurgeAccount so the service takes the two-step path.
type profilesOnly struct {
	ProfileStore
}

func TestDeleteAccountWithoutPurger(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	if err := store.UpsertProfile(ctx, model.Profile{UserID: "u1"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if err := store.PutDecision(ctx, model.Decision{DeciderID: "u2", CandidateID: "u1", Type: enums.DecisionLike, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("seed decision: %v", err)
	}

	svc := NewService(Dependencies{Profiles: profilesOnly{store}, Decisions: store})
	purged, err := svc.DeleteAccount(ctx, "u1")
	if err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if purged != 1 {
		t.Fatalf("unexpected purged count: got %d want 1", purged)
	}
	if _, err := store.GetProfile(ctx, "u1"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected profile to be gone, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	opts := NewService(Dependencies{}).Options()
	if len(opts.Interests) != 12 || opts.MaxPhotos != rules.MaxPhotos || opts.MinAge != 18 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
