package rules

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

func validProfile() model.Profile {
	return model.Profile{
		UserID:       "u1",
		Name:         "Priya",
		Age:          24,
		Gender:       enums.GenderFemale,
		InterestedIn: enums.InterestedInMale,
		Photos:       []string{"photos/u1/1.jpg"},
		Interests:    []enums.Interest{enums.InterestMusic},
		LookingFor:   enums.LookingForChill,
	}
}

func TestValidateProfile(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *model.Profile)
		field  string
	}{
		{name: "valid", mutate: func(p *model.Profile) {}},
		{name: "missing name", mutate: func(p *model.Profile) { p.Name = "  " }, field: "name"},
		{name: "underage", mutate: func(p *model.Profile) { p.Age = 17 }, field: "age"},
		{name: "bad gender", mutate: func(p *model.Profile) { p.Gender = "robot" }, field: "gender"},
		{name: "bad preference", mutate: func(p *model.Profile) { p.InterestedIn = "other" }, field: "interested_in"},
		{name: "no photos", mutate: func(p *model.Profile) { p.Photos = nil }, field: "photos"},
		{name: "too many photos", mutate: func(p *model.Profile) { p.Photos = []string{"1", "2", "3", "4", "5", "6", "7"} }, field: "photos"},
		{name: "long bio", mutate: func(p *model.Profile) { p.Bio = strings.Repeat("x", MaxBioLength+1) }, field: "bio"},
		{name: "unknown interest", mutate: func(p *model.Profile) { p.Interests = []enums.Interest{"Knitting"} }, field: "interests"},
		{name: "unknown religion", mutate: func(p *model.Profile) { p.Religion = "Pastafarian" }, field: "religion"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutate(&p)
			err := ValidateProfile(p)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("unexpected field: got %s want %s", verr.Field, tc.field)
			}
		})
	}
}

func TestNormalizeInterests(t *testing.T) {
	got := NormalizeInterests([]enums.Interest{"Music", " Music", "", "Gym"})
	if len(got) != 2 || got[0] != enums.InterestMusic || got[1] != enums.InterestGym {
		t.Fatalf("unexpected interests: %v", got)
	}
}

func TestSortFeedByCreatedAtThenID(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	profiles := []model.Profile{
		{UserID: "c", CreatedAt: base.Add(time.Hour)},
		{UserID: "b", CreatedAt: base},
		{UserID: "a", CreatedAt: base},
	}
	SortFeed(profiles)
	got := []string{profiles[0].UserID, profiles[1].UserID, profiles[2].UserID}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
}

func TestGenderFilterFor(t *testing.T) {
	if GenderFilterFor(enums.InterestedInBoth) != nil {
		t.Fatalf("expected no filter for both")
	}
	g := GenderFilterFor(enums.InterestedInFemale)
	if g == nil || *g != enums.GenderFemale {
		t.Fatalf("unexpected filter: %v", g)
	}
}
