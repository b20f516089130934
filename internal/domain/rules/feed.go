package rules

import (
	"sort"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

// GenderFilterFor returns nil when no gender filter applies.
func GenderFilterFor(in enums.InterestedIn) *enums.Gender {
	switch in {
	case enums.InterestedInMale:
		g := enums.GenderMale
		return &g
	case enums.InterestedInFemale:
		g := enums.GenderFemale
		return &g
	default:
		return nil
	}
}

// SortFeed orders candidates by profile creation time, oldest first, then by user id.
func SortFeed(profiles []model.Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.UserID < b.UserID
	})
}
