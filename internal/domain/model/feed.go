package model

import "github.com/slayerintech/Lovify/internal/domain/enums"

type ProfileFilter struct {
	ExcludeIDs   map[string]struct{}
	GenderEquals *enums.Gender
}

func (f ProfileFilter) Excludes(userID string) bool {
	_, ok := f.ExcludeIDs[userID]
	return ok
}

// Matches applies the filter in memory for stores that cannot push it down.
func (f ProfileFilter) Matches(p Profile) bool {
	if f.Excludes(p.UserID) {
		return false
	}
	if f.GenderEquals != nil && p.Gender != *f.GenderEquals {
		return false
	}
	return true
}

func (f ProfileFilter) ExcludeList() []string {
	out := make([]string, 0, len(f.ExcludeIDs))
	for id := range f.ExcludeIDs {
		out = append(out, id)
	}
	return out
}
