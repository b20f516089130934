package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

const (
	MinAge       = 18
	MaxAge       = 120
	MinPhotos    = 1
	MaxPhotos    = 6
	MaxBioLength = 500
	MaxNameLen   = 64
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func ValidateProfile(p model.Profile) error {
	if strings.TrimSpace(p.UserID) == "" {
		return ValidationError{Field: "user_id", Reason: "is required"}
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ValidationError{Field: "name", Reason: "is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return ValidationError{Field: "name", Reason: "is too long"}
	}
	if p.Age < MinAge {
		return ValidationError{Field: "age", Reason: fmt.Sprintf("must be at least %d", MinAge)}
	}
	if p.Age > MaxAge {
		return ValidationError{Field: "age", Reason: "is out of range"}
	}
	if !p.Gender.Valid() {
		return ValidationError{Field: "gender", Reason: "is not supported"}
	}
	if !p.InterestedIn.Valid() {
		return ValidationError{Field: "interested_in", Reason: "must be male, female or both"}
	}
	if len(p.Photos) < MinPhotos {
		return ValidationError{Field: "photos", Reason: "at least one photo is required"}
	}
	if len(p.Photos) > MaxPhotos {
		return ValidationError{Field: "photos", Reason: fmt.Sprintf("at most %d photos are allowed", MaxPhotos)}
	}
	for _, photo := range p.Photos {
		if strings.TrimSpace(photo) == "" {
			return ValidationError{Field: "photos", Reason: "photo reference is empty"}
		}
	}
	if utf8.RuneCountInString(p.Bio) > MaxBioLength {
		return ValidationError{Field: "bio", Reason: "is too long"}
	}
	for _, interest := range p.Interests {
		if !interest.Valid() {
			return ValidationError{Field: "interests", Reason: fmt.Sprintf("unknown interest %q", interest)}
		}
	}
	if !p.LookingFor.Valid() {
		return ValidationError{Field: "looking_for", Reason: "is not supported"}
	}
	if !p.Religion.Valid() {
		return ValidationError{Field: "religion", Reason: "is not supported"}
	}
	return nil
}

// NormalizeInterests drops blanks and duplicates, keeping first-seen order.
func NormalizeInterests(in []enums.Interest) []enums.Interest {
	seen := make(map[enums.Interest]struct{}, len(in))
	out := make([]enums.Interest, 0, len(in))
	for _, interest := range in {
		interest = enums.Interest(strings.TrimSpace(string(interest)))
		if interest == "" {
			continue
		}
		if _, ok := seen[interest]; ok {
			continue
		}
		seen[interest] = struct{}{}
		out = append(out, interest)
	}
	return out
}
