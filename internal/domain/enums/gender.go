package enums

import "strings"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func ParseGender(value string) (Gender, bool) {
	g := Gender(strings.ToLower(strings.TrimSpace(value)))
	return g, g.Valid()
}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

// InterestedIn is the gender preference a user browses with.
type InterestedIn string

const (
	InterestedInMale   InterestedIn = "male"
	InterestedInFemale InterestedIn = "female"
	InterestedInBoth   InterestedIn = "both"
)

func ParseInterestedIn(value string) (InterestedIn, bool) {
	in := InterestedIn(strings.ToLower(strings.TrimSpace(value)))
	return in, in.Valid()
}

func (i InterestedIn) Valid() bool {
	switch i {
	case InterestedInMale, InterestedInFemale, InterestedInBoth:
		return true
	default:
		return false
	}
}

func InterestedInOptions() []InterestedIn {
	return []InterestedIn{InterestedInMale, InterestedInFemale, InterestedInBoth}
}
