package dto

import (
	"time"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

type ProfileRequest struct {
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	Gender       string   `json:"gender"`
	InterestedIn string   `json:"interested_in"`
	Photos       []string `json:"photos"`
	Bio          string   `json:"bio"`
	JobTitle     string   `json:"job_title,omitempty"`
	Interests    []string `json:"interests"`
	LookingFor   string   `json:"looking_for,omitempty"`
	Religion     string   `json:"religion,omitempty"`
}

type ProfileResponse struct {
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Age          int        `json:"age"`
	Gender       string     `json:"gender"`
	InterestedIn string     `json:"interested_in"`
	Photos       []string   `json:"photos"`
	Bio          string     `json:"bio"`
	JobTitle     string     `json:"job_title,omitempty"`
	Interests    []string   `json:"interests"`
	LookingFor   string     `json:"looking_for,omitempty"`
	Religion     string     `json:"religion,omitempty"`
	IsPremium    bool       `json:"is_premium"`
	PremiumSince *time.Time `json:"premium_since,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ProfileCard is what other users see: no premium state, no timestamps.
type ProfileCard struct {
	UserID     string   `json:"user_id"`
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Gender     string   `json:"gender"`
	Photos     []string `json:"photos"`
	Bio        string   `json:"bio"`
	JobTitle   string   `json:"job_title,omitempty"`
	Interests  []string `json:"interests"`
	LookingFor string   `json:"looking_for,omitempty"`
	Religion   string   `json:"religion,omitempty"`
}

func NewProfileResponse(p model.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:       p.UserID,
		Name:         p.Name,
		Age:          p.Age,
		Gender:       string(p.Gender),
		InterestedIn: string(p.InterestedIn),
		Photos:       nonNilStrings(p.Photos),
		Bio:          p.Bio,
		JobTitle:     p.JobTitle,
		Interests:    enums.InterestStrings(p.Interests),
		LookingFor:   string(p.LookingFor),
		Religion:     string(p.Religion),
		IsPremium:    p.IsPremium,
		PremiumSince: p.PremiumSince,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func NewProfileCard(p model.Profile) ProfileCard {
	return ProfileCard{
		UserID:     p.UserID,
		Name:       p.Name,
		Age:        p.Age,
		Gender:     string(p.Gender),
		Photos:     nonNilStrings(p.Photos),
		Bio:        p.Bio,
		JobTitle:   p.JobTitle,
		Interests:  enums.InterestStrings(p.Interests),
		LookingFor: string(p.LookingFor),
		Religion:   string(p.Religion),
	}
}

func NewSnapshotCard(userID string, s model.ProfileSnapshot) ProfileCard {
	return ProfileCard{
		UserID:     userID,
		Name:       s.Name,
		Age:        s.Age,
		Gender:     string(s.Gender),
		Photos:     nonNilStrings(s.Photos),
		Bio:        s.Bio,
		JobTitle:   s.JobTitle,
		Interests:  enums.InterestStrings(s.Interests),
		LookingFor: string(s.LookingFor),
		Religion:   string(s.Religion),
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
