package model

import (
	"time"

	"github.com/slayerintech/Lovify/internal/domain/enums"
)

type Profile struct {
	UserID       string             `json:"user_id"`
	Name         string             `json:"name"`
	Age          int                `json:"age"`
	Gender       enums.Gender       `json:"gender"`
	InterestedIn enums.InterestedIn `json:"interested_in"`
	Photos       []string           `json:"photos"`
	Bio          string             `json:"bio"`
	JobTitle     string             `json:"job_title,omitempty"`
	Interests    []enums.Interest   `json:"interests"`
	LookingFor   enums.LookingFor   `json:"looking_for,omitempty"`
	Religion     enums.Religion     `json:"religion,omitempty"`
	IsPremium    bool               `json:"is_premium"`
	PremiumSince *time.Time         `json:"premium_since,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// ProfileSnapshot is the copy of a profile embedded into a match at creation time.
type ProfileSnapshot struct {
	Name       string           `json:"name" bson:"name" dynamodbav:"name"`
	Age        int              `json:"age" bson:"age" dynamodbav:"age"`
	Gender     enums.Gender     `json:"gender" bson:"gender" dynamodbav:"gender"`
	Photos     []string         `json:"photos" bson:"photos" dynamodbav:"photos"`
	Bio        string           `json:"bio" bson:"bio" dynamodbav:"bio"`
	JobTitle   string           `json:"job_title,omitempty" bson:"job_title,omitempty" dynamodbav:"job_title,omitempty"`
	Interests  []enums.Interest `json:"interests" bson:"interests" dynamodbav:"interests"`
	LookingFor enums.LookingFor `json:"looking_for,omitempty" bson:"looking_for,omitempty" dynamodbav:"looking_for,omitempty"`
	Religion   enums.Religion   `json:"religion,omitempty" bson:"religion,omitempty" dynamodbav:"religion,omitempty"`
}

func (p Profile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		Name:       p.Name,
		Age:        p.Age,
		Gender:     p.Gender,
		Photos:     append([]string(nil), p.Photos...),
		Bio:        p.Bio,
		JobTitle:   p.JobTitle,
		Interests:  append([]enums.Interest(nil), p.Interests...),
		LookingFor: p.LookingFor,
		Religion:   p.Religion,
	}
}
