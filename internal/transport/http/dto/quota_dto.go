package dto

import "time"

type QuotaResponse struct {
	Unlimited bool       `json:"unlimited"`
	LikesLeft int        `json:"likes_left"`
	Limit     int        `json:"limit"`
	ResetsAt  *time.Time `json:"resets_at,omitempty"`
}
