package dto

import "time"

type PremiumRequest struct {
	IsPremium *bool `json:"is_premium"`
}

type EntitlementResponse struct {
	IsPremium    bool       `json:"is_premium"`
	PremiumSince *time.Time `json:"premium_since,omitempty"`
}

type DeleteAccountResponse struct {
	OK               bool  `json:"ok"`
	DecisionsRemoved int64 `json:"decisions_removed"`
}
