package model

import "time"

type Entitlement struct {
	UserID       string     `json:"user_id"`
	IsPremium    bool       `json:"is_premium"`
	PremiumSince *time.Time `json:"premium_since"`
}
