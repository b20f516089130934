package dto

import "time"

type SwipeRequest struct {
	CandidateID string `json:"candidate_id"`
	Decision    string `json:"decision"`
}

type SwipeResponse struct {
	OK               bool             `json:"ok"`
	Decision         DecisionResponse `json:"decision"`
	Matched          bool             `json:"matched"`
	Match            *MatchResponse   `json:"match,omitempty"`
	MatchPending     bool             `json:"match_pending"`
	ShowInterstitial bool             `json:"show_interstitial"`
}

type DecisionResponse struct {
	DeciderID   string    `json:"decider_id"`
	CandidateID string    `json:"candidate_id"`
	Decision    string    `json:"decision"`
	CreatedAt   time.Time `json:"created_at"`
}
