package dto

import (
	"time"

	"github.com/slayerintech/Lovify/internal/domain/model"
)

type MatchResponse struct {
	ID        string      `json:"id"`
	Partner   ProfileCard `json:"partner"`
	CreatedAt time.Time   `json:"created_at"`
}

type MatchesResponse struct {
	Items []MatchResponse `json:"items"`
}

type RecheckRequest struct {
	CandidateID string `json:"candidate_id"`
}

type RecheckResponse struct {
	Matched bool           `json:"matched"`
	Match   *MatchResponse `json:"match,omitempty"`
}

// NewMatchResponse renders m from viewerID's side.
func NewMatchResponse(m model.Match, viewerID string) MatchResponse {
	partner := m.OtherUser(viewerID)
	return MatchResponse{
		ID:        m.ID,
		Partner:   NewSnapshotCard(partner, m.Snapshots[partner]),
		CreatedAt: m.CreatedAt,
	}
}
