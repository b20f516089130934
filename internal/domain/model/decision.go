package model

import (
	"time"

	"github.com/slayerintech/Lovify/internal/domain/enums"
)

// Decision is the directed like/dislike edge from DeciderID to CandidateID.
type Decision struct {
	DeciderID   string             `json:"decider_id"`
	CandidateID string             `json:"candidate_id"`
	Type        enums.DecisionType `json:"type"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (d Decision) IsLike() bool {
	return d.Type == enums.DecisionLike
}
