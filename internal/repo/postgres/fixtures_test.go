package postgres

import (
	"time"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

func decisionFixture() model.Decision {
	return model.Decision{
		DeciderID:   "alice",
		CandidateID: "bob",
		Type:        enums.DecisionLike,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func matchFixture() model.Match {
	return model.Match{
		ID:        rules.MatchID("alice", "bob"),
		UserA:     "alice",
		UserB:     "bob",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
