package sqlite

import (
	"context"
	"database/sql"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

type DecisionRepo struct {
	db *sql.DB
}

func NewDecisionRepo(db *sql.DB) *DecisionRepo {
	return &DecisionRepo{db: db}
}

func (r *DecisionRepo) GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error) {
	if r.db == nil {
		return model.Decision{}, nilDB("get decision")
	}

	var (
		typ       string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
SELECT type, created_at
FROM decisions
WHERE decider_id = ? AND candidate_id = ?
`, deciderID, candidateID).Scan(&typ, &createdAt)
	if err != nil {
		return model.Decision{}, storeErr("get decision", err)
	}

	return model.Decision{
		DeciderID:   deciderID,
		CandidateID: candidateID,
		Type:        enums.DecisionType(typ),
		CreatedAt:   fromMicros(createdAt),
	}, nil
}

// PutDecision keeps the row with the newest timestamp; an older write is a no-op.
func (r *DecisionRepo) PutDecision(ctx context.Context, d model.Decision) error {
	if r.db == nil {
		return nilDB("put decision")
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO decisions (decider_id, candidate_id, type, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (decider_id, candidate_id) DO UPDATE SET
	type = excluded.type,
	created_at = excluded.created_at
WHERE decisions.created_at <= excluded.created_at
`, d.DeciderID, d.CandidateID, string(d.Type), toMicros(d.CreatedAt))
	if err != nil {
		return storeErr("put decision", err)
	}
	return nil
}

func (r *DecisionRepo) JudgedIDs(ctx context.Context, deciderID string) ([]string, error) {
	if r.db == nil {
		return nil, nilDB("list judged ids")
	}

	rows, err := r.db.QueryContext(ctx, `SELECT candidate_id FROM decisions WHERE decider_id = ?`, deciderID)
	if err != nil {
		return nil, storeErr("list judged ids", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("scan judged id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate judged ids", err)
	}
	return ids, nil
}

func (r *DecisionRepo) DeleteDecisionsInvolving(ctx context.Context, userID string) (int64, error) {
	if r.db == nil {
		return 0, nilDB("delete decisions")
	}
	return deleteDecisionsInvolving(ctx, r.db, userID)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func deleteDecisionsInvolving(ctx context.Context, db execer, userID string) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM decisions WHERE decider_id = ? OR candidate_id = ?`, userID, userID)
	if err != nil {
		return 0, storeErr("delete decisions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("count deleted decisions", err)
	}
	return n, nil
}
