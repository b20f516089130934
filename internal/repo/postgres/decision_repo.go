package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

type DecisionRepo struct {
	pool *pgxpool.Pool
}

func NewDecisionRepo(pool *pgxpool.Pool) *DecisionRepo {
	return &DecisionRepo{pool: pool}
}

func (r *DecisionRepo) GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error) {
	if r.pool == nil {
		return model.Decision{}, errs.Transient("get decision", fmt.Errorf("postgres pool is nil"))
	}

	var (
		d   model.Decision
		typ string
	)
	err := r.pool.QueryRow(ctx, `
SELECT decider_id, candidate_id, type, created_at
FROM decisions
WHERE decider_id = $1 AND candidate_id = $2
`, deciderID, candidateID).Scan(&d.DeciderID, &d.CandidateID, &typ, &d.CreatedAt)
	if err != nil {
		return model.Decision{}, storeErr("get decision", err)
	}
	d.Type = enums.DecisionType(typ)
	return d, nil
}

// PutDecision overwrites the pair's row unless the stored decision is newer.
func (r *DecisionRepo) PutDecision(ctx context.Context, d model.Decision) error {
	if r.pool == nil {
		return errs.Transient("put decision", fmt.Errorf("postgres pool is nil"))
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO decisions (
	decider_id,
	candidate_id,
	type,
	created_at
) VALUES ($1, $2, $3, $4)
ON CONFLICT (decider_id, candidate_id) DO UPDATE SET
	type = EXCLUDED.type,
	created_at = EXCLUDED.created_at
WHERE decisions.created_at <= EXCLUDED.created_at
`, d.DeciderID, d.CandidateID, string(d.Type), d.CreatedAt.UTC()); err != nil {
		return storeErr("put decision", err)
	}

	return nil
}

func (r *DecisionRepo) JudgedIDs(ctx context.Context, deciderID string) ([]string, error) {
	if r.pool == nil {
		return nil, errs.Transient("list judged ids", fmt.Errorf("postgres pool is nil"))
	}

	rows, err := r.pool.Query(ctx, `SELECT candidate_id FROM decisions WHERE decider_id = $1`, deciderID)
	if err != nil {
		return nil, storeErr("list judged ids", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storeErr("collect judged ids", err)
	}
	return ids, nil
}

func (r *DecisionRepo) DeleteDecisionsInvolving(ctx context.Context, userID string) (int64, error) {
	if r.pool == nil {
		return 0, errs.Transient("delete decisions", fmt.Errorf("postgres pool is nil"))
	}
	return deleteDecisionsInvolving(ctx, r.pool, userID)
}
