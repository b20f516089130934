package cassandra

import (
	"context"

	"github.com/gocql/gocql"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

type DecisionRepo struct {
	session *gocql.Session
}

func NewDecisionRepo(session *gocql.Session) *DecisionRepo {
	return &DecisionRepo{session: session}
}

func (r *DecisionRepo) GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error) {
	if r.session == nil {
		return model.Decision{}, nilSession("get decision")
	}

	var (
		typ       string
		createdAt int64
	)
	err := r.session.Query(`
SELECT type, created_at FROM decisions WHERE decider_id = ? AND candidate_id = ?
`, deciderID, candidateID).WithContext(ctx).Scan(&typ, &createdAt)
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

// PutDecision writes with the decision time as the cell timestamp, so Cassandra's
// last-write-wins resolution keeps the newest decision even when writes arrive
// out of order.
func (r *DecisionRepo) PutDecision(ctx context.Context, d model.Decision) error {
	if r.session == nil {
		return nilSession("put decision")
	}

	ts := d.CreatedAt.UTC().UnixMicro()
	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO decisions (decider_id, candidate_id, type, created_at) VALUES (?, ?, ?, ?)`,
		d.DeciderID, d.CandidateID, string(d.Type), ts)
	batch.Query(`INSERT INTO decisions_by_candidate (candidate_id, decider_id) VALUES (?, ?)`,
		d.CandidateID, d.DeciderID)
	batch.WithTimestamp(ts)

	if err := r.session.ExecuteBatch(batch); err != nil {
		return storeErr("put decision", err)
	}
	return nil
}

func (r *DecisionRepo) JudgedIDs(ctx context.Context, deciderID string) ([]string, error) {
	if r.session == nil {
		return nil, nilSession("list judged ids")
	}
	ids, err := r.collect(ctx, `SELECT candidate_id FROM decisions WHERE decider_id = ?`, deciderID)
	if err != nil {
		return nil, storeErr("list judged ids", err)
	}
	return ids, nil
}

func (r *DecisionRepo) DeleteDecisionsInvolving(ctx context.Context, userID string) (int64, error) {
	if r.session == nil {
		return 0, nilSession("delete decisions")
	}

	outgoing, err := r.collect(ctx, `SELECT candidate_id FROM decisions WHERE decider_id = ?`, userID)
	if err != nil {
		return 0, storeErr("list outgoing decisions", err)
	}
	incoming, err := r.collect(ctx, `SELECT decider_id FROM decisions_by_candidate WHERE candidate_id = ?`, userID)
	if err != nil {
		return 0, storeErr("list incoming decisions", err)
	}

	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, candidateID := range outgoing {
		batch.Query(`DELETE FROM decisions_by_candidate WHERE candidate_id = ? AND decider_id = ?`, candidateID, userID)
	}
	batch.Query(`DELETE FROM decisions WHERE decider_id = ?`, userID)
	for _, deciderID := range incoming {
		batch.Query(`DELETE FROM decisions WHERE decider_id = ? AND candidate_id = ?`, deciderID, userID)
	}
	batch.Query(`DELETE FROM decisions_by_candidate WHERE candidate_id = ?`, userID)

	if err := r.session.ExecuteBatch(batch); err != nil {
		return 0, storeErr("delete decisions", err)
	}
	return int64(len(outgoing) + len(incoming)), nil
}

func (r *DecisionRepo) collect(ctx context.Context, stmt string, arg string) ([]string, error) {
	iter := r.session.Query(stmt, arg).WithContext(ctx).Iter()
	out := make([]string, 0)
	var id string
	for iter.Scan(&id) {
		out = append(out, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}
