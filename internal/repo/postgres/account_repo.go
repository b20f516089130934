package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slayerintech/Lovify/internal/domain/errs"
)

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// AccountRepo removes a user's profile and every decision made by or about them
// in one transaction. Matches are kept.
type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

func (r *AccountRepo) PurgeAccount(ctx context.Context, userID string) (int64, error) {
	if r.pool == nil {
		return 0, errs.Transient("purge account", fmt.Errorf("postgres pool is nil"))
	}

	var purged int64
	err := withTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(txCtx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
			return storeErr("delete profile", err)
		}
		n, err := deleteDecisionsInvolving(txCtx, tx, userID)
		if err != nil {
			return err
		}
		purged = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

func deleteDecisionsInvolving(ctx context.Context, db execer, userID string) (int64, error) {
	tag, err := db.Exec(ctx, `
DELETE FROM decisions
WHERE decider_id = $1 OR candidate_id = $1
`, userID)
	if err != nil {
		return 0, storeErr("delete decisions", err)
	}
	return tag.RowsAffected(), nil
}
