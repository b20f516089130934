package sqlite

import (
	"context"
	"database/sql"
)

// AccountRepo deletes a profile and its decisions atomically. Matches are kept.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) PurgeAccount(ctx context.Context, userID string) (purged int64, err error) {
	if r.db == nil {
		return 0, nilDB("purge account")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr("begin purge", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return 0, storeErr("delete profile", err)
	}
	purged, err = deleteDecisionsInvolving(ctx, tx, userID)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, storeErr("commit purge", err)
	}
	return purged, nil
}
