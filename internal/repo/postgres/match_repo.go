package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// CreateMatchIfAbsent relies on the primary key and the (user_a, user_b) unique
// constraint. When the insert is a no-op the stored row is returned instead.
func (r *MatchRepo) CreateMatchIfAbsent(ctx context.Context, m model.Match) (model.Match, bool, error) {
	if r.pool == nil {
		return model.Match{}, false, errs.Transient("create match", fmt.Errorf("postgres pool is nil"))
	}
	if m.ID == "" || m.UserA == "" || m.UserB == "" || m.UserA == m.UserB {
		return model.Match{}, false, fmt.Errorf("invalid match payload")
	}

	userA, userB := rules.SortedPair(m.UserA, m.UserB)
	snapshots, err := json.Marshal(m.Snapshots)
	if err != nil {
		return model.Match{}, false, fmt.Errorf("marshal match snapshots: %w", err)
	}

	var id string
	err = r.pool.QueryRow(ctx, `
INSERT INTO matches (
	id,
	user_a,
	user_b,
	snapshots,
	created_at
) VALUES ($1, $2, $3, $4::jsonb, $5)
ON CONFLICT DO NOTHING
RETURNING id
`, m.ID, userA, userB, string(snapshots), m.CreatedAt.UTC()).Scan(&id)
	if err == nil {
		m.UserA, m.UserB = userA, userB
		return m, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Match{}, false, storeErr("create match", err)
	}

	existing, err := r.GetMatch(ctx, m.ID)
	if err != nil {
		return model.Match{}, false, err
	}
	return existing, false, nil
}

func (r *MatchRepo) GetMatch(ctx context.Context, matchID string) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, errs.Transient("get match", fmt.Errorf("postgres pool is nil"))
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, user_a, user_b, snapshots, created_at
FROM matches
WHERE id = $1
`, matchID)
	m, err := scanMatch(row)
	if err != nil {
		return model.Match{}, storeErr("get match", err)
	}
	return m, nil
}

func (r *MatchRepo) QueryMatchesForUser(ctx context.Context, userID string) ([]model.Match, error) {
	if r.pool == nil {
		return nil, errs.Transient("list matches", fmt.Errorf("postgres pool is nil"))
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_a, user_b, snapshots, created_at
FROM matches
WHERE user_a = $1 OR user_b = $1
ORDER BY created_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, storeErr("list matches", err)
	}
	defer rows.Close()

	items := make([]model.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, storeErr("scan match", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate matches", err)
	}

	return items, nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var (
		m   model.Match
		raw []byte
	)
	if err := row.Scan(&m.ID, &m.UserA, &m.UserB, &raw, &m.CreatedAt); err != nil {
		return model.Match{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m.Snapshots); err != nil {
			return model.Match{}, fmt.Errorf("decode match snapshots: %w", err)
		}
	}
	return m, nil
}
