package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

type MatchRepo struct {
	db *sql.DB
}

func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// CreateMatchIfAbsent inserts with ON CONFLICT DO NOTHING; zero affected rows means
// another caller already created the match and the stored row is returned.
func (r *MatchRepo) CreateMatchIfAbsent(ctx context.Context, m model.Match) (model.Match, bool, error) {
	if r.db == nil {
		return model.Match{}, false, nilDB("create match")
	}
	if m.ID == "" || m.UserA == "" || m.UserB == "" || m.UserA == m.UserB {
		return model.Match{}, false, fmt.Errorf("invalid match payload")
	}

	m.UserA, m.UserB = rules.SortedPair(m.UserA, m.UserB)
	snapshots, err := json.Marshal(m.Snapshots)
	if err != nil {
		return model.Match{}, false, fmt.Errorf("marshal match snapshots: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO matches (id, user_a, user_b, snapshots, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT DO NOTHING
`, m.ID, m.UserA, m.UserB, string(snapshots), toMicros(m.CreatedAt))
	if err != nil {
		return model.Match{}, false, storeErr("create match", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Match{}, false, storeErr("create match", err)
	}
	if n == 1 {
		return m, true, nil
	}

	existing, err := r.GetMatch(ctx, m.ID)
	if err != nil {
		return model.Match{}, false, err
	}
	return existing, false, nil
}

func (r *MatchRepo) GetMatch(ctx context.Context, matchID string) (model.Match, error) {
	if r.db == nil {
		return model.Match{}, nilDB("get match")
	}

	row := r.db.QueryRowContext(ctx, `
SELECT id, user_a, user_b, snapshots, created_at
FROM matches
WHERE id = ?
`, matchID)
	m, err := scanMatch(row)
	if err != nil {
		return model.Match{}, storeErr("get match", err)
	}
	return m, nil
}

func (r *MatchRepo) QueryMatchesForUser(ctx context.Context, userID string) ([]model.Match, error) {
	if r.db == nil {
		return nil, nilDB("list matches")
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_a, user_b, snapshots, created_at
FROM matches
WHERE user_a = ?1 OR user_b = ?1
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

func scanMatch(row rowScanner) (model.Match, error) {
	var (
		m         model.Match
		raw       string
		createdAt int64
	)
	if err := row.Scan(&m.ID, &m.UserA, &m.UserB, &raw, &createdAt); err != nil {
		return model.Match{}, err
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &m.Snapshots); err != nil {
			return model.Match{}, fmt.Errorf("decode match snapshots: %w", err)
		}
	}
	m.CreatedAt = fromMicros(createdAt)
	return m, nil
}
