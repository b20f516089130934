package cassandra

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gocql/gocql"

	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

type MatchRepo struct {
	session *gocql.Session
}

func NewMatchRepo(session *gocql.Session) *MatchRepo {
	return &MatchRepo{session: session}
}

// CreateMatchIfAbsent uses INSERT ... IF NOT EXISTS. Both callers, winner or
// not, then write the per-user index rows, which are idempotent.
func (r *MatchRepo) CreateMatchIfAbsent(ctx context.Context, m model.Match) (model.Match, bool, error) {
	if r.session == nil {
		return model.Match{}, false, nilSession("create match")
	}
	if m.ID == "" || m.UserA == "" || m.UserB == "" || m.UserA == m.UserB {
		return model.Match{}, false, fmt.Errorf("invalid match payload")
	}
	m.UserA, m.UserB = rules.SortedPair(m.UserA, m.UserB)

	snapshots, err := json.Marshal(m.Snapshots)
	if err != nil {
		return model.Match{}, false, fmt.Errorf("marshal match snapshots: %w", err)
	}

	existing := map[string]any{}
	applied, err := r.session.Query(`
INSERT INTO matches (id, user_a, user_b, snapshots, created_at)
VALUES (?, ?, ?, ?, ?)
IF NOT EXISTS
`, m.ID, m.UserA, m.UserB, string(snapshots), m.CreatedAt.UTC().UnixMicro()).
		WithContext(ctx).
		MapScanCAS(existing)
	if err != nil {
		return model.Match{}, false, storeErr("create match", err)
	}

	result := m
	if !applied {
		result, err = matchFromMap(existing)
		if err != nil {
			return model.Match{}, false, err
		}
	}

	if err := r.indexForUsers(ctx, result); err != nil {
		return model.Match{}, false, err
	}
	return result, applied, nil
}

func (r *MatchRepo) indexForUsers(ctx context.Context, m model.Match) error {
	batch := r.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, userID := range m.Participants() {
		batch.Query(`INSERT INTO matches_by_user (user_id, match_id, created_at) VALUES (?, ?, ?)`,
			userID, m.ID, m.CreatedAt.UTC().UnixMicro())
	}
	if err := r.session.ExecuteBatch(batch); err != nil {
		return storeErr("index match", err)
	}
	return nil
}

func (r *MatchRepo) GetMatch(ctx context.Context, matchID string) (model.Match, error) {
	if r.session == nil {
		return model.Match{}, nilSession("get match")
	}

	var (
		m         model.Match
		raw       string
		createdAt int64
	)
	err := r.session.Query(`
SELECT id, user_a, user_b, snapshots, created_at FROM matches WHERE id = ?
`, matchID).WithContext(ctx).Scan(&m.ID, &m.UserA, &m.UserB, &raw, &createdAt)
	if err != nil {
		return model.Match{}, storeErr("get match", err)
	}
	if err := decodeSnapshots(raw, &m); err != nil {
		return model.Match{}, err
	}
	m.CreatedAt = fromMicros(createdAt)
	return m, nil
}

func (r *MatchRepo) QueryMatchesForUser(ctx context.Context, userID string) ([]model.Match, error) {
	if r.session == nil {
		return nil, nilSession("list matches")
	}

	iter := r.session.Query(`SELECT match_id FROM matches_by_user WHERE user_id = ?`, userID).WithContext(ctx).Iter()
	var (
		ids []string
		id  string
	)
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, storeErr("list matches", err)
	}

	items := make([]model.Match, 0, len(ids))
	for _, id := range ids {
		m, err := r.GetMatch(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	sortNewestFirst(items)
	return items, nil
}

func sortNewestFirst(items []model.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}

func matchFromMap(row map[string]any) (model.Match, error) {
	var m model.Match
	m.ID, _ = row["id"].(string)
	m.UserA, _ = row["user_a"].(string)
	m.UserB, _ = row["user_b"].(string)
	if createdAt, ok := row["created_at"].(int64); ok {
		m.CreatedAt = fromMicros(createdAt)
	}
	raw, _ := row["snapshots"].(string)
	if err := decodeSnapshots(raw, &m); err != nil {
		return model.Match{}, err
	}
	if m.ID == "" {
		return model.Match{}, fmt.Errorf("existing match row is empty")
	}
	return m, nil
}

func decodeSnapshots(raw string, m *model.Match) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &m.Snapshots); err != nil {
		return fmt.Errorf("decode match snapshots: %w", err)
	}
	return nil
}
