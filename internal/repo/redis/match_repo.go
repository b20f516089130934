package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

const (
	matchPrefix       = "match:"
	userMatchesPrefix = "matches:user:"
)

// createMatchScript is the atomic create-if-absent: SETNX on the match key, then
// index the match for both participants. A losing caller gets the stored value.
var createMatchScript = goredis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[1]) == 1 then
	redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
	redis.call('ZADD', KEYS[3], ARGV[2], ARGV[3])
	return {1, ARGV[1]}
end
return {0, redis.call('GET', KEYS[1])}
`)

type MatchRepo struct {
	client *goredis.Client
}

func NewMatchRepo(client *goredis.Client) *MatchRepo {
	return &MatchRepo{client: client}
}

func (r *MatchRepo) CreateMatchIfAbsent(ctx context.Context, m model.Match) (model.Match, bool, error) {
	if r.client == nil {
		return model.Match{}, false, nilClient("create match")
	}
	if m.ID == "" || m.UserA == "" || m.UserB == "" || m.UserA == m.UserB {
		return model.Match{}, false, fmt.Errorf("invalid match payload")
	}

	m.UserA, m.UserB = rules.SortedPair(m.UserA, m.UserB)
	raw, err := json.Marshal(m)
	if err != nil {
		return model.Match{}, false, fmt.Errorf("encode match: %w", err)
	}

	keys := []string{matchKey(m.ID), userMatchesKey(m.UserA), userMatchesKey(m.UserB)}
	args := []any{string(raw), strconv.FormatInt(m.CreatedAt.UnixMicro(), 10), m.ID}
	res, err := createMatchScript.Run(ctx, r.client, keys, args...).Slice()
	if err != nil {
		return model.Match{}, false, storeErr("create match", err)
	}
	if len(res) != 2 {
		return model.Match{}, false, fmt.Errorf("unexpected create match reply: %v", res)
	}

	created, _ := res[0].(int64)
	if created == 1 {
		return m, true, nil
	}

	stored, ok := res[1].(string)
	if !ok {
		return model.Match{}, false, fmt.Errorf("unexpected stored match reply: %T", res[1])
	}
	existing, err := decodeMatch(stored)
	if err != nil {
		return model.Match{}, false, err
	}
	return existing, false, nil
}

func (r *MatchRepo) GetMatch(ctx context.Context, matchID string) (model.Match, error) {
	if r.client == nil {
		return model.Match{}, nilClient("get match")
	}
	raw, err := r.client.Get(ctx, matchKey(matchID)).Result()
	if err != nil {
		return model.Match{}, storeErr("get match", err)
	}
	return decodeMatch(raw)
}

func (r *MatchRepo) QueryMatchesForUser(ctx context.Context, userID string) ([]model.Match, error) {
	if r.client == nil {
		return nil, nilClient("list matches")
	}

	ids, err := r.client.ZRevRange(ctx, userMatchesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, storeErr("list match ids", err)
	}
	if len(ids) == 0 {
		return []model.Match{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, matchKey(id))
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storeErr("load matches", err)
	}

	items := make([]model.Match, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		m, err := decodeMatch(s)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

func decodeMatch(raw string) (model.Match, error) {
	var m model.Match
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return model.Match{}, fmt.Errorf("decode match: %w", err)
	}
	return m, nil
}

func matchKey(id string) string {
	return matchPrefix + id
}

func userMatchesKey(userID string) string {
	return userMatchesPrefix + userID
}
