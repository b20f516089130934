package redis

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

const (
	decisionsPrefix   = "decision:type:"
	decisionTSPrefix  = "decision:ts:"
	decisionsInPrefix = "decision:in:"
)

// putDecisionScript writes the pair only when it is not older than the stored one.
// Timestamps are unix microseconds so they stay exact as Lua numbers.
var putDecisionScript = goredis.NewScript(`
local current = redis.call('HGET', KEYS[2], ARGV[1])
if current and tonumber(current) > tonumber(ARGV[3]) then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('HSET', KEYS[2], ARGV[1], ARGV[3])
redis.call('SADD', KEYS[3], ARGV[4])
return 1
`)

type DecisionRepo struct {
	client *goredis.Client
}

func NewDecisionRepo(client *goredis.Client) *DecisionRepo {
	return &DecisionRepo{client: client}
}

func (r *DecisionRepo) GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error) {
	if r.client == nil {
		return model.Decision{}, nilClient("get decision")
	}

	pipe := r.client.Pipeline()
	typCmd := pipe.HGet(ctx, decisionsKey(deciderID), candidateID)
	tsCmd := pipe.HGet(ctx, decisionTSKey(deciderID), candidateID)
	if _, err := pipe.Exec(ctx); err != nil && err != goredis.Nil {
		return model.Decision{}, storeErr("get decision", err)
	}

	typ, err := typCmd.Result()
	if err != nil {
		return model.Decision{}, storeErr("get decision", err)
	}
	ts, err := tsCmd.Int64()
	if err != nil && err != goredis.Nil {
		return model.Decision{}, storeErr("get decision timestamp", err)
	}

	return model.Decision{
		DeciderID:   deciderID,
		CandidateID: candidateID,
		Type:        enums.DecisionType(typ),
		CreatedAt:   time.UnixMicro(ts).UTC(),
	}, nil
}

func (r *DecisionRepo) PutDecision(ctx context.Context, d model.Decision) error {
	if r.client == nil {
		return nilClient("put decision")
	}

	keys := []string{
		decisionsKey(d.DeciderID),
		decisionTSKey(d.DeciderID),
		decisionsInKey(d.CandidateID),
	}
	args := []any{
		d.CandidateID,
		string(d.Type),
		strconv.FormatInt(d.CreatedAt.UnixMicro(), 10),
		d.DeciderID,
	}
	if err := putDecisionScript.Run(ctx, r.client, keys, args...).Err(); err != nil {
		return storeErr("put decision", err)
	}
	return nil
}

func (r *DecisionRepo) JudgedIDs(ctx context.Context, deciderID string) ([]string, error) {
	if r.client == nil {
		return nil, nilClient("list judged ids")
	}
	ids, err := r.client.HKeys(ctx, decisionsKey(deciderID)).Result()
	if err != nil {
		return nil, storeErr("list judged ids", err)
	}
	return ids, nil
}

func (r *DecisionRepo) DeleteDecisionsInvolving(ctx context.Context, userID string) (int64, error) {
	if r.client == nil {
		return 0, nilClient("delete decisions")
	}

	outgoing, err := r.client.HKeys(ctx, decisionsKey(userID)).Result()
	if err != nil {
		return 0, storeErr("list outgoing decisions", err)
	}
	incoming, err := r.client.SMembers(ctx, decisionsInKey(userID)).Result()
	if err != nil {
		return 0, storeErr("list incoming decisions", err)
	}

	pipe := r.client.TxPipeline()
	for _, candidateID := range outgoing {
		pipe.SRem(ctx, decisionsInKey(candidateID), userID)
	}
	pipe.Del(ctx, decisionsKey(userID), decisionTSKey(userID), decisionsInKey(userID))
	var removed []*goredis.IntCmd
	for _, deciderID := range incoming {
		removed = append(removed, pipe.HDel(ctx, decisionsKey(deciderID), userID))
		pipe.HDel(ctx, decisionTSKey(deciderID), userID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, storeErr("delete decisions", err)
	}

	total := int64(len(outgoing))
	for _, cmd := range removed {
		total += cmd.Val()
	}
	return total, nil
}

func decisionsKey(deciderID string) string {
	return decisionsPrefix + deciderID
}

func decisionTSKey(deciderID string) string {
	return decisionTSPrefix + deciderID
}

func decisionsInKey(candidateID string) string {
	return decisionsInPrefix + candidateID
}
