package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateRepo keeps fixed-window and plain counters.
type RateRepo struct {
	client *goredis.Client
}

func NewRateRepo(client *goredis.Client) *RateRepo {
	return &RateRepo{client: client}
}

// windowScript increments a fixed-window counter and arms its expiry on the
// first hit, returning the count and remaining milliseconds.
var windowScript = goredis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

func (r *RateRepo) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if r.client == nil {
		return 0, 0, nilClient("increment rate window")
	}
	if key == "" || window <= 0 {
		return 0, 0, fmt.Errorf("invalid rate window payload")
	}

	res, err := windowScript.Run(ctx, r.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, storeErr("increment rate window", err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate window reply: %v", res)
	}
	return res[0], remaining(res[1]), nil
}

// WindowState reads a window without counting against it. An absent key is an
// empty window.
func (r *RateRepo) WindowState(ctx context.Context, key string) (int64, time.Duration, error) {
	if r.client == nil {
		return 0, 0, nilClient("read rate window")
	}
	if key == "" {
		return 0, 0, fmt.Errorf("rate key is required")
	}

	var (
		get  *goredis.StringCmd
		pttl *goredis.DurationCmd
	)
	_, err := r.client.Pipelined(ctx, func(p goredis.Pipeliner) error {
		get = p.Get(ctx, key)
		pttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, goredis.Nil) {
		return 0, 0, storeErr("read rate window", err)
	}

	count, err := get.Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, storeErr("parse rate window", err)
	}
	return count, max(pttl.Val(), 0), nil
}

func remaining(ms int64) time.Duration {
	if ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// incrementAndResetScript bumps a counter and clears it once it reaches the threshold.
var incrementAndResetScript = goredis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n >= tonumber(ARGV[1]) then
	redis.call('DEL', KEYS[1])
	return {n, 1}
end
return {n, 0}
`)

// IncrementCycle returns the new count and whether the threshold was hit.
// Hitting the threshold resets the counter so the next cycle starts at zero.
func (r *RateRepo) IncrementCycle(ctx context.Context, key string, threshold int) (int64, bool, error) {
	if r.client == nil {
		return 0, false, nilClient("increment cycle counter")
	}
	if key == "" || threshold <= 0 {
		return 0, false, fmt.Errorf("invalid cycle counter payload")
	}

	res, err := incrementAndResetScript.Run(ctx, r.client, []string{key}, threshold).Slice()
	if err != nil {
		return 0, false, storeErr("increment cycle counter", err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("unexpected cycle counter reply: %v", res)
	}
	count, _ := res[0].(int64)
	hit, _ := res[1].(int64)
	return count, hit == 1, nil
}
