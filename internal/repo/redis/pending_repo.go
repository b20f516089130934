package redis

import (
	"context"
	"strconv"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/slayerintech/Lovify/internal/domain/rules"
)

const pendingMatchChecksKey = "pending:match_checks"

// PendingRepo holds (liker, liked) pairs whose match check ended in an unknown state.
type PendingRepo struct {
	client *goredis.Client
}

func NewPendingRepo(client *goredis.Client) *PendingRepo {
	return &PendingRepo{client: client}
}

func (r *PendingRepo) Add(ctx context.Context, likerID, likedID string) error {
	if r.client == nil {
		return nilClient("enqueue pending match check")
	}
	if err := r.client.SAdd(ctx, pendingMatchChecksKey, pendingMember(likerID, likedID)).Err(); err != nil {
		return storeErr("enqueue pending match check", err)
	}
	return nil
}

// Pop removes and returns up to n pairs.
func (r *PendingRepo) Pop(ctx context.Context, n int) ([][2]string, error) {
	if r.client == nil {
		return nil, nilClient("pop pending match checks")
	}
	if n <= 0 {
		return nil, nil
	}

	members, err := r.client.SPopN(ctx, pendingMatchChecksKey, int64(n)).Result()
	if err != nil && err != goredis.Nil {
		return nil, storeErr("pop pending match checks", err)
	}

	out := make([][2]string, 0, len(members))
	for _, member := range members {
		likerID, likedID, ok := parsePendingMember(member)
		if !ok {
			continue
		}
		out = append(out, [2]string{likerID, likedID})
	}
	return out, nil
}

// Len is the number of pairs still waiting for a recheck.
func (r *PendingRepo) Len(ctx context.Context) (int64, error) {
	if r.client == nil {
		return 0, nilClient("count pending match checks")
	}
	n, err := r.client.SCard(ctx, pendingMatchChecksKey).Result()
	if err != nil {
		return 0, storeErr("count pending match checks", err)
	}
	return n, nil
}

func pendingMember(likerID, likedID string) string {
	return rules.DecisionKey(likerID, likedID)
}

// parsePendingMember reverses rules.DecisionKey: "<len(liker)>:<liker>:<liked>".
func parsePendingMember(member string) (string, string, bool) {
	head, rest, found := strings.Cut(member, ":")
	if !found {
		return "", "", false
	}
	n, err := strconv.Atoi(head)
	if err != nil || n <= 0 || n+1 >= len(rest) || rest[n] != ':' {
		return "", "", false
	}
	return rest[:n], rest[n+1:], true
}
