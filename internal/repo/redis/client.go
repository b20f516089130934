package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/slayerintech/Lovify/internal/domain/errs"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

func NewClient(opts Options) *goredis.Client {
	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: poolSize,
	})
}

func Ping(ctx context.Context, client *goredis.Client) error {
	if client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return storeErr("ping redis", err)
	}
	return nil
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, goredis.Nil) {
		return errs.ErrNotFound
	}
	if isTransient(err) {
		return errs.Transient(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, goredis.ErrClosed) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var redisErr goredis.Error
	if errors.As(err, &redisErr) {
		msg := redisErr.Error()
		for _, prefix := range []string{"LOADING", "READONLY", "CLUSTERDOWN", "TRYAGAIN", "MASTERDOWN"} {
			if strings.HasPrefix(msg, prefix) {
				return true
			}
		}
		return false
	}

	// Dial and I/O failures that are not net.Error still surface as plain errors.
	return true
}

func nilClient(op string) error {
	return errs.Transient(op, fmt.Errorf("redis client is nil"))
}
