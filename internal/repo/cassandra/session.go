// Package cassandra is the wide-column storage backend. Decisions rely on write
// timestamps for latest-wins and matches use lightweight transactions.
package cassandra

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/migrations"
)

type Options struct {
	Hosts       []string
	Keyspace    string
	Consistency string
	Timeout     time.Duration
}

func NewSession(opts Options) (*gocql.Session, error) {
	if len(opts.Hosts) == 0 || opts.Keyspace == "" {
		return nil, fmt.Errorf("cassandra hosts and keyspace are required")
	}

	consistency, err := ParseConsistency(opts.Consistency)
	if err != nil {
		return nil, err
	}

	cluster := gocql.NewCluster(opts.Hosts...)
	cluster.Keyspace = opts.Keyspace
	cluster.Consistency = consistency
	cluster.SerialConsistency = gocql.Serial
	cluster.Timeout = opts.Timeout
	cluster.ConnectTimeout = opts.Timeout
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 3}
	cluster.NumConns = 4

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect cassandra: %w", err)
	}
	return session, nil
}

func ParseConsistency(value string) (gocql.Consistency, error) {
	if value == "" {
		return gocql.Quorum, nil
	}
	c, err := gocql.ParseConsistencyWrapper(strings.ToUpper(strings.TrimSpace(value)))
	if err != nil {
		return 0, fmt.Errorf("parse cassandra consistency %q: %w", value, err)
	}
	return c, nil
}

// Migrate applies the CQL schema to the session keyspace.
func Migrate(ctx context.Context, session *gocql.Session) error {
	if session == nil {
		return nilSession("migrate")
	}
	stmts, err := migrations.Statements("cassandra")
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return storeErr("apply cassandra schema", err)
		}
	}
	return nil
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gocql.ErrNotFound) {
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
	switch {
	case errors.Is(err, gocql.ErrNoConnections),
		errors.Is(err, gocql.ErrTimeoutNoResponse),
		errors.Is(err, gocql.ErrConnectionClosed),
		errors.Is(err, gocql.ErrSessionClosed):
		return true
	}

	var (
		unavailable  *gocql.RequestErrUnavailable
		writeTimeout *gocql.RequestErrWriteTimeout
		readTimeout  *gocql.RequestErrReadTimeout
		netErr       net.Error
	)
	return errors.As(err, &unavailable) ||
		errors.As(err, &writeTimeout) ||
		errors.As(err, &readTimeout) ||
		errors.As(err, &netErr)
}

func nilSession(op string) error {
	return errs.Transient(op, fmt.Errorf("cassandra session is nil"))
}

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}
