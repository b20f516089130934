// Package storage opens the configured backend and exposes it through the
// narrow store interfaces the services depend on.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gocql/gocql"
	goredis "github.com/redis/go-redis/v9"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/slayerintech/Lovify/internal/config"
	"github.com/slayerintech/Lovify/internal/domain/model"
	cassrepo "github.com/slayerintech/Lovify/internal/repo/cassandra"
	dynrepo "github.com/slayerintech/Lovify/internal/repo/dynamo"
	"github.com/slayerintech/Lovify/internal/repo/memory"
	mongorepo "github.com/slayerintech/Lovify/internal/repo/mongo"
	pgrepo "github.com/slayerintech/Lovify/internal/repo/postgres"
	redrepo "github.com/slayerintech/Lovify/internal/repo/redis"
	sqliterepo "github.com/slayerintech/Lovify/internal/repo/sqlite"
)

const closeTimeout = 5 * time.Second

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	QueryProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, error)
	UpsertProfile(ctx context.Context, p model.Profile) error
	DeleteProfile(ctx context.Context, userID string) error
}

type DecisionStore interface {
	GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error)
	PutDecision(ctx context.Context, d model.Decision) error
	JudgedIDs(ctx context.Context, deciderID string) ([]string, error)
	DeleteDecisionsInvolving(ctx context.Context, userID string) (int64, error)
}

type MatchStore interface {
	CreateMatchIfAbsent(ctx context.Context, m model.Match) (model.Match, bool, error)
	GetMatch(ctx context.Context, matchID string) (model.Match, error)
	QueryMatchesForUser(ctx context.Context, userID string) ([]model.Match, error)
}

type accountPurger interface {
	PurgeAccount(ctx context.Context, userID string) (int64, error)
}

// purgingProfiles lets the profile service find a transactional purge on
// backends that have one.
type purgingProfiles struct {
	ProfileStore
	accountPurger
}

// Backend is an opened storage driver plus the redis client used for rate
// windows, ad counters, the pending match queue and chat.
type Backend struct {
	Driver    string
	Profiles  ProfileStore
	Decisions DecisionStore
	Matches   MatchStore
	Redis     *goredis.Client

	migrate func(ctx context.Context) error
	closers []func() error
}

// Open connects the driver named in cfg.Storage.Driver. The memory driver also
// runs an in-process redis so a single binary works without infrastructure.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}

	b := &Backend{Driver: cfg.Storage.Driver}
	var err error
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		err = b.openMemory()
	case config.DriverPostgres:
		err = b.openPostgres(ctx, cfg.Postgres)
	case config.DriverRedis:
		// the shared client below doubles as the primary store
	case config.DriverSQLite:
		err = b.openSQLite(ctx, cfg.SQLite)
	case config.DriverDynamoDB:
		err = b.openDynamo(ctx, cfg.DynamoDB)
	case config.DriverMongo:
		err = b.openMongo(ctx, cfg.Mongo)
	case config.DriverCassandra:
		err = b.openCassandra(cfg.Cassandra)
	default:
		err = fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	if b.Redis == nil {
		b.Redis = redrepo.NewClient(redrepo.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		b.closers = append(b.closers, b.Redis.Close)
	}
	if err := redrepo.Ping(ctx, b.Redis); err != nil {
		log.Warn("redis ping failed, continuing in degraded mode", zap.Error(err))
	}

	if cfg.Storage.Driver == config.DriverRedis {
		b.Profiles = redrepo.NewProfileRepo(b.Redis)
		b.Decisions = redrepo.NewDecisionRepo(b.Redis)
		b.Matches = redrepo.NewMatchRepo(b.Redis)
	}

	log.Info("storage opened", zap.String("driver", b.Driver))
	return b, nil
}

func (b *Backend) openMemory() error {
	store := memory.New()
	b.Profiles, b.Decisions, b.Matches = store, store, store

	srv, err := miniredis.Run()
	if err != nil {
		return fmt.Errorf("start embedded redis: %w", err)
	}
	b.Redis = goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	b.closers = append(b.closers, b.Redis.Close, func() error {
		srv.Close()
		return nil
	})
	return nil
}

func (b *Backend) openPostgres(ctx context.Context, cfg config.PostgresConfig) error {
	pool, err := pgrepo.NewPool(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, func() error {
		pool.Close()
		return nil
	})
	b.Profiles = purgingProfiles{ProfileStore: pgrepo.NewProfileRepo(pool), accountPurger: pgrepo.NewAccountRepo(pool)}
	b.Decisions = pgrepo.NewDecisionRepo(pool)
	b.Matches = pgrepo.NewMatchRepo(pool)
	b.migrate = func(ctx context.Context) error { return pgrepo.Migrate(ctx, pool) }
	return nil
}

func (b *Backend) openSQLite(ctx context.Context, cfg config.SQLiteConfig) error {
	db, err := sqliterepo.Open(ctx, cfg.Path)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, db.Close)
	b.useSQL(db)
	return nil
}

func (b *Backend) useSQL(db *sql.DB) {
	b.Profiles = purgingProfiles{ProfileStore: sqliterepo.NewProfileRepo(db), accountPurger: sqliterepo.NewAccountRepo(db)}
	b.Decisions = sqliterepo.NewDecisionRepo(db)
	b.Matches = sqliterepo.NewMatchRepo(db)
	b.migrate = func(ctx context.Context) error { return sqliterepo.Migrate(ctx, db) }
}

func (b *Backend) openDynamo(ctx context.Context, cfg config.DynamoDBConfig) error {
	client, err := dynrepo.NewClient(ctx, dynrepo.Options{Region: cfg.Region, Endpoint: cfg.Endpoint})
	if err != nil {
		return err
	}
	tables := dynrepo.TablesWithPrefix(cfg.TablePrefix)
	b.Profiles = dynrepo.NewProfileRepo(client, tables)
	b.Decisions = dynrepo.NewDecisionRepo(client, tables)
	b.Matches = dynrepo.NewMatchRepo(client, tables)
	b.migrate = func(ctx context.Context) error { return dynrepo.CreateTables(ctx, client, tables) }
	return nil
}

func (b *Backend) openMongo(ctx context.Context, cfg config.MongoConfig) error {
	db, err := mongorepo.Connect(ctx, cfg.URI, cfg.Database)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, func() error { return disconnectMongo(db) })
	b.Profiles = mongorepo.NewProfileRepo(db)
	b.Decisions = mongorepo.NewDecisionRepo(db)
	b.Matches = mongorepo.NewMatchRepo(db)
	b.migrate = func(ctx context.Context) error { return mongorepo.EnsureIndexes(ctx, db) }
	return nil
}

func disconnectMongo(db *mongodrv.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return db.Client().Disconnect(ctx)
}

func (b *Backend) openCassandra(cfg config.CassandraConfig) error {
	session, err := cassrepo.NewSession(cassrepo.Options{
		Hosts:       cfg.Hosts,
		Keyspace:    cfg.Keyspace,
		Consistency: cfg.Consistency,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return err
	}
	b.closers = append(b.closers, closeSession(session))
	b.Profiles = cassrepo.NewProfileRepo(session)
	b.Decisions = cassrepo.NewDecisionRepo(session)
	b.Matches = cassrepo.NewMatchRepo(session)
	b.migrate = func(ctx context.Context) error { return cassrepo.Migrate(ctx, session) }
	return nil
}

func closeSession(session *gocql.Session) func() error {
	return func() error {
		session.Close()
		return nil
	}
}

// Migrate applies the schema for drivers that have one. Redis and memory
// need nothing.
func (b *Backend) Migrate(ctx context.Context) error {
	if b.migrate == nil {
		return nil
	}
	return b.migrate(ctx)
}

// Close releases connections in reverse open order and returns the first error.
func (b *Backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}
