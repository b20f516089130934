// Package mongo keeps profiles, decisions and matches in MongoDB collections.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/slayerintech/Lovify/internal/domain/errs"
)

const (
	profilesCollection  = "profiles"
	decisionsCollection = "decisions"
	matchesCollection   = "matches"
)

func Connect(ctx context.Context, uri, database string) (*mongodrv.Database, error) {
	if uri == "" || database == "" {
		return nil, fmt.Errorf("mongo uri and database are required")
	}

	client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return client.Database(database), nil
}

// EnsureIndexes creates the secondary indexes the queries rely on.
func EnsureIndexes(ctx context.Context, db *mongodrv.Database) error {
	if db == nil {
		return nilDB("ensure indexes")
	}

	specs := map[string][]mongodrv.IndexModel{
		profilesCollection: {
			{Keys: bson.D{{Key: "gender", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		},
		decisionsCollection: {
			{Keys: bson.D{{Key: "decider_id", Value: 1}}},
			{Keys: bson.D{{Key: "candidate_id", Value: 1}}},
		},
		matchesCollection: {
			{Keys: bson.D{{Key: "user_a", Value: 1}, {Key: "user_b", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_b", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_a", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return storeErr("create "+coll+" indexes", err)
		}
	}
	return nil
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongodrv.ErrNoDocuments) {
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
	if errors.Is(err, mongodrv.ErrClientDisconnected) {
		return true
	}
	if mongodrv.IsTimeout(err) || mongodrv.IsNetworkError(err) {
		return true
	}
	var serverErr mongodrv.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorLabel("RetryableWriteError") || serverErr.HasErrorLabel("TransientTransactionError")
	}
	return false
}

func nilDB(op string) error {
	return errs.Transient(op, fmt.Errorf("mongo database is nil"))
}
