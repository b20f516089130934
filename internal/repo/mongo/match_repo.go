package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

type matchDoc struct {
	ID        string                           `bson:"_id"`
	UserA     string                           `bson:"user_a"`
	UserB     string                           `bson:"user_b"`
	Snapshots map[string]model.ProfileSnapshot `bson:"snapshots"`
	CreatedAt int64                            `bson:"created_at"`
}

func (doc matchDoc) toModel() model.Match {
	return model.Match{
		ID:        doc.ID,
		UserA:     doc.UserA,
		UserB:     doc.UserB,
		Snapshots: doc.Snapshots,
		CreatedAt: time.UnixMicro(doc.CreatedAt).UTC(),
	}
}

type MatchRepo struct {
	db *mongodrv.Database
}

func NewMatchRepo(db *mongodrv.Database) *MatchRepo {
	return &MatchRepo{db: db}
}

// CreateMatchIfAbsent inserts with _id set to the match id; a duplicate key
// means the match exists and the stored document is returned.
func (r *MatchRepo) CreateMatchIfAbsent(ctx context.Context, m model.Match) (model.Match, bool, error) {
	if r.db == nil {
		return model.Match{}, false, nilDB("create match")
	}
	if m.ID == "" || m.UserA == "" || m.UserB == "" || m.UserA == m.UserB {
		return model.Match{}, false, fmt.Errorf("invalid match payload")
	}
	m.UserA, m.UserB = rules.SortedPair(m.UserA, m.UserB)

	_, err := r.db.Collection(matchesCollection).InsertOne(ctx, matchDoc{
		ID:        m.ID,
		UserA:     m.UserA,
		UserB:     m.UserB,
		Snapshots: m.Snapshots,
		CreatedAt: m.CreatedAt.UTC().UnixMicro(),
	})
	if err == nil {
		return m, true, nil
	}
	if !mongodrv.IsDuplicateKeyError(err) {
		return model.Match{}, false, storeErr("create match", err)
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

	var doc matchDoc
	if err := r.db.Collection(matchesCollection).FindOne(ctx, bson.M{"_id": matchID}).Decode(&doc); err != nil {
		return model.Match{}, storeErr("get match", err)
	}
	return doc.toModel(), nil
}

func (r *MatchRepo) QueryMatchesForUser(ctx context.Context, userID string) ([]model.Match, error) {
	if r.db == nil {
		return nil, nilDB("list matches")
	}

	cur, err := r.db.Collection(matchesCollection).Find(ctx,
		bson.M{"$or": bson.A{bson.M{"user_a": userID}, bson.M{"user_b": userID}}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, storeErr("list matches", err)
	}
	defer cur.Close(ctx)

	var docs []matchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode matches", err)
	}
	items := make([]model.Match, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}
