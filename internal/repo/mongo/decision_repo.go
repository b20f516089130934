package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

// decisionID is the compound _id; field order is fixed by the struct, so
// equality matches on _id are stable.
type decisionID struct {
	DeciderID   string `bson:"decider_id"`
	CandidateID string `bson:"candidate_id"`
}

type decisionDoc struct {
	ID          decisionID `bson:"_id"`
	DeciderID   string     `bson:"decider_id"`
	CandidateID string     `bson:"candidate_id"`
	Type        string     `bson:"type"`
	CreatedAt   int64      `bson:"created_at"`
}

func decisionFilter(deciderID, candidateID string) bson.M {
	return bson.M{"_id": decisionID{DeciderID: deciderID, CandidateID: candidateID}}
}

type DecisionRepo struct {
	db *mongodrv.Database
}

func NewDecisionRepo(db *mongodrv.Database) *DecisionRepo {
	return &DecisionRepo{db: db}
}

func (r *DecisionRepo) GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error) {
	if r.db == nil {
		return model.Decision{}, nilDB("get decision")
	}

	var doc decisionDoc
	err := r.db.Collection(decisionsCollection).
		FindOne(ctx, decisionFilter(deciderID, candidateID)).
		Decode(&doc)
	if err != nil {
		return model.Decision{}, storeErr("get decision", err)
	}
	return model.Decision{
		DeciderID:   doc.DeciderID,
		CandidateID: doc.CandidateID,
		Type:        enums.DecisionType(doc.Type),
		CreatedAt:   time.UnixMicro(doc.CreatedAt).UTC(),
	}, nil
}

// PutDecision upserts only when the stored decision is not newer. When it is,
// the filter misses and the upsert collides on _id, which means the write lost.
func (r *DecisionRepo) PutDecision(ctx context.Context, d model.Decision) error {
	if r.db == nil {
		return nilDB("put decision")
	}

	ts := d.CreatedAt.UTC().UnixMicro()
	filter := decisionFilter(d.DeciderID, d.CandidateID)
	filter["created_at"] = bson.M{"$lte": ts}
	_, err := r.db.Collection(decisionsCollection).UpdateOne(ctx,
		filter,
		bson.M{"$set": bson.M{
			"decider_id":   d.DeciderID,
			"candidate_id": d.CandidateID,
			"type":         string(d.Type),
			"created_at":   ts,
		}},
		options.Update().SetUpsert(true),
	)
	if mongodrv.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return storeErr("put decision", err)
	}
	return nil
}

func (r *DecisionRepo) JudgedIDs(ctx context.Context, deciderID string) ([]string, error) {
	if r.db == nil {
		return nil, nilDB("list judged ids")
	}

	cur, err := r.db.Collection(decisionsCollection).Find(ctx,
		bson.M{"decider_id": deciderID},
		options.Find().SetProjection(bson.M{"candidate_id": 1}),
	)
	if err != nil {
		return nil, storeErr("list judged ids", err)
	}
	defer cur.Close(ctx)

	var docs []decisionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode judged ids", err)
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.CandidateID)
	}
	return ids, nil
}

func (r *DecisionRepo) DeleteDecisionsInvolving(ctx context.Context, userID string) (int64, error) {
	if r.db == nil {
		return 0, nilDB("delete decisions")
	}

	res, err := r.db.Collection(decisionsCollection).DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"decider_id": userID},
		bson.M{"candidate_id": userID},
	}})
	if err != nil {
		return 0, storeErr("delete decisions", err)
	}
	return res.DeletedCount, nil
}
