package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

const createMatchCondition = "attribute_not_exists(id)"

// matchRecord is stored once in the matches table and once per participant in
// user_matches, where user_id and sort_key are set.
type matchRecord struct {
	ID        string                           `dynamodbav:"id"`
	UserID    string                           `dynamodbav:"user_id,omitempty"`
	SortKey   string                           `dynamodbav:"sort_key,omitempty"`
	UserA     string                           `dynamodbav:"user_a"`
	UserB     string                           `dynamodbav:"user_b"`
	Snapshots map[string]model.ProfileSnapshot `dynamodbav:"snapshots"`
	CreatedAt int64                            `dynamodbav:"created_at"`
}

func toMatchRecord(m model.Match) matchRecord {
	return matchRecord{
		ID:        m.ID,
		UserA:     m.UserA,
		UserB:     m.UserB,
		Snapshots: m.Snapshots,
		CreatedAt: m.CreatedAt.UTC().UnixMicro(),
	}
}

func (rec matchRecord) toModel() model.Match {
	return model.Match{
		ID:        rec.ID,
		UserA:     rec.UserA,
		UserB:     rec.UserB,
		Snapshots: rec.Snapshots,
		CreatedAt: time.UnixMicro(rec.CreatedAt).UTC(),
	}
}

type MatchRepo struct {
	api    API
	tables Tables
}

func NewMatchRepo(api API, tables Tables) *MatchRepo {
	return &MatchRepo{api: api, tables: tables}
}

// CreateMatchIfAbsent writes the match and both user index rows in one
// transaction guarded by attribute_not_exists(id).
func (r *MatchRepo) CreateMatchIfAbsent(ctx context.Context, m model.Match) (model.Match, bool, error) {
	if r.api == nil {
		return model.Match{}, false, nilAPI("create match")
	}
	if m.ID == "" || m.UserA == "" || m.UserB == "" || m.UserA == m.UserB {
		return model.Match{}, false, fmt.Errorf("invalid match payload")
	}
	m.UserA, m.UserB = rules.SortedPair(m.UserA, m.UserB)

	rec := toMatchRecord(m)
	matchItem, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return model.Match{}, false, fmt.Errorf("encode match: %w", err)
	}

	writes := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:           aws.String(r.tables.Matches),
			Item:                matchItem,
			ConditionExpression: aws.String(createMatchCondition),
		},
	}}
	for _, userID := range m.Participants() {
		idx := rec
		idx.UserID = userID
		idx.SortKey = userMatchSortKey(rec.CreatedAt, rec.ID)
		item, err := attributevalue.MarshalMap(idx)
		if err != nil {
			return model.Match{}, false, fmt.Errorf("encode user match: %w", err)
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{TableName: aws.String(r.tables.UserMatches), Item: item},
		})
	}

	_, err = r.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if err == nil {
		return m, true, nil
	}
	if !matchAlreadyExists(err) {
		return model.Match{}, false, storeErr("create match", err)
	}

	existing, err := r.GetMatch(ctx, m.ID)
	if err != nil {
		return model.Match{}, false, err
	}
	return existing, false, nil
}

func (r *MatchRepo) GetMatch(ctx context.Context, matchID string) (model.Match, error) {
	if r.api == nil {
		return model.Match{}, nilAPI("get match")
	}

	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tables.Matches),
		Key:            map[string]types.AttributeValue{"id": str(matchID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.Match{}, storeErr("get match", err)
	}
	if len(out.Item) == 0 {
		return model.Match{}, errs.ErrNotFound
	}

	var rec matchRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return model.Match{}, fmt.Errorf("decode match: %w", err)
	}
	return rec.toModel(), nil
}

func (r *MatchRepo) QueryMatchesForUser(ctx context.Context, userID string) ([]model.Match, error) {
	if r.api == nil {
		return nil, nilAPI("list matches")
	}

	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.UserMatches),
		KeyConditionExpression: aws.String("user_id = :user"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user": str(userID),
		},
		ScanIndexForward: aws.Bool(false),
	}

	items := make([]model.Match, 0)
	for {
		out, err := r.api.Query(ctx, in)
		if err != nil {
			return nil, storeErr("list matches", err)
		}

		var recs []matchRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
			return nil, fmt.Errorf("decode matches: %w", err)
		}
		for _, rec := range recs {
			items = append(items, rec.toModel())
		}

		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func matchAlreadyExists(err error) bool {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return false
	}
	for _, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// userMatchSortKey orders index rows by creation time; the id breaks ties.
func userMatchSortKey(createdAtMicros int64, matchID string) string {
	return fmt.Sprintf("%020d#%s", createdAtMicros, matchID)
}
