package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

// putDecisionCondition lets a write through when the pair is new or the stored
// decision is not newer than the incoming one.
const putDecisionCondition = "attribute_not_exists(decider_id) OR created_at <= :created_at"

type decisionRecord struct {
	DeciderID   string `dynamodbav:"decider_id"`
	CandidateID string `dynamodbav:"candidate_id"`
	Type        string `dynamodbav:"type"`
	CreatedAt   int64  `dynamodbav:"created_at"`
}

type DecisionRepo struct {
	api   API
	table string
}

func NewDecisionRepo(api API, tables Tables) *DecisionRepo {
	return &DecisionRepo{api: api, table: tables.Decisions}
}

func (r *DecisionRepo) GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error) {
	if r.api == nil {
		return model.Decision{}, nilAPI("get decision")
	}

	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            decisionKey(deciderID, candidateID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.Decision{}, storeErr("get decision", err)
	}
	if len(out.Item) == 0 {
		return model.Decision{}, errs.ErrNotFound
	}

	var rec decisionRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return model.Decision{}, fmt.Errorf("decode decision: %w", err)
	}
	return model.Decision{
		DeciderID:   rec.DeciderID,
		CandidateID: rec.CandidateID,
		Type:        enums.DecisionType(rec.Type),
		CreatedAt:   time.UnixMicro(rec.CreatedAt).UTC(),
	}, nil
}

func (r *DecisionRepo) PutDecision(ctx context.Context, d model.Decision) error {
	if r.api == nil {
		return nilAPI("put decision")
	}

	createdAt := d.CreatedAt.UTC().UnixMicro()
	item, err := attributevalue.MarshalMap(decisionRecord{
		DeciderID:   d.DeciderID,
		CandidateID: d.CandidateID,
		Type:        string(d.Type),
		CreatedAt:   createdAt,
	})
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String(putDecisionCondition),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":created_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(createdAt, 10)},
		},
	})
	if err != nil {
		var failed *types.ConditionalCheckFailedException
		if errors.As(err, &failed) {
			// A newer decision is already stored.
			return nil
		}
		return storeErr("put decision", err)
	}
	return nil
}

func (r *DecisionRepo) JudgedIDs(ctx context.Context, deciderID string) ([]string, error) {
	if r.api == nil {
		return nil, nilAPI("list judged ids")
	}

	keys, err := r.queryKeys(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("decider_id = :decider"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":decider": str(deciderID),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storeErr("list judged ids", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k.CandidateID)
	}
	return ids, nil
}

// DeleteDecisionsInvolving removes outgoing decisions by key and incoming ones
// found through the candidate index.
func (r *DecisionRepo) DeleteDecisionsInvolving(ctx context.Context, userID string) (int64, error) {
	if r.api == nil {
		return 0, nilAPI("delete decisions")
	}

	outgoing, err := r.queryKeys(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("decider_id = :decider"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":decider": str(userID),
		},
	})
	if err != nil {
		return 0, storeErr("list outgoing decisions", err)
	}
	incoming, err := r.queryKeys(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(decisionsByCandidateIndex),
		KeyConditionExpression: aws.String("candidate_id = :candidate"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":candidate": str(userID),
		},
	})
	if err != nil {
		return 0, storeErr("list incoming decisions", err)
	}

	var deleted int64
	for _, k := range append(outgoing, incoming...) {
		if _, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.table),
			Key:       decisionKey(k.DeciderID, k.CandidateID),
		}); err != nil {
			return deleted, storeErr("delete decision", err)
		}
		deleted++
	}
	return deleted, nil
}

func (r *DecisionRepo) queryKeys(ctx context.Context, in *dynamodb.QueryInput) ([]decisionRecord, error) {
	in.ProjectionExpression = aws.String("decider_id, candidate_id")

	var keys []decisionRecord
	for {
		out, err := r.api.Query(ctx, in)
		if err != nil {
			return nil, err
		}

		var page []decisionRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("decode decision keys: %w", err)
		}
		keys = append(keys, page...)

		if len(out.LastEvaluatedKey) == 0 {
			return keys, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func decisionKey(deciderID, candidateID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"decider_id":   str(deciderID),
		"candidate_id": str(candidateID),
	}
}
