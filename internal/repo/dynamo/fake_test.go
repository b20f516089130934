package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeAPI is an in-memory table store that understands the handful of
// expressions the repos issue.
type fakeAPI struct {
	mu      sync.Mutex
	schemas map[string][]string
	tables  map[string]map[string]map[string]types.AttributeValue
	failAll error
}

func newFakeAPI(tables Tables) *fakeAPI {
	return &fakeAPI{
		schemas: map[string][]string{
			tables.Profiles:    {"user_id"},
			tables.Decisions:   {"decider_id", "candidate_id"},
			tables.Matches:     {"id"},
			tables.UserMatches: {"user_id", "sort_key"},
		},
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (f *fakeAPI) keyOf(table string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range f.schemas[table] {
		parts = append(parts, attrString(item[attr]))
	}
	return strings.Join(parts, "|")
}

func (f *fakeAPI) rows(table string) map[string]map[string]types.AttributeValue {
	rows, ok := f.tables[table]
	if !ok {
		rows = map[string]map[string]types.AttributeValue{}
		f.tables[table] = rows
	}
	return rows
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	item := f.rows(aws.ToString(in.TableName))[f.keyOf(aws.ToString(in.TableName), in.Key)]
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	table := aws.ToString(in.TableName)
	if !f.conditionHolds(table, in.Item, aws.ToString(in.ConditionExpression), in.ExpressionAttributeValues) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
	}
	f.rows(table)[f.keyOf(table, in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	table := aws.ToString(in.TableName)
	delete(f.rows(table), f.keyOf(table, in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	table := aws.ToString(in.TableName)
	attr, want := parseEquality(aws.ToString(in.KeyConditionExpression), in.ExpressionAttributeValues)

	var out []map[string]types.AttributeValue
	for _, item := range f.rows(table) {
		if attrString(item[attr]) == want {
			out = append(out, item)
		}
	}

	rangeAttr := ""
	if schema := f.schemas[table]; len(schema) > 1 && aws.ToString(in.IndexName) == "" {
		rangeAttr = schema[1]
	}
	sort.Slice(out, func(i, j int) bool {
		return attrString(out[i][rangeAttr]) < attrString(out[j][rangeAttr])
	})
	if in.ScanIndexForward != nil && !*in.ScanIndexForward {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return &dynamodb.QueryOutput{Items: out}, nil
}

func (f *fakeAPI) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	attr, want := "", ""
	if in.FilterExpression != nil {
		attr, want = parseEquality(aws.ToString(in.FilterExpression), in.ExpressionAttributeValues)
	}

	var out []map[string]types.AttributeValue
	for _, item := range f.rows(aws.ToString(in.TableName)) {
		if attr == "" || attrString(item[attr]) == want {
			out = append(out, item)
		}
	}
	return &dynamodb.ScanOutput{Items: out}, nil
}

func (f *fakeAPI) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}

	reasons := make([]types.CancellationReason, len(in.TransactItems))
	failed := false
	for i, w := range in.TransactItems {
		reasons[i].Code = aws.String("None")
		put := w.Put
		if put == nil {
			return nil, fmt.Errorf("fake supports only puts")
		}
		if !f.conditionHolds(aws.ToString(put.TableName), put.Item, aws.ToString(put.ConditionExpression), put.ExpressionAttributeValues) {
			reasons[i].Code = aws.String("ConditionalCheckFailed")
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{CancellationReasons: reasons}
	}

	for _, w := range in.TransactItems {
		table := aws.ToString(w.Put.TableName)
		f.rows(table)[f.keyOf(table, w.Put.Item)] = w.Put.Item
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeAPI) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := aws.ToString(in.TableName)
	if _, ok := f.tables[table]; ok {
		return nil, &types.ResourceInUseException{Message: aws.String("table exists")}
	}
	f.rows(table)
	return &dynamodb.CreateTableOutput{}, nil
}

func (f *fakeAPI) conditionHolds(table string, item map[string]types.AttributeValue, cond string, values map[string]types.AttributeValue) bool {
	existing, exists := f.rows(table)[f.keyOf(table, item)]
	switch cond {
	case "":
		return true
	case createMatchCondition:
		return !exists
	case putDecisionCondition:
		if !exists {
			return true
		}
		stored, _ := strconv.ParseInt(attrString(existing["created_at"]), 10, 64)
		incoming, _ := strconv.ParseInt(attrString(values[":created_at"]), 10, 64)
		return stored <= incoming
	default:
		panic("fake: unsupported condition " + cond)
	}
}

func parseEquality(expr string, values map[string]types.AttributeValue) (string, string) {
	parts := strings.SplitN(expr, "=", 2)
	if len(parts) != 2 {
		panic("fake: unsupported expression " + expr)
	}
	return strings.TrimSpace(parts[0]), attrString(values[strings.TrimSpace(parts[1])])
}

func attrString(v types.AttributeValue) string {
	switch av := v.(type) {
	case *types.AttributeValueMemberS:
		return av.Value
	case *types.AttributeValueMemberN:
		return av.Value
	default:
		return ""
	}
}
