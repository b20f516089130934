// Package dynamo stores profiles, decisions and matches in DynamoDB tables.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/slayerintech/Lovify/internal/domain/errs"
)

// API is the subset of the DynamoDB client the repos use.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

type Options struct {
	Region   string
	Endpoint string
}

func NewClient(ctx context.Context, opts Options) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// Tables holds the physical table names for one deployment.
type Tables struct {
	Profiles    string
	Decisions   string
	Matches     string
	UserMatches string
}

const decisionsByCandidateIndex = "candidate_id-index"

func TablesWithPrefix(prefix string) Tables {
	return Tables{
		Profiles:    prefix + "profiles",
		Decisions:   prefix + "decisions",
		Matches:     prefix + "matches",
		UserMatches: prefix + "user_matches",
	}
}

// CreateTables provisions every table on demand billing. Existing tables are left alone.
func CreateTables(ctx context.Context, api API, tables Tables) error {
	inputs := []*dynamodb.CreateTableInput{
		{
			TableName:            aws.String(tables.Profiles),
			BillingMode:          types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{stringAttr("user_id")},
			KeySchema:            []types.KeySchemaElement{hashKey("user_id")},
		},
		{
			TableName:            aws.String(tables.Decisions),
			BillingMode:          types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{stringAttr("decider_id"), stringAttr("candidate_id")},
			KeySchema:            []types.KeySchemaElement{hashKey("decider_id"), rangeKey("candidate_id")},
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{{
				IndexName:  aws.String(decisionsByCandidateIndex),
				KeySchema:  []types.KeySchemaElement{hashKey("candidate_id"), rangeKey("decider_id")},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeKeysOnly},
			}},
		},
		{
			TableName:            aws.String(tables.Matches),
			BillingMode:          types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{stringAttr("id")},
			KeySchema:            []types.KeySchemaElement{hashKey("id")},
		},
		{
			TableName:            aws.String(tables.UserMatches),
			BillingMode:          types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{stringAttr("user_id"), stringAttr("sort_key")},
			KeySchema:            []types.KeySchemaElement{hashKey("user_id"), rangeKey("sort_key")},
		},
	}

	for _, in := range inputs {
		if _, err := api.CreateTable(ctx, in); err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return storeErr("create table "+aws.ToString(in.TableName), err)
		}
	}
	return nil
}

func stringAttr(name string) types.AttributeDefinition {
	return types.AttributeDefinition{AttributeName: aws.String(name), AttributeType: types.ScalarAttributeTypeS}
}

func hashKey(name string) types.KeySchemaElement {
	return types.KeySchemaElement{AttributeName: aws.String(name), KeyType: types.KeyTypeHash}
}

func rangeKey(name string) types.KeySchemaElement {
	return types.KeySchemaElement{AttributeName: aws.String(name), KeyType: types.KeyTypeRange}
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
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

	var (
		throughput *types.ProvisionedThroughputExceededException
		limit      *types.RequestLimitExceeded
		internal   *types.InternalServerError
		conflict   *types.TransactionConflictException
		inProgress *types.TransactionInProgressException
		netErr     net.Error
	)
	switch {
	case errors.As(err, &throughput),
		errors.As(err, &limit),
		errors.As(err, &internal),
		errors.As(err, &conflict),
		errors.As(err, &inProgress),
		errors.As(err, &netErr):
		return true
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			switch aws.ToString(reason.Code) {
			case "TransactionConflict", "ThrottlingError", "ProvisionedThroughputExceeded":
				return true
			}
		}
	}
	return false
}

func nilAPI(op string) error {
	return errs.Transient(op, fmt.Errorf("dynamodb client is nil"))
}

func str(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}
