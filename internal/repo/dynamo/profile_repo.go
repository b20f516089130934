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

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

type profileRecord struct {
	UserID       string   `dynamodbav:"user_id"`
	Name         string   `dynamodbav:"name"`
	Age          int      `dynamodbav:"age"`
	Gender       string   `dynamodbav:"gender"`
	InterestedIn string   `dynamodbav:"interested_in"`
	Photos       []string `dynamodbav:"photos"`
	Bio          string   `dynamodbav:"bio"`
	JobTitle     string   `dynamodbav:"job_title"`
	Interests    []string `dynamodbav:"interests"`
	LookingFor   string   `dynamodbav:"looking_for"`
	Religion     string   `dynamodbav:"religion"`
	IsPremium    bool     `dynamodbav:"is_premium"`
	PremiumSince *int64   `dynamodbav:"premium_since,omitempty"`
	CreatedAt    int64    `dynamodbav:"created_at"`
	UpdatedAt    int64    `dynamodbav:"updated_at"`
}

func toProfileRecord(p model.Profile) profileRecord {
	rec := profileRecord{
		UserID:       p.UserID,
		Name:         p.Name,
		Age:          p.Age,
		Gender:       string(p.Gender),
		InterestedIn: string(p.InterestedIn),
		Photos:       p.Photos,
		Bio:          p.Bio,
		JobTitle:     p.JobTitle,
		Interests:    enums.InterestStrings(p.Interests),
		LookingFor:   string(p.LookingFor),
		Religion:     string(p.Religion),
		IsPremium:    p.IsPremium,
		CreatedAt:    p.CreatedAt.UTC().UnixMicro(),
		UpdatedAt:    p.UpdatedAt.UTC().UnixMicro(),
	}
	if p.PremiumSince != nil {
		ts := p.PremiumSince.UTC().UnixMicro()
		rec.PremiumSince = &ts
	}
	return rec
}

func (rec profileRecord) toModel() model.Profile {
	p := model.Profile{
		UserID:       rec.UserID,
		Name:         rec.Name,
		Age:          rec.Age,
		Gender:       enums.Gender(rec.Gender),
		InterestedIn: enums.InterestedIn(rec.InterestedIn),
		Photos:       rec.Photos,
		Bio:          rec.Bio,
		JobTitle:     rec.JobTitle,
		Interests:    enums.InterestsFromStrings(rec.Interests),
		LookingFor:   enums.LookingFor(rec.LookingFor),
		Religion:     enums.Religion(rec.Religion),
		IsPremium:    rec.IsPremium,
		CreatedAt:    time.UnixMicro(rec.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMicro(rec.UpdatedAt).UTC(),
	}
	if rec.PremiumSince != nil {
		ts := time.UnixMicro(*rec.PremiumSince).UTC()
		p.PremiumSince = &ts
	}
	return p
}

type ProfileRepo struct {
	api   API
	table string
}

func NewProfileRepo(api API, tables Tables) *ProfileRepo {
	return &ProfileRepo{api: api, table: tables.Profiles}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	if r.api == nil {
		return model.Profile{}, nilAPI("get profile")
	}

	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            map[string]types.AttributeValue{"user_id": str(userID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.Profile{}, storeErr("get profile", err)
	}
	if len(out.Item) == 0 {
		return model.Profile{}, errs.ErrNotFound
	}

	var rec profileRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return model.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return rec.toModel(), nil
}

// QueryProfiles scans the table with the gender filter pushed down, then drops
// exclusions and sorts in memory.
func (r *ProfileRepo) QueryProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, error) {
	if r.api == nil {
		return nil, nilAPI("query profiles")
	}

	in := &dynamodb.ScanInput{TableName: aws.String(r.table)}
	if filter.GenderEquals != nil {
		in.FilterExpression = aws.String("gender = :gender")
		in.ExpressionAttributeValues = map[string]types.AttributeValue{
			":gender": str(string(*filter.GenderEquals)),
		}
	}

	items := make([]model.Profile, 0)
	for {
		out, err := r.api.Scan(ctx, in)
		if err != nil {
			return nil, storeErr("scan profiles", err)
		}

		var recs []profileRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
			return nil, fmt.Errorf("decode profiles: %w", err)
		}
		for _, rec := range recs {
			p := rec.toModel()
			if filter.Matches(p) {
				items = append(items, p)
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}

	rules.SortFeed(items)
	return items, nil
}

// UpsertProfile writes the item but keeps created_at from the first write.
func (r *ProfileRepo) UpsertProfile(ctx context.Context, p model.Profile) error {
	if r.api == nil {
		return nilAPI("upsert profile")
	}

	existing, err := r.GetProfile(ctx, p.UserID)
	switch {
	case err == nil:
		p.CreatedAt = existing.CreatedAt
	case !errors.Is(err, errs.ErrNotFound):
		return err
	}

	item, err := attributevalue.MarshalMap(toProfileRecord(p))
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if _, err := r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		return storeErr("put profile", err)
	}
	return nil
}

func (r *ProfileRepo) DeleteProfile(ctx context.Context, userID string) error {
	if r.api == nil {
		return nilAPI("delete profile")
	}
	if _, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       map[string]types.AttributeValue{"user_id": str(userID)},
	}); err != nil {
		return storeErr("delete profile", err)
	}
	return nil
}
