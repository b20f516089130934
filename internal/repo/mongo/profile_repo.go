package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

type profileDoc struct {
	UserID       string   `bson:"_id"`
	Name         string   `bson:"name"`
	Age          int      `bson:"age"`
	Gender       string   `bson:"gender"`
	InterestedIn string   `bson:"interested_in"`
	Photos       []string `bson:"photos"`
	Bio          string   `bson:"bio"`
	JobTitle     string   `bson:"job_title,omitempty"`
	Interests    []string `bson:"interests"`
	LookingFor   string   `bson:"looking_for,omitempty"`
	Religion     string   `bson:"religion,omitempty"`
	IsPremium    bool     `bson:"is_premium"`
	PremiumSince *int64   `bson:"premium_since,omitempty"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
}

func toProfileDoc(p model.Profile) profileDoc {
	doc := profileDoc{
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
		doc.PremiumSince = &ts
	}
	return doc
}

func (doc profileDoc) toModel() model.Profile {
	p := model.Profile{
		UserID:       doc.UserID,
		Name:         doc.Name,
		Age:          doc.Age,
		Gender:       enums.Gender(doc.Gender),
		InterestedIn: enums.InterestedIn(doc.InterestedIn),
		Photos:       doc.Photos,
		Bio:          doc.Bio,
		JobTitle:     doc.JobTitle,
		Interests:    enums.InterestsFromStrings(doc.Interests),
		LookingFor:   enums.LookingFor(doc.LookingFor),
		Religion:     enums.Religion(doc.Religion),
		IsPremium:    doc.IsPremium,
		CreatedAt:    time.UnixMicro(doc.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMicro(doc.UpdatedAt).UTC(),
	}
	if doc.PremiumSince != nil {
		ts := time.UnixMicro(*doc.PremiumSince).UTC()
		p.PremiumSince = &ts
	}
	return p
}

type ProfileRepo struct {
	db *mongodrv.Database
}

func NewProfileRepo(db *mongodrv.Database) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	if r.db == nil {
		return model.Profile{}, nilDB("get profile")
	}

	var doc profileDoc
	if err := r.db.Collection(profilesCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		return model.Profile{}, storeErr("get profile", err)
	}
	return doc.toModel(), nil
}

func (r *ProfileRepo) QueryProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, error) {
	if r.db == nil {
		return nil, nilDB("query profiles")
	}

	cur, err := r.db.Collection(profilesCollection).Find(ctx, profileQuery(filter),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storeErr("query profiles", err)
	}
	defer cur.Close(ctx)

	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode profiles", err)
	}

	items := make([]model.Profile, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}

func profileQuery(filter model.ProfileFilter) bson.M {
	q := bson.M{}
	if len(filter.ExcludeIDs) > 0 {
		q["_id"] = bson.M{"$nin": filter.ExcludeList()}
	}
	if filter.GenderEquals != nil {
		q["gender"] = string(*filter.GenderEquals)
	}
	return q
}

// UpsertProfile replaces every field except created_at, which is only set on insert.
func (r *ProfileRepo) UpsertProfile(ctx context.Context, p model.Profile) error {
	if r.db == nil {
		return nilDB("upsert profile")
	}

	doc := toProfileDoc(p)
	set, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(set, &fields); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	delete(fields, "_id")
	delete(fields, "created_at")

	_, err = r.db.Collection(profilesCollection).UpdateOne(ctx,
		bson.M{"_id": doc.UserID},
		bson.M{
			"$set":         fields,
			"$setOnInsert": bson.M{"created_at": doc.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return storeErr("upsert profile", err)
	}
	return nil
}

func (r *ProfileRepo) DeleteProfile(ctx context.Context, userID string) error {
	if r.db == nil {
		return nilDB("delete profile")
	}
	if _, err := r.db.Collection(profilesCollection).DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return storeErr("delete profile", err)
	}
	return nil
}
