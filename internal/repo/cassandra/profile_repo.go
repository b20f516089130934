package cassandra

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

const profileColumns = `user_id, name, age, gender, interested_in, photos, bio, job_title,
	interests, looking_for, religion, is_premium, premium_since, created_at, updated_at`

type ProfileRepo struct {
	session *gocql.Session
}

func NewProfileRepo(session *gocql.Session) *ProfileRepo {
	return &ProfileRepo{session: session}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	if r.session == nil {
		return model.Profile{}, nilSession("get profile")
	}

	var row profileRow
	err := r.session.Query(`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID).
		WithContext(ctx).
		Scan(row.dest()...)
	if err != nil {
		return model.Profile{}, storeErr("get profile", err)
	}
	return row.toModel(), nil
}

// QueryProfiles reads the whole table, filtering gender server-side. Exclusions
// and ordering happen in memory.
func (r *ProfileRepo) QueryProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, error) {
	if r.session == nil {
		return nil, nilSession("query profiles")
	}

	q := r.session.Query(`SELECT ` + profileColumns + ` FROM profiles`)
	if filter.GenderEquals != nil {
		q = r.session.Query(`SELECT `+profileColumns+` FROM profiles WHERE gender = ? ALLOW FILTERING`, string(*filter.GenderEquals))
	}
	iter := q.WithContext(ctx).Iter()

	items := make([]model.Profile, 0)
	var row profileRow
	for iter.Scan(row.dest()...) {
		p := row.toModel()
		if filter.Matches(p) {
			items = append(items, p)
		}
		row = profileRow{}
	}
	if err := iter.Close(); err != nil {
		return nil, storeErr("query profiles", err)
	}

	rules.SortFeed(items)
	return items, nil
}

// UpsertProfile keeps created_at from the stored row when there is one.
func (r *ProfileRepo) UpsertProfile(ctx context.Context, p model.Profile) error {
	if r.session == nil {
		return nilSession("upsert profile")
	}

	existing, err := r.GetProfile(ctx, p.UserID)
	switch {
	case err == nil:
		p.CreatedAt = existing.CreatedAt
	case !errors.Is(err, errs.ErrNotFound):
		return err
	}

	var premiumSince *int64
	if p.PremiumSince != nil {
		ts := p.PremiumSince.UTC().UnixMicro()
		premiumSince = &ts
	}

	err = r.session.Query(`
INSERT INTO profiles (`+profileColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		p.UserID,
		p.Name,
		p.Age,
		string(p.Gender),
		string(p.InterestedIn),
		p.Photos,
		p.Bio,
		p.JobTitle,
		enums.InterestStrings(p.Interests),
		string(p.LookingFor),
		string(p.Religion),
		p.IsPremium,
		premiumSince,
		p.CreatedAt.UTC().UnixMicro(),
		p.UpdatedAt.UTC().UnixMicro(),
	).WithContext(ctx).Exec()
	if err != nil {
		return storeErr("upsert profile", err)
	}
	return nil
}

func (r *ProfileRepo) DeleteProfile(ctx context.Context, userID string) error {
	if r.session == nil {
		return nilSession("delete profile")
	}
	if err := r.session.Query(`DELETE FROM profiles WHERE user_id = ?`, userID).WithContext(ctx).Exec(); err != nil {
		return storeErr("delete profile", err)
	}
	return nil
}

type profileRow struct {
	userID, name, gender, interestedIn string
	bio, jobTitle, lookingFor, religion string
	age                                 int
	photos, interests                   []string
	isPremium                           bool
	premiumSince                        *int64
	createdAt, updatedAt                int64
}

func (row *profileRow) dest() []any {
	return []any{
		&row.userID,
		&row.name,
		&row.age,
		&row.gender,
		&row.interestedIn,
		&row.photos,
		&row.bio,
		&row.jobTitle,
		&row.interests,
		&row.lookingFor,
		&row.religion,
		&row.isPremium,
		&row.premiumSince,
		&row.createdAt,
		&row.updatedAt,
	}
}

func (row profileRow) toModel() model.Profile {
	p := model.Profile{
		UserID:       row.userID,
		Name:         row.name,
		Age:          row.age,
		Gender:       enums.Gender(row.gender),
		InterestedIn: enums.InterestedIn(row.interestedIn),
		Photos:       row.photos,
		Bio:          row.bio,
		JobTitle:     row.jobTitle,
		Interests:    enums.InterestsFromStrings(row.interests),
		LookingFor:   enums.LookingFor(row.lookingFor),
		Religion:     enums.Religion(row.religion),
		IsPremium:    row.isPremium,
		CreatedAt:    fromMicros(row.createdAt),
		UpdatedAt:    fromMicros(row.updatedAt),
	}
	if row.premiumSince != nil {
		ts := time.UnixMicro(*row.premiumSince).UTC()
		p.PremiumSince = &ts
	}
	return p
}
