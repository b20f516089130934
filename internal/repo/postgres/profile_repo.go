package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `
	user_id,
	name,
	age,
	gender,
	interested_in,
	photos,
	bio,
	job_title,
	interests,
	looking_for,
	religion,
	is_premium,
	premium_since,
	created_at,
	updated_at`

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, errs.Transient("get profile", fmt.Errorf("postgres pool is nil"))
	}

	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return model.Profile{}, storeErr("get profile", err)
	}
	return p, nil
}

func (r *ProfileRepo) QueryProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, error) {
	if r.pool == nil {
		return nil, errs.Transient("query profiles", fmt.Errorf("postgres pool is nil"))
	}

	var gender *string
	if filter.GenderEquals != nil {
		g := string(*filter.GenderEquals)
		gender = &g
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE
	NOT (user_id = ANY($1::text[]))
	AND ($2::text IS NULL OR gender = $2)
ORDER BY created_at ASC, user_id ASC
`, filter.ExcludeList(), gender)
	if err != nil {
		return nil, storeErr("query profiles", err)
	}
	defer rows.Close()

	items := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, storeErr("scan profile", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate profiles", err)
	}

	return items, nil
}

func (r *ProfileRepo) UpsertProfile(ctx context.Context, p model.Profile) error {
	if r.pool == nil {
		return errs.Transient("upsert profile", fmt.Errorf("postgres pool is nil"))
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (
	user_id,
	name,
	age,
	gender,
	interested_in,
	photos,
	bio,
	job_title,
	interests,
	looking_for,
	religion,
	is_premium,
	premium_since,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (user_id) DO UPDATE SET
	name = EXCLUDED.name,
	age = EXCLUDED.age,
	gender = EXCLUDED.gender,
	interested_in = EXCLUDED.interested_in,
	photos = EXCLUDED.photos,
	bio = EXCLUDED.bio,
	job_title = EXCLUDED.job_title,
	interests = EXCLUDED.interests,
	looking_for = EXCLUDED.looking_for,
	religion = EXCLUDED.religion,
	is_premium = EXCLUDED.is_premium,
	premium_since = EXCLUDED.premium_since,
	updated_at = EXCLUDED.updated_at
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
		p.PremiumSince,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	); err != nil {
		return storeErr("upsert profile", err)
	}

	return nil
}

func (r *ProfileRepo) DeleteProfile(ctx context.Context, userID string) error {
	if r.pool == nil {
		return errs.Transient("delete profile", fmt.Errorf("postgres pool is nil"))
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return storeErr("delete profile", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		p            model.Profile
		gender       string
		interestedIn string
		interests    []string
		lookingFor   string
		religion     string
		premiumSince *time.Time
	)
	if err := row.Scan(
		&p.UserID,
		&p.Name,
		&p.Age,
		&gender,
		&interestedIn,
		&p.Photos,
		&p.Bio,
		&p.JobTitle,
		&interests,
		&lookingFor,
		&religion,
		&p.IsPremium,
		&premiumSince,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return model.Profile{}, err
	}

	p.Gender = enums.Gender(gender)
	p.InterestedIn = enums.InterestedIn(interestedIn)
	p.Interests = enums.InterestsFromStrings(interests)
	p.LookingFor = enums.LookingFor(lookingFor)
	p.Religion = enums.Religion(religion)
	p.PremiumSince = premiumSince
	return p, nil
}
