package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `user_id, name, age, gender, interested_in, photos, bio, job_title,
	interests, looking_for, religion, is_premium, premium_since, created_at, updated_at`

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	if r.db == nil {
		return model.Profile{}, nilDB("get profile")
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return model.Profile{}, storeErr("get profile", err)
	}
	return p, nil
}

// QueryProfiles pushes the gender filter and ordering into SQL. Exclusions are
// applied while scanning so the judged set never hits the variable limit.
func (r *ProfileRepo) QueryProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, error) {
	if r.db == nil {
		return nil, nilDB("query profiles")
	}

	var gender sql.NullString
	if filter.GenderEquals != nil {
		gender = sql.NullString{String: string(*filter.GenderEquals), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE (?1 IS NULL OR gender = ?1)
ORDER BY created_at ASC, user_id ASC
`, gender)
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
		if filter.Excludes(p.UserID) {
			continue
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate profiles", err)
	}
	return items, nil
}

func (r *ProfileRepo) UpsertProfile(ctx context.Context, p model.Profile) error {
	if r.db == nil {
		return nilDB("upsert profile")
	}

	photos, err := json.Marshal(nonNil(p.Photos))
	if err != nil {
		return fmt.Errorf("encode photos: %w", err)
	}
	interests, err := json.Marshal(enums.InterestStrings(p.Interests))
	if err != nil {
		return fmt.Errorf("encode interests: %w", err)
	}

	var premiumSince sql.NullInt64
	if p.PremiumSince != nil {
		premiumSince = sql.NullInt64{Int64: toMicros(*p.PremiumSince), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO profiles (`+profileColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
	name = excluded.name,
	age = excluded.age,
	gender = excluded.gender,
	interested_in = excluded.interested_in,
	photos = excluded.photos,
	bio = excluded.bio,
	job_title = excluded.job_title,
	interests = excluded.interests,
	looking_for = excluded.looking_for,
	religion = excluded.religion,
	is_premium = excluded.is_premium,
	premium_since = excluded.premium_since,
	updated_at = excluded.updated_at
`,
		p.UserID,
		p.Name,
		p.Age,
		string(p.Gender),
		string(p.InterestedIn),
		string(photos),
		p.Bio,
		p.JobTitle,
		string(interests),
		string(p.LookingFor),
		string(p.Religion),
		p.IsPremium,
		premiumSince,
		toMicros(p.CreatedAt),
		toMicros(p.UpdatedAt),
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
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return storeErr("delete profile", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (model.Profile, error) {
	var (
		p                    model.Profile
		gender, interestedIn string
		photos, interests    string
		lookingFor, religion string
		premiumSince         sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := row.Scan(
		&p.UserID,
		&p.Name,
		&p.Age,
		&gender,
		&interestedIn,
		&photos,
		&p.Bio,
		&p.JobTitle,
		&interests,
		&lookingFor,
		&religion,
		&p.IsPremium,
		&premiumSince,
		&createdAt,
		&updatedAt,
	); err != nil {
		return model.Profile{}, err
	}

	if err := json.Unmarshal([]byte(photos), &p.Photos); err != nil {
		return model.Profile{}, fmt.Errorf("decode photos: %w", err)
	}
	var rawInterests []string
	if err := json.Unmarshal([]byte(interests), &rawInterests); err != nil {
		return model.Profile{}, fmt.Errorf("decode interests: %w", err)
	}

	p.Gender = enums.Gender(gender)
	p.InterestedIn = enums.InterestedIn(interestedIn)
	p.Interests = enums.InterestsFromStrings(rawInterests)
	p.LookingFor = enums.LookingFor(lookingFor)
	p.Religion = enums.Religion(religion)
	if premiumSince.Valid {
		ts := fromMicros(premiumSince.Int64)
		p.PremiumSince = &ts
	}
	p.CreatedAt = fromMicros(createdAt)
	p.UpdatedAt = fromMicros(updatedAt)
	return p, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
