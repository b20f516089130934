package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

const (
	profilePrefix       = "profile:"
	profilesAllKey      = "profiles:all"
	profilesGenderIndex = "profiles:gender:"
)

type ProfileRepo struct {
	client *goredis.Client
}

func NewProfileRepo(client *goredis.Client) *ProfileRepo {
	return &ProfileRepo{client: client}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	if r.client == nil {
		return model.Profile{}, nilClient("get profile")
	}

	raw, err := r.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		return model.Profile{}, storeErr("get profile", err)
	}

	var p model.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Profile{}, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return p, nil
}

// QueryProfiles reads the gender index (or the full set) and filters the rest in memory.
func (r *ProfileRepo) QueryProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, error) {
	if r.client == nil {
		return nil, nilClient("query profiles")
	}

	indexKey := profilesAllKey
	if filter.GenderEquals != nil {
		indexKey = genderKey(*filter.GenderEquals)
	}

	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, storeErr("list profile ids", err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if filter.Excludes(id) {
			continue
		}
		keys = append(keys, profileKey(id))
	}
	if len(keys) == 0 {
		return []model.Profile{}, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storeErr("load profiles", err)
	}

	items := make([]model.Profile, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var p model.Profile
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		if filter.Matches(p) {
			items = append(items, p)
		}
	}

	rules.SortFeed(items)
	return items, nil
}

func (r *ProfileRepo) UpsertProfile(ctx context.Context, p model.Profile) error {
	if r.client == nil {
		return nilClient("upsert profile")
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, profileKey(p.UserID), raw, 0)
	pipe.SAdd(ctx, profilesAllKey, p.UserID)
	for _, g := range enums.Genders() {
		if g != p.Gender {
			pipe.SRem(ctx, genderKey(g), p.UserID)
		}
	}
	pipe.SAdd(ctx, genderKey(p.Gender), p.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("upsert profile", err)
	}
	return nil
}

func (r *ProfileRepo) DeleteProfile(ctx context.Context, userID string) error {
	if r.client == nil {
		return nilClient("delete profile")
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, profileKey(userID))
	pipe.SRem(ctx, profilesAllKey, userID)
	for _, g := range enums.Genders() {
		pipe.SRem(ctx, genderKey(g), userID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("delete profile", err)
	}
	return nil
}

func profileKey(userID string) string {
	return profilePrefix + userID
}

func genderKey(g enums.Gender) string {
	return profilesGenderIndex + string(g)
}
