package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return mr, client
}

func profileFixture(id string, gender enums.Gender, createdAt time.Time) model.Profile {
	return model.Profile{
		UserID:       id,
		Name:         "user " + id,
		Age:          25,
		Gender:       gender,
		InterestedIn: enums.InterestedInBoth,
		Photos:       []string{"photos/" + id + "/1.jpg"},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}
