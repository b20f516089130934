// Package seed fills a store with dummy profiles for local testing.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

type ProfileStore interface {
	UpsertProfile(ctx context.Context, p model.Profile) error
}

type Config struct {
	PerGender int
	// WritesPerSecond paces store writes; zero means unpaced.
	WritesPerSecond float64
	Seed            int64
}

var (
	maleNames   = []string{"Arjun", "Rohan", "Kabir", "Vikram", "Aditya", "Karan", "Dev", "Ishaan", "Rahul", "Nikhil"}
	femaleNames = []string{"Ananya", "Priya", "Meera", "Kavya", "Isha", "Riya", "Sana", "Tara", "Diya", "Nisha"}
	bios        = []string{
		"Weekend trekker, weekday coder.",
		"Looking for someone to share chai and bad jokes with.",
		"Dog person. Will judge your playlist.",
		"Trying every street food stall in the city.",
		"Bookshelf bigger than my wardrobe.",
	}
	jobs = []string{"Engineer", "Designer", "Doctor", "Teacher", "Founder", "Photographer", ""}
)

type Seeder struct {
	store  ProfileStore
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func New(store ProfileStore, cfg Config, logger *zap.Logger) *Seeder {
	if cfg.PerGender <= 0 {
		cfg.PerGender = 10
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Run upserts PerGender male and female profiles. Ids are stable, so
// repeated runs overwrite the same rows.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, fmt.Errorf("seed store is nil")
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if s.cfg.WritesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.WritesPerSecond), 1)
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	base := s.now().UTC()
	written := 0
	for i := 0; i < s.cfg.PerGender; i++ {
		for _, gender := range []enums.Gender{enums.GenderMale, enums.GenderFemale} {
			if err := limiter.Wait(ctx); err != nil {
				return written, err
			}
			p := dummyProfile(rng, gender, i, base.Add(time.Duration(written)*time.Second))
			if err := s.store.UpsertProfile(ctx, p); err != nil {
				return written, fmt.Errorf("upsert %s: %w", p.UserID, err)
			}
			written++
		}
	}

	s.logger.Info("seeded dummy profiles", zap.Int("count", written))
	return written, nil
}

func DummyID(gender enums.Gender, i int) string {
	return fmt.Sprintf("dummy_%s_%d", gender, i)
}

func dummyProfile(rng *rand.Rand, gender enums.Gender, i int, createdAt time.Time) model.Profile {
	names := maleNames
	interestedIn := enums.InterestedInFemale
	if gender == enums.GenderFemale {
		names = femaleNames
		interestedIn = enums.InterestedInMale
	}

	all := enums.Interests()
	rng.Shuffle(len(all), func(a, b int) { all[a], all[b] = all[b], all[a] })
	interests := all[:2+rng.Intn(4)]

	lookingFor := enums.LookingForOptions()
	religions := enums.Religions()

	photos := make([]string, 1+rng.Intn(3))
	for p := range photos {
		photos[p] = fmt.Sprintf("https://picsum.photos/seed/%s_%d/600/800", DummyID(gender, i), p)
	}

	return model.Profile{
		UserID:       DummyID(gender, i),
		Name:         names[rng.Intn(len(names))],
		Age:          rules.MinAge + rng.Intn(18),
		Gender:       gender,
		InterestedIn: interestedIn,
		Photos:       photos,
		Bio:          bios[rng.Intn(len(bios))],
		JobTitle:     jobs[rng.Intn(len(jobs))],
		Interests:    rules.NormalizeInterests(interests),
		LookingFor:   lookingFor[rng.Intn(len(lookingFor))],
		Religion:     religions[rng.Intn(len(religions))],
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}
