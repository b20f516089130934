package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	UpsertProfile(ctx context.Context, p model.Profile) error
	DeleteProfile(ctx context.Context, userID string) error
}

type DecisionPurger interface {
	DeleteDecisionsInvolving(ctx context.Context, userID string) (int64, error)
}

// AccountPurger is implemented by stores that can drop a profile and its
// decisions in one transaction.
type AccountPurger interface {
	PurgeAccount(ctx context.Context, userID string) (int64, error)
}

type Dependencies struct {
	Profiles  ProfileStore
	Decisions DecisionPurger
	Logger    *zap.Logger
}

type Service struct {
	profiles  ProfileStore
	decisions DecisionPurger
	logger    *zap.Logger
	now       func() time.Time
}

type Input struct {
	Name         string
	Age          int
	Gender       string
	InterestedIn string
	Photos       []string
	Bio          string
	JobTitle     string
	Interests    []string
	LookingFor   string
	Religion     string
}

type Options struct {
	Genders      []enums.Gender       `json:"genders"`
	InterestedIn []enums.InterestedIn `json:"interested_in"`
	Interests    []enums.Interest     `json:"interests"`
	LookingFor   []enums.LookingFor   `json:"looking_for"`
	Religions    []enums.Religion     `json:"religions"`
	MaxPhotos    int                  `json:"max_photos"`
	MinAge       int                  `json:"min_age"`
	MaxBioLength int                  `json:"max_bio_length"`
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles:  deps.Profiles,
		decisions: deps.Decisions,
		logger:    logger,
		now:       time.Now,
	}
}

// Save validates the input and upserts the caller's profile. Premium state
// and CreatedAt are owned by the stored row and never taken from input.
func (s *Service) Save(ctx context.Context, userID string, in Input) (model.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.Profile{}, errs.Invalid("user id is required")
	}
	if s.profiles == nil {
		return model.Profile{}, errs.Transient("save profile", fmt.Errorf("profile store is nil"))
	}

	now := s.now().UTC()
	p := normalize(userID, in)

	current, err := s.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		p.IsPremium = current.IsPremium
		p.PremiumSince = current.PremiumSince
		p.CreatedAt = current.CreatedAt
	case errors.Is(err, errs.ErrNotFound):
		p.CreatedAt = now
	default:
		return model.Profile{}, errs.Transient("load profile", err)
	}
	p.UpdatedAt = now

	if err := rules.ValidateProfile(p); err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", errs.ErrInvalidInput, err)
	}
	if err := s.profiles.UpsertProfile(ctx, p); err != nil {
		return model.Profile{}, errs.Transient("save profile", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID string) (model.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.Profile{}, errs.Invalid("user id is required")
	}
	if s.profiles == nil {
		return model.Profile{}, errs.Transient("get profile", fmt.Errorf("profile store is nil"))
	}

	p, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Profile{}, err
	}
	if err != nil {
		return model.Profile{}, errs.Transient("get profile", err)
	}
	return p, nil
}

// DeleteAccount removes the profile and every decision made by or about the
// user. Matches stay as history with their snapshots.
func (s *Service) DeleteAccount(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, errs.Invalid("user id is required")
	}
	if s.profiles == nil {
		return 0, errs.Transient("delete account", fmt.Errorf("profile store is nil"))
	}

	var (
		purged int64
		err    error
	)
	if purger, ok := s.profiles.(AccountPurger); ok {
		purged, err = purger.PurgeAccount(ctx, userID)
		if err != nil {
			return 0, errs.Transient("purge account", err)
		}
	} else {
		if s.decisions == nil {
			return 0, errs.Transient("delete account", fmt.Errorf("decision store is nil"))
		}
		purged, err = s.decisions.DeleteDecisionsInvolving(ctx, userID)
		if err != nil {
			return 0, errs.Transient("purge decisions", err)
		}
		if err := s.profiles.DeleteProfile(ctx, userID); err != nil && !errors.Is(err, errs.ErrNotFound) {
			return purged, errs.Transient("delete profile", err)
		}
	}

	s.logger.Info("account purged",
		zap.String("user_id", userID),
		zap.Int64("decisions_removed", purged),
	)
	return purged, nil
}

func (s *Service) Options() Options {
	return Options{
		Genders:      enums.Genders(),
		InterestedIn: enums.InterestedInOptions(),
		Interests:    enums.Interests(),
		LookingFor:   enums.LookingForOptions(),
		Religions:    enums.Religions(),
		MaxPhotos:    rules.MaxPhotos,
		MinAge:       rules.MinAge,
		MaxBioLength: rules.MaxBioLength,
	}
}

func normalize(userID string, in Input) model.Profile {
	photos := make([]string, 0, len(in.Photos))
	for _, photo := range in.Photos {
		photos = append(photos, strings.TrimSpace(photo))
	}

	interests := make([]enums.Interest, 0, len(in.Interests))
	for _, raw := range in.Interests {
		interests = append(interests, canonicalInterest(raw))
	}

	return model.Profile{
		UserID:       userID,
		Name:         strings.TrimSpace(in.Name),
		Age:          in.Age,
		Gender:       enums.Gender(strings.ToLower(strings.TrimSpace(in.Gender))),
		InterestedIn: enums.InterestedIn(strings.ToLower(strings.TrimSpace(in.InterestedIn))),
		Photos:       photos,
		Bio:          strings.TrimSpace(in.Bio),
		JobTitle:     strings.TrimSpace(in.JobTitle),
		Interests:    rules.NormalizeInterests(interests),
		LookingFor:   canonicalLookingFor(in.LookingFor),
		Religion:     canonicalReligion(in.Religion),
	}
}

func canonicalInterest(raw string) enums.Interest {
	raw = strings.TrimSpace(raw)
	for _, known := range enums.Interests() {
		if strings.EqualFold(string(known), raw) {
			return known
		}
	}
	return enums.Interest(raw)
}

func canonicalLookingFor(raw string) enums.LookingFor {
	raw = strings.TrimSpace(raw)
	for _, known := range enums.LookingForOptions() {
		if strings.EqualFold(string(known), raw) {
			return known
		}
	}
	return enums.LookingFor(raw)
}

func canonicalReligion(raw string) enums.Religion {
	raw = strings.TrimSpace(raw)
	for _, known := range enums.Religions() {
		if strings.EqualFold(string(known), raw) {
			return known
		}
	}
	return enums.Religion(raw)
}
