package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

const feedPhotoURLTTL = 5 * time.Minute

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	QueryProfiles(ctx context.Context, filter model.ProfileFilter) ([]model.Profile, error)
}

type DecisionStore interface {
	JudgedIDs(ctx context.Context, deciderID string) ([]string, error)
}

type PhotoURLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Config struct {
	DefaultLimit int
	StoreTimeout time.Duration
}

type Service struct {
	profiles  ProfileStore
	decisions DecisionStore
	photoSign PhotoURLSigner
	cfg       Config
}

type Result struct {
	Items []model.Profile
	Reset bool
}

func NewService(profiles ProfileStore, decisions DecisionStore, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = rules.DefaultFeedLimit
	}

	return &Service{
		profiles:  profiles,
		decisions: decisions,
		cfg:       cfg,
	}
}

func (s *Service) AttachPhotoSigner(signer PhotoURLSigner) {
	s.photoSign = signer
}

// Build returns candidates the user has not judged yet.
func (s *Service) Build(ctx context.Context, userID string, limit int) (Result, error) {
	return s.build(ctx, userID, limit, false)
}

// BuildReset ignores the judged set. Self is still excluded.
func (s *Service) BuildReset(ctx context.Context, userID string, limit int) (Result, error) {
	return s.build(ctx, userID, limit, true)
}

func (s *Service) build(ctx context.Context, userID string, limit int, reset bool) (Result, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Result{}, errs.Invalid("user id is required")
	}
	if s.profiles == nil || s.decisions == nil {
		return Result{}, errs.Transient("build feed", fmt.Errorf("feed dependencies are not configured"))
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.StoreTimeout)
		defer cancel()
	}

	var (
		requester model.Profile
		judged    []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.GetProfile(gctx, userID)
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: profile for %s does not exist", errs.ErrPreconditionNotMet, userID)
		}
		if err != nil {
			return asTransient("load requester profile", err)
		}
		requester = p
		return nil
	})
	if !reset {
		g.Go(func() error {
			ids, err := s.decisions.JudgedIDs(gctx, userID)
			if err != nil {
				return asTransient("load judged set", err)
			}
			judged = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	filter := model.ProfileFilter{
		ExcludeIDs:   make(map[string]struct{}, len(judged)+1),
		GenderEquals: rules.GenderFilterFor(requester.InterestedIn),
	}
	filter.ExcludeIDs[userID] = struct{}{}
	for _, id := range judged {
		filter.ExcludeIDs[id] = struct{}{}
	}

	candidates, err := s.profiles.QueryProfiles(ctx, filter)
	if err != nil {
		return Result{}, asTransient("query candidates", err)
	}

	items := make([]model.Profile, 0, min(limit, len(candidates)))
	for _, p := range candidates {
		if !filter.Matches(p) {
			continue
		}
		items = append(items, p)
	}
	rules.SortFeed(items)
	if len(items) > limit {
		items = items[:limit]
	}

	for i := range items {
		items[i].Photos = SignPhotos(ctx, s.photoSign, items[i].Photos)
	}

	return Result{Items: items, Reset: reset}, nil
}

// SignPhotos presigns object keys and passes absolute URLs through. A key that
// fails to sign is dropped rather than leaked.
func SignPhotos(ctx context.Context, signer PhotoURLSigner, photos []string) []string {
	if signer == nil || len(photos) == 0 {
		return photos
	}

	out := make([]string, 0, len(photos))
	for _, ref := range photos {
		ref = strings.TrimSpace(ref)
		switch {
		case ref == "":
			continue
		case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
			out = append(out, ref)
		default:
			signed, err := signer.PresignGet(ctx, ref, feedPhotoURLTTL)
			if err != nil {
				continue
			}
			out = append(out, signed)
		}
	}
	return out
}

// asTransient keeps typed errors and marks everything else retryable, so a
// failed read never turns into an empty feed.
func asTransient(op string, err error) error {
	if errs.IsTransient(err) || errors.Is(err, errs.ErrInvalidInput) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return errs.Transient(op, err)
}
