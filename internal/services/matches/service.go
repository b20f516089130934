package matches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
	feedsvc "github.com/slayerintech/Lovify/internal/services/feed"
)

type DecisionReader interface {
	GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error)
}

type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
}

type MatchStore interface {
	CreateMatchIfAbsent(ctx context.Context, m model.Match) (model.Match, bool, error)
	GetMatch(ctx context.Context, matchID string) (model.Match, error)
	QueryMatchesForUser(ctx context.Context, userID string) ([]model.Match, error)
}

// MatchNotifier is told about matches this process created.
type MatchNotifier interface {
	NotifyMatch(ctx context.Context, m model.Match)
}

type Dependencies struct {
	Decisions DecisionReader
	Profiles  ProfileReader
	Matches   MatchStore
}

type Config struct {
	ReverseReadRetries int
	RetryBackoff       time.Duration
	StoreTimeout       time.Duration
}

type Service struct {
	decisions DecisionReader
	profiles  ProfileReader
	matches   MatchStore
	notifier  MatchNotifier
	photoSign feedsvc.PhotoURLSigner
	cfg       Config
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.ReverseReadRetries < 0 {
		cfg.ReverseReadRetries = 0
	}

	return &Service{
		decisions: deps.Decisions,
		profiles:  deps.Profiles,
		matches:   deps.Matches,
		cfg:       cfg,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

func (s *Service) AttachNotifier(notifier MatchNotifier) {
	s.notifier = notifier
}

func (s *Service) AttachPhotoSigner(signer feedsvc.PhotoURLSigner) {
	s.photoSign = signer
}

// CheckAndCreateMatch runs after a like from likerID to likedID has been stored.
// It returns matched=false only when the reverse decision is known to be absent
// or a dislike; a read that keeps failing yields *errs.MatchStatusUnknownError.
func (s *Service) CheckAndCreateMatch(ctx context.Context, likerID, likedID string) (model.Match, bool, error) {
	if likerID == "" || likedID == "" || likerID == likedID {
		return model.Match{}, false, errs.Invalid("match check needs two distinct users")
	}
	if s.decisions == nil || s.profiles == nil || s.matches == nil {
		return model.Match{}, false, errs.Transient("check match", fmt.Errorf("match dependencies are not configured"))
	}

	reverse, found, err := s.readReverse(ctx, likerID, likedID)
	if err != nil {
		return model.Match{}, false, &errs.MatchStatusUnknownError{LikerID: likerID, LikedID: likedID, Err: err}
	}
	if !found || !reverse.IsLike() {
		return model.Match{}, false, nil
	}

	m, created, err := s.create(ctx, likerID, likedID)
	if err != nil {
		if errs.IsTransient(err) {
			return model.Match{}, false, &errs.MatchStatusUnknownError{LikerID: likerID, LikedID: likedID, Err: err}
		}
		return model.Match{}, false, err
	}
	if created && s.notifier != nil {
		s.notifier.NotifyMatch(ctx, m)
	}
	return m, true, nil
}

func (s *Service) readReverse(ctx context.Context, likerID, likedID string) (model.Decision, bool, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.ReverseReadRetries; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, time.Duration(attempt)*s.cfg.RetryBackoff); err != nil {
				return model.Decision{}, false, errs.Transient("read reverse decision", err)
			}
		}

		readCtx, cancel := s.withTimeout(ctx)
		d, err := s.decisions.GetDecision(readCtx, likedID, likerID)
		cancel()
		switch {
		case err == nil:
			return d, true, nil
		case errors.Is(err, errs.ErrNotFound):
			return model.Decision{}, false, nil
		case errs.IsTransient(err):
			lastErr = err
		default:
			return model.Decision{}, false, err
		}
	}
	return model.Decision{}, false, lastErr
}

func (s *Service) create(ctx context.Context, likerID, likedID string) (model.Match, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	liker, err := s.profiles.GetProfile(ctx, likerID)
	if err != nil {
		return model.Match{}, false, profileErr(likerID, err)
	}
	liked, err := s.profiles.GetProfile(ctx, likedID)
	if err != nil {
		return model.Match{}, false, profileErr(likedID, err)
	}

	userA, userB := rules.SortedPair(likerID, likedID)
	m := model.Match{
		ID:    rules.MatchID(userA, userB),
		UserA: userA,
		UserB: userB,
		Snapshots: map[string]model.ProfileSnapshot{
			liker.UserID: liker.Snapshot(),
			liked.UserID: liked.Snapshot(),
		},
		CreatedAt: s.now().UTC(),
	}

	stored, created, err := s.matches.CreateMatchIfAbsent(ctx, m)
	if err != nil {
		if errs.IsTransient(err) {
			return model.Match{}, false, err
		}
		return model.Match{}, false, errs.Transient("create match", err)
	}
	return stored, created, nil
}

// ListMatches returns the user's matches, newest first.
func (s *Service) ListMatches(ctx context.Context, userID string) ([]model.Match, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.Invalid("user id is required")
	}
	if s.matches == nil {
		return nil, errs.Transient("list matches", fmt.Errorf("match store is nil"))
	}

	items, err := s.matches.QueryMatchesForUser(ctx, userID)
	if err != nil {
		return nil, asTransient("list matches", err)
	}
	for i := range items {
		s.signSnapshots(ctx, &items[i])
	}
	return items, nil
}

func (s *Service) GetMatchForParticipant(ctx context.Context, matchID, userID string) (model.Match, error) {
	if strings.TrimSpace(matchID) == "" || strings.TrimSpace(userID) == "" {
		return model.Match{}, errs.Invalid("match id and user id are required")
	}
	if s.matches == nil {
		return model.Match{}, errs.Transient("get match", fmt.Errorf("match store is nil"))
	}

	m, err := s.matches.GetMatch(ctx, matchID)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Match{}, err
	}
	if err != nil {
		return model.Match{}, asTransient("get match", err)
	}
	if !m.HasUser(userID) {
		return model.Match{}, errs.ErrForbidden
	}
	s.signSnapshots(ctx, &m)
	return m, nil
}

func (s *Service) signSnapshots(ctx context.Context, m *model.Match) {
	if s.photoSign == nil || len(m.Snapshots) == 0 {
		return
	}
	signed := make(map[string]model.ProfileSnapshot, len(m.Snapshots))
	for id, snap := range m.Snapshots {
		snap.Photos = feedsvc.SignPhotos(ctx, s.photoSign, snap.Photos)
		signed[id] = snap
	}
	m.Snapshots = signed
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// profileErr maps a missing participant profile to ErrPreconditionNotMet.
// Replaying the check cannot fix that, so it is not transient.
func profileErr(userID string, err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("load profile %s: %w", userID, errs.ErrPreconditionNotMet)
	}
	return asTransient("load profile "+userID, err)
}

func asTransient(op string, err error) error {
	if errs.IsTransient(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return errs.Transient(op, err)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
