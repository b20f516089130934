package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

// ProfileReader gates swiping on the decider having a profile.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
}

type EntitlementReader interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID string) error
	AllowDailyLike(ctx context.Context, userID string, limit int) error
}

type DecisionRecorder interface {
	RecordDecision(ctx context.Context, deciderID, candidateID string, typ enums.DecisionType) (model.Decision, error)
	GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error)
}

type MatchDetector interface {
	CheckAndCreateMatch(ctx context.Context, likerID, likedID string) (model.Match, bool, error)
}

// PendingQueue holds like pairs whose match outcome could not be decided.
type PendingQueue interface {
	Add(ctx context.Context, likerID, likedID string) error
}

type AdCounter interface {
	RegisterSwipe(ctx context.Context, userID string, premium bool) (bool, error)
}

type Dependencies struct {
	Profiles     ProfileReader
	Entitlements EntitlementReader
	RateLimiter  RateLimiter
	Decisions    DecisionRecorder
	Matches      MatchDetector
	Pending      PendingQueue
	Ads          AdCounter
	Logger       *zap.Logger
}

type Config struct {
	FreeLikesPerDay int
}

type Result struct {
	Decision         model.Decision
	Matched          bool
	Match            *model.Match
	MatchPending     bool
	ShowInterstitial bool
}

type Service struct {
	profiles     ProfileReader
	entitlements EntitlementReader
	limiter      RateLimiter
	decisions    DecisionRecorder
	matches      MatchDetector
	pending      PendingQueue
	ads          AdCounter
	logger       *zap.Logger
	cfg          Config
}

func NewService(deps Dependencies, cfg Config) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FreeLikesPerDay < 0 {
		cfg.FreeLikesPerDay = 0
	}

	return &Service{
		profiles:     deps.Profiles,
		entitlements: deps.Entitlements,
		limiter:      deps.RateLimiter,
		decisions:    deps.Decisions,
		matches:      deps.Matches,
		pending:      deps.Pending,
		ads:          deps.Ads,
		logger:       logger,
		cfg:          cfg,
	}
}

// Swipe records a decision and, for likes, runs match detection. Once the
// decision is stored the call succeeds even if the match outcome is unknown;
// such pairs are queued for the reconciler and flagged MatchPending.
func (s *Service) Swipe(ctx context.Context, deciderID, candidateID string, typ enums.DecisionType) (Result, error) {
	deciderID = strings.TrimSpace(deciderID)
	candidateID = strings.TrimSpace(candidateID)
	if deciderID == "" || candidateID == "" {
		return Result{}, errs.Invalid("decider and candidate ids are required")
	}
	if deciderID == candidateID {
		return Result{}, errs.Invalid("cannot decide on yourself")
	}
	if !typ.Valid() {
		return Result{}, errs.Invalid(fmt.Sprintf("unknown decision type %q", typ))
	}
	if s.profiles == nil || s.decisions == nil || s.matches == nil {
		return Result{}, errs.Transient("swipe", fmt.Errorf("swipe dependencies are not configured"))
	}

	if err := s.requireProfile(ctx, deciderID); err != nil {
		return Result{}, err
	}

	premium, err := s.resolvePremium(ctx, deciderID)
	if err != nil {
		return Result{}, err
	}

	if s.limiter != nil {
		if err := s.limiter.AllowSwipe(ctx, deciderID); err != nil {
			return Result{}, limiterErr("apply swipe rate limiter", err)
		}
		if typ == enums.DecisionLike && !premium {
			if err := s.limiter.AllowDailyLike(ctx, deciderID, s.cfg.FreeLikesPerDay); err != nil {
				return Result{}, limiterErr("apply daily like limit", err)
			}
		}
	}

	decision, err := s.decisions.RecordDecision(ctx, deciderID, candidateID, typ)
	if err != nil {
		return Result{}, err
	}
	res := Result{Decision: decision}

	if decision.IsLike() {
		m, matched, err := s.matches.CheckAndCreateMatch(ctx, deciderID, candidateID)
		if su, ok := errs.IsMatchStatusUnknown(err); ok {
			s.logger.Warn("match status unknown, queued for reconcile",
				zap.String("liker_id", su.LikerID),
				zap.String("liked_id", su.LikedID),
				zap.Error(su.Err),
			)
			s.enqueue(ctx, deciderID, candidateID)
			res.MatchPending = true
		} else if errors.Is(err, errs.ErrPreconditionNotMet) {
			// the candidate's profile is gone; the like stands but cannot match
			s.logger.Debug("match check skipped, profile missing",
				zap.String("liker_id", deciderID),
				zap.String("liked_id", candidateID),
				zap.Error(err),
			)
		} else if err != nil {
			return Result{}, err
		} else if matched {
			res.Matched = true
			res.Match = &m
		}
	}

	if s.ads != nil && !premium {
		show, err := s.ads.RegisterSwipe(ctx, deciderID, premium)
		if err != nil {
			s.logger.Warn("register swipe for ads", zap.String("user_id", deciderID), zap.Error(err))
		}
		res.ShowInterstitial = show
	}

	return res, nil
}

// Recheck re-runs match detection for a stored like. It is used by the
// reconciler and by clients resolving a pending swipe.
func (s *Service) Recheck(ctx context.Context, likerID, likedID string) (model.Match, bool, error) {
	likerID = strings.TrimSpace(likerID)
	likedID = strings.TrimSpace(likedID)
	if likerID == "" || likedID == "" || likerID == likedID {
		return model.Match{}, false, errs.Invalid("recheck needs two distinct users")
	}
	if s.decisions == nil || s.matches == nil {
		return model.Match{}, false, errs.Transient("recheck", fmt.Errorf("swipe dependencies are not configured"))
	}

	d, err := s.decisions.GetDecision(ctx, likerID, likedID)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Match{}, false, errs.Invalid("no like recorded for this pair")
	}
	if err != nil {
		return model.Match{}, false, err
	}
	if !d.IsLike() {
		return model.Match{}, false, errs.Invalid("stored decision is not a like")
	}

	return s.matches.CheckAndCreateMatch(ctx, likerID, likedID)
}

func (s *Service) requireProfile(ctx context.Context, userID string) error {
	_, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("swipe as %s: %w", userID, errs.ErrPreconditionNotMet)
	}
	if err != nil {
		if errs.IsTransient(err) {
			return fmt.Errorf("load decider profile: %w", err)
		}
		return errs.Transient("load decider profile", err)
	}
	return nil
}

func (s *Service) resolvePremium(ctx context.Context, userID string) (bool, error) {
	if s.entitlements == nil {
		return false, nil
	}
	premium, err := s.entitlements.IsPremium(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("resolve premium: %w", err)
	}
	return premium, nil
}

func (s *Service) enqueue(ctx context.Context, likerID, likedID string) {
	if s.pending == nil {
		return
	}
	if err := s.pending.Add(ctx, likerID, likedID); err != nil {
		s.logger.Error("enqueue pending match check",
			zap.String("liker_id", likerID),
			zap.String("liked_id", likedID),
			zap.Error(err),
		)
	}
}

func limiterErr(op string, err error) error {
	var tooMany interface{ RetryAfter() int64 }
	if errors.As(err, &tooMany) {
		return err
	}
	return errs.Transient(op, err)
}
