package ads

import (
	"context"
	"fmt"
	"strings"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

// CounterStore counts events per key and reports when a threshold is reached.
type CounterStore interface {
	IncrementCycle(ctx context.Context, key string, threshold int) (int64, bool, error)
}

type Config struct {
	SwipeInterstitialEvery int
}

type Service struct {
	counters CounterStore
	cfg      Config
}

func NewService(counters CounterStore, cfg Config) *Service {
	if cfg.SwipeInterstitialEvery <= 0 {
		cfg.SwipeInterstitialEvery = rules.SwipeInterstitialEvery
	}
	return &Service{
		counters: counters,
		cfg:      cfg,
	}
}

// RegisterSwipe counts a swipe and reports whether an interstitial is due.
// Premium users never see one and do not advance the counter.
func (s *Service) RegisterSwipe(ctx context.Context, userID string, premium bool) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, errs.Invalid("user id is required")
	}
	if premium {
		return false, nil
	}
	if s.counters == nil {
		return false, fmt.Errorf("ads counter store is nil")
	}

	_, due, err := s.counters.IncrementCycle(ctx, swipeCounterKey(userID), s.cfg.SwipeInterstitialEvery)
	if err != nil {
		return false, fmt.Errorf("count swipe: %w", err)
	}
	return due, nil
}

// Placement reports whether a non-swipe placement shows an ad. Swipe
// interstitials go through RegisterSwipe.
func (s *Service) Placement(ctx context.Context, userID string, placement enums.AdPlacement, premium bool) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, errs.Invalid("user id is required")
	}
	if !placement.Valid() {
		return false, errs.Invalid(fmt.Sprintf("unknown placement %q", placement))
	}
	if premium {
		return false, nil
	}
	if placement == enums.AdPlacementSwipe {
		return s.RegisterSwipe(ctx, userID, premium)
	}
	return true, nil
}

func swipeCounterKey(userID string) string {
	return "ads:swipes:" + userID
}
