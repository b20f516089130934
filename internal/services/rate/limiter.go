package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slayerintech/Lovify/internal/domain/rules"
)

const (
	swipesMinuteWindow = time.Minute
	swipes10SecWindow  = 10 * time.Second
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// TooManyError is returned when a window is exhausted.
type TooManyError struct {
	Reason        string
	RetryAfterSec int64
}

func (e *TooManyError) Error() string {
	return fmt.Sprintf("too many requests: %s", e.Reason)
}

func (e *TooManyError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooMany(err error) (*TooManyError, bool) {
	var tm *TooManyError
	if errors.As(err, &tm) {
		return tm, true
	}
	return nil, false
}

type Limiter struct {
	store     WindowStore
	perMinute int
	per10Sec  int
	loc       *time.Location
	now       func() time.Time
}

func NewLimiter(store WindowStore, perMinute, per10Sec int, loc *time.Location) *Limiter {
	if perMinute < 0 {
		perMinute = 0
	}
	if per10Sec < 0 {
		per10Sec = 0
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Limiter{
		store:     store,
		perMinute: perMinute,
		per10Sec:  per10Sec,
		loc:       loc,
		now:       time.Now,
	}
}

type burstWindow struct {
	key    func(userID string) string
	span   time.Duration
	budget int
}

func (l *Limiter) burstWindows() []burstWindow {
	return []burstWindow{
		{key: minuteKey, span: swipesMinuteWindow, budget: l.perMinute},
		{key: tenSecKey, span: swipes10SecWindow, budget: l.per10Sec},
	}
}

// AllowSwipe applies the burst windows to any swipe. Every window is counted
// even after one trips, and the longest wait is reported.
func (l *Limiter) AllowSwipe(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("invalid user id")
	}
	if l.store == nil {
		return fmt.Errorf("rate limiter store is nil")
	}

	var wait int64
	for _, w := range l.burstWindows() {
		if w.budget <= 0 {
			continue
		}
		count, ttl, err := l.store.IncrementWindow(ctx, w.key(userID), w.span)
		if err != nil {
			return err
		}
		if count > int64(w.budget) {
			wait = max(wait, ceilSeconds(ttl))
		}
	}

	if wait > 0 {
		return &TooManyError{Reason: "swiping too fast", RetryAfterSec: wait}
	}
	return nil
}

// AllowDailyLike counts a like against the free daily allowance. A limit of
// zero disables the check.
func (l *Limiter) AllowDailyLike(ctx context.Context, userID string, limit int) error {
	if userID == "" {
		return fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		return nil
	}
	if l.store == nil {
		return fmt.Errorf("rate limiter store is nil")
	}

	now := l.now()
	resetAt := rules.NextResetAt(now, l.loc)
	count, _, err := l.store.IncrementWindow(ctx, dailyLikesKey(userID, rules.DayKey(now, l.loc)), resetAt.Sub(now))
	if err != nil {
		return err
	}
	if count > int64(limit) {
		return &TooManyError{Reason: "daily like limit reached", RetryAfterSec: ceilSeconds(resetAt.Sub(now))}
	}
	return nil
}

// LikesLeft reports the remaining free likes for today without consuming one.
func (l *Limiter) LikesLeft(ctx context.Context, userID string, limit int) (int, time.Time, error) {
	now := l.now()
	resetAt := rules.NextResetAt(now, l.loc)
	if limit <= 0 {
		return -1, resetAt, nil
	}
	if l.store == nil {
		return 0, resetAt, fmt.Errorf("rate limiter store is nil")
	}

	used, _, err := l.store.WindowState(ctx, dailyLikesKey(userID, rules.DayKey(now, l.loc)))
	if err != nil {
		return 0, resetAt, err
	}
	return rules.LikesRemaining(used, limit), resetAt, nil
}

func minuteKey(userID string) string {
	return "rate:swipes:min:" + userID
}

func tenSecKey(userID string) string {
	return "rate:swipes:10s:" + userID
}

func dailyLikesKey(userID, dayKey string) string {
	return "quota:likes:" + dayKey + ":" + userID
}

// ceilSeconds rounds up to whole seconds, never below one for a live window.
func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}
