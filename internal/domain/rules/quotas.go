package rules

import "time"

const (
	FreeLikesPerDay         = 100
	SwipeInterstitialEvery  = 5
	DefaultFeedLimit        = 50
	MaxChatMessageLength    = 2000
	DefaultChatHistoryLimit = 50
	MaxChatHistoryLimit     = 200
)

// DayKey names the calendar day now falls on in loc. Daily like counters are
// keyed by it, so the allowance resets at local midnight.
func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}

// NextResetAt is the next local midnight in loc, returned in UTC.
func NextResetAt(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc).UTC()
}

// LikesRemaining clamps limit-used at zero.
func LikesRemaining(used int64, limit int) int {
	left := int64(limit) - used
	if left < 0 {
		return 0
	}
	return int(left)
}
