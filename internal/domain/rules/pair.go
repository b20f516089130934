package rules

import (
	"strconv"

	"github.com/google/uuid"
)

// matchNamespace scopes match ids so they never collide with other SHA1 UUIDs.
var matchNamespace = uuid.MustParse("6f1c3a52-8e0b-4f57-9a5e-1d2f7c4b9e30")

func SortedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// MatchID is the same for (a, b) and (b, a).
func MatchID(a, b string) string {
	lo, hi := SortedPair(a, b)
	return uuid.NewSHA1(matchNamespace, []byte(DecisionKey(lo, hi))).String()
}

// DecisionKey encodes an ordered pair. The length prefix keeps ids that
// contain the separator from aliasing another pair.
func DecisionKey(deciderID, candidateID string) string {
	return strconv.Itoa(len(deciderID)) + ":" + deciderID + ":" + candidateID
}
