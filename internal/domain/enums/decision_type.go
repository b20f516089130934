package enums

import "strings"

type DecisionType string

const (
	DecisionLike    DecisionType = "like"
	DecisionDislike DecisionType = "dislike"
)

func ParseDecisionType(value string) (DecisionType, bool) {
	d := DecisionType(strings.ToLower(strings.TrimSpace(value)))
	return d, d.Valid()
}

func (d DecisionType) Valid() bool {
	return d == DecisionLike || d == DecisionDislike
}
