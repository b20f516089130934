package model

import "time"

type Match struct {
	ID        string                     `json:"id"`
	UserA     string                     `json:"user_a"`
	UserB     string                     `json:"user_b"`
	Snapshots map[string]ProfileSnapshot `json:"snapshots"`
	CreatedAt time.Time                  `json:"created_at"`
}

func (m Match) HasUser(userID string) bool {
	return userID != "" && (m.UserA == userID || m.UserB == userID)
}

func (m Match) OtherUser(userID string) string {
	switch userID {
	case m.UserA:
		return m.UserB
	case m.UserB:
		return m.UserA
	default:
		return ""
	}
}

func (m Match) Participants() []string {
	return []string{m.UserA, m.UserB}
}
