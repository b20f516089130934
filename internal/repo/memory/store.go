// Package memory is an in-process store used by tests and the memory driver.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

// pairKey identifies a decision by its ordered pair.
type pairKey struct {
	decider   string
	candidate string
}

type Store struct {
	mu        sync.RWMutex
	profiles  map[string]model.Profile
	decisions map[pairKey]model.Decision
	matches   map[string]model.Match
}

func New() *Store {
	return &Store{
		profiles:  map[string]model.Profile{},
		decisions: map[pairKey]model.Decision{},
		matches:   map[string]model.Match{},
	}
}

func (s *Store) GetProfile(_ context.Context, userID string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, errs.ErrNotFound
	}
	return p, nil
}

func (s *Store) QueryProfiles(_ context.Context, filter model.ProfileFilter) ([]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	rules.SortFeed(out)
	return out, nil
}

func (s *Store) UpsertProfile(_ context.Context, p model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.profiles[p.UserID]; ok {
		p.CreatedAt = cur.CreatedAt
	}
	s.profiles[p.UserID] = p
	return nil
}

func (s *Store) DeleteProfile(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, userID)
	return nil
}

func (s *Store) GetDecision(_ context.Context, deciderID, candidateID string) (model.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.decisions[pairKey{deciderID, candidateID}]
	if !ok {
		return model.Decision{}, errs.ErrNotFound
	}
	return d, nil
}

func (s *Store) PutDecision(_ context.Context, d model.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{d.DeciderID, d.CandidateID}
	if cur, ok := s.decisions[key]; ok && cur.CreatedAt.After(d.CreatedAt) {
		return nil
	}
	s.decisions[key] = d
	return nil
}

func (s *Store) JudgedIDs(_ context.Context, deciderID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0)
	for _, d := range s.decisions {
		if d.DeciderID == deciderID {
			out = append(out, d.CandidateID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) DeleteDecisionsInvolving(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteDecisionsLocked(userID), nil
}

func (s *Store) deleteDecisionsLocked(userID string) int64 {
	var n int64
	for key, d := range s.decisions {
		if d.DeciderID == userID || d.CandidateID == userID {
			delete(s.decisions, key)
			n++
		}
	}
	return n
}

// PurgeAccount removes the profile and every decision touching the user under
// one lock.
func (s *Store) PurgeAccount(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, userID)
	return s.deleteDecisionsLocked(userID), nil
}

func (s *Store) CreateMatchIfAbsent(_ context.Context, m model.Match) (model.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.matches[m.ID]; ok {
		return existing, false, nil
	}
	m.UserA, m.UserB = rules.SortedPair(m.UserA, m.UserB)
	s.matches[m.ID] = m
	return m, true, nil
}

func (s *Store) GetMatch(_ context.Context, matchID string) (model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[matchID]
	if !ok {
		return model.Match{}, errs.ErrNotFound
	}
	return m, nil
}

func (s *Store) QueryMatchesForUser(_ context.Context, userID string) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Match, 0)
	for _, m := range s.matches {
		if m.HasUser(userID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// MatchCount is used by tests asserting exactly-once creation.
func (s *Store) MatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}
