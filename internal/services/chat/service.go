package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
)

type MatchReader interface {
	GetMatchForParticipant(ctx context.Context, matchID, userID string) (model.Match, error)
}

type MessageStore interface {
	Append(ctx context.Context, msg model.ChatMessage) (model.ChatMessage, error)
	Recent(ctx context.Context, matchID string, limit int) ([]model.ChatMessage, error)
}

type Broadcaster interface {
	BroadcastMessage(ctx context.Context, recipients []string, msg model.ChatMessage)
}

type Thread struct {
	MatchID      string                `json:"match_id"`
	Participants []string              `json:"participants"`
	PartnerID    string                `json:"partner_id"`
	Partner      model.ProfileSnapshot `json:"partner"`
}

type Service struct {
	matches     MatchReader
	messages    MessageStore
	broadcaster Broadcaster
	now         func() time.Time
}

func NewService(matches MatchReader, messages MessageStore) *Service {
	return &Service{
		matches:  matches,
		messages: messages,
		now:      time.Now,
	}
}

func (s *Service) AttachBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Open resolves the thread for a match the caller participates in.
func (s *Service) Open(ctx context.Context, matchID, userID string) (Thread, error) {
	m, err := s.participantMatch(ctx, matchID, userID)
	if err != nil {
		return Thread{}, err
	}
	partner := m.OtherUser(userID)
	return Thread{
		MatchID:      m.ID,
		Participants: m.Participants(),
		PartnerID:    partner,
		Partner:      m.Snapshots[partner],
	}, nil
}

func (s *Service) Send(ctx context.Context, matchID, senderID, text string) (model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatMessage{}, errs.Invalid("message text is required")
	}
	if utf8.RuneCountInString(text) > rules.MaxChatMessageLength {
		return model.ChatMessage{}, errs.Invalid(fmt.Sprintf("message is longer than %d characters", rules.MaxChatMessageLength))
	}

	m, err := s.participantMatch(ctx, matchID, senderID)
	if err != nil {
		return model.ChatMessage{}, err
	}
	if s.messages == nil {
		return model.ChatMessage{}, errs.Transient("send message", fmt.Errorf("message store is nil"))
	}

	msg, err := s.messages.Append(ctx, model.ChatMessage{
		ID:        uuid.NewString(),
		MatchID:   m.ID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return model.ChatMessage{}, errs.Transient("send message", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(ctx, m.Participants(), msg)
	}
	return msg, nil
}

// History returns up to limit of the latest messages, oldest first.
func (s *Service) History(ctx context.Context, matchID, userID string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = rules.DefaultChatHistoryLimit
	}
	if limit > rules.MaxChatHistoryLimit {
		limit = rules.MaxChatHistoryLimit
	}

	m, err := s.participantMatch(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	if s.messages == nil {
		return nil, errs.Transient("read chat history", fmt.Errorf("message store is nil"))
	}

	items, err := s.messages.Recent(ctx, m.ID, limit)
	if err != nil {
		return nil, errs.Transient("read chat history", err)
	}
	return items, nil
}

func (s *Service) participantMatch(ctx context.Context, matchID, userID string) (model.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" || strings.TrimSpace(userID) == "" {
		return model.Match{}, errs.Invalid("match id and user id are required")
	}
	if s.matches == nil {
		return model.Match{}, errs.Transient("open chat", fmt.Errorf("match reader is nil"))
	}

	m, err := s.matches.GetMatchForParticipant(ctx, matchID, userID)
	if err != nil {
		if errors.Is(err, errs.ErrForbidden) || errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrInvalidInput) {
			return model.Match{}, err
		}
		return model.Match{}, errs.Transient("open chat", err)
	}
	return m, nil
}
