package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/domain/rules"
	redrepo "github.com/slayerintech/Lovify/internal/repo/redis"
)

type matchReaderStub struct {
	match model.Match
}

func (s matchReaderStub) GetMatchForParticipant(_ context.Context, matchID, userID string) (model.Match, error) {
	if matchID != s.match.ID {
		return model.Match{}, errs.ErrNotFound
	}
	if !s.match.HasUser(userID) {
		return model.Match{}, errs.ErrForbidden
	}
	return s.match, nil
}

type broadcastCall struct {
	recipients []string
	msg        model.ChatMessage
}

type broadcasterStub struct {
	calls []broadcastCall
}

func (b *broadcasterStub) BroadcastMessage(_ context.Context, recipients []string, msg model.ChatMessage) {
	b.calls = append(b.calls, broadcastCall{recipients: recipients, msg: msg})
}

func newTestService(t *testing.T) (*Service, *broadcasterStub) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	userA, userB := rules.SortedPair("alice", "bob")
	svc := NewService(matchReaderStub{match: model.Match{
		ID:    rules.MatchID(userA, userB),
		UserA: userA,
		UserB: userB,
		Snapshots: map[string]model.ProfileSnapshot{
			"alice": {Name: "Alice"},
			"bob":   {Name: "Bob"},
		},
	}}, redrepo.NewChatRepo(client))

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	b := &broadcasterStub{}
	svc.AttachBroadcaster(b)
	return svc, b
}

func TestSendAndHistory(t *testing.T) {
	svc, b := newTestService(t)
	ctx := context.Background()
	matchID := rules.MatchID("alice", "bob")

	for _, text := range []string{"hi", "  how are you?  ", "coffee?"} {
		if _, err := svc.Send(ctx, matchID, "alice", text); err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
	}

	items, err := svc.History(ctx, matchID, "bob", 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 2 || items[0].Text != "how are you?" || items[1].Text != "coffee?" {
		t.Fatalf("unexpected history: %+v", items)
	}
	if len(b.calls) != 3 || len(b.calls[0].recipients) != 2 {
		t.Fatalf("unexpected broadcasts: %+v", b.calls)
	}
}

func TestOpenReturnsPartner(t *testing.T) {
	svc, _ := newTestService(t)

	thread, err := svc.Open(context.Background(), rules.MatchID("alice", "bob"), "bob")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if thread.PartnerID != "alice" || thread.Partner.Name != "Alice" {
		t.Fatalf("unexpected thread: %+v", thread)
	}
}

func TestSendByNonParticipantIsForbidden(t *testing.T) {
	svc, b := newTestService(t)

	_, err := svc.Send(context.Background(), rules.MatchID("alice", "bob"), "mallory", "hey")
	if !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("unexpected error: got %v want %v", err, errs.ErrForbidden)
	}
	if len(b.calls) != 0 {
		t.Fatalf("forbidden send must not broadcast")
	}
}

func TestSendValidation(t *testing.T) {
	svc, _ := newTestService(t)
	matchID := rules.MatchID("alice", "bob")

	for name, text := range map[string]string{
		"empty":    "   ",
		"too long": strings.Repeat("a", rules.MaxChatMessageLength+1),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Send(context.Background(), matchID, "alice", text); !errors.Is(err, errs.ErrInvalidInput) {
				t.Fatalf("unexpected error: got %v want %v", err, errs.ErrInvalidInput)
			}
		})
	}
}
