package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/slayerintech/Lovify/internal/domain/model"
)

const (
	chatStreamPrefix = "chat:"
	chatStreamMaxLen = 10000
)

// ChatRepo stores each match thread as a capped Redis stream.
type ChatRepo struct {
	client *goredis.Client
}

func NewChatRepo(client *goredis.Client) *ChatRepo {
	return &ChatRepo{client: client}
}

func (r *ChatRepo) Append(ctx context.Context, msg model.ChatMessage) (model.ChatMessage, error) {
	if r.client == nil {
		return model.ChatMessage{}, nilClient("append chat message")
	}

	streamID, err := r.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: chatKey(msg.MatchID),
		MaxLen: chatStreamMaxLen,
		Approx: true,
		Values: map[string]any{
			"id":        msg.ID,
			"sender_id": msg.SenderID,
			"text":      msg.Text,
			"ts":        strconv.FormatInt(msg.CreatedAt.UnixMilli(), 10),
		},
	}).Result()
	if err != nil {
		return model.ChatMessage{}, storeErr("append chat message", err)
	}
	if msg.ID == "" {
		msg.ID = streamID
	}
	return msg, nil
}

// Recent returns up to limit newest messages, oldest first.
func (r *ChatRepo) Recent(ctx context.Context, matchID string, limit int) ([]model.ChatMessage, error) {
	if r.client == nil {
		return nil, nilClient("read chat history")
	}
	if limit <= 0 {
		return []model.ChatMessage{}, nil
	}

	entries, err := r.client.XRevRangeN(ctx, chatKey(matchID), "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, storeErr("read chat history", err)
	}

	out := make([]model.ChatMessage, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		msg, err := decodeChatEntry(matchID, entries[i])
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

func decodeChatEntry(matchID string, entry goredis.XMessage) (model.ChatMessage, error) {
	msg := model.ChatMessage{MatchID: matchID}
	msg.ID, _ = entry.Values["id"].(string)
	if msg.ID == "" {
		msg.ID = entry.ID
	}
	msg.SenderID, _ = entry.Values["sender_id"].(string)
	msg.Text, _ = entry.Values["text"].(string)

	rawTS, _ := entry.Values["ts"].(string)
	ms, err := strconv.ParseInt(rawTS, 10, 64)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("decode chat entry %s timestamp: %w", entry.ID, err)
	}
	msg.CreatedAt = time.UnixMilli(ms).UTC()
	return msg, nil
}

func chatKey(matchID string) string {
	return chatStreamPrefix + matchID
}
