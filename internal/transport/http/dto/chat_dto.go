package dto

import "github.com/slayerintech/Lovify/internal/domain/model"

type SendMessageRequest struct {
	Text string `json:"text"`
}

type MessagesResponse struct {
	MatchID string              `json:"match_id"`
	Partner ProfileCard         `json:"partner"`
	Items   []model.ChatMessage `json:"items"`
}
