package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	chatsvc "github.com/slayerintech/Lovify/internal/services/chat"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
	httperrors "github.com/slayerintech/Lovify/internal/transport/http/errors"
)

type ChatHandler struct {
	service *chatsvc.Service
}

func NewChatHandler(service *chatsvc.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}
	limit, ok := queryLimit(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "limit must be a non-negative integer")
		return
	}

	matchID := chi.URLParam(r, "matchID")
	thread, err := h.service.Open(r.Context(), matchID, identity.UserID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	items, err := h.service.History(r.Context(), matchID, identity.UserID, limit)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MessagesResponse{
		MatchID: thread.MatchID,
		Partner: dto.NewSnapshotCard(thread.PartnerID, thread.Partner),
		Items:   items,
	})
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	msg, err := h.service.Send(r.Context(), chi.URLParam(r, "matchID"), identity.UserID, req.Text)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, msg)
}
