package handlers

import (
	"net/http"

	"github.com/slayerintech/Lovify/internal/services/realtime"
)

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

func (h *RealtimeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.hub == nil {
		writeInternal(w, "REALTIME_UNAVAILABLE", "realtime hub is unavailable")
		return
	}
	h.hub.Serve(w, r, identity.UserID)
}
