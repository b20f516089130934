package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slayerintech/Lovify/internal/pkg/validate"
	matchessvc "github.com/slayerintech/Lovify/internal/services/matches"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
	httperrors "github.com/slayerintech/Lovify/internal/transport/http/errors"
)

// MatchesHandler serves the caller's matches, each rendered from the
// caller's side so the card shows the partner.
type MatchesHandler struct {
	matches *matchessvc.Service
}

func NewMatchesHandler(matches *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{matches: matches}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.begin(w, r)
	if !ok {
		return
	}

	found, err := h.matches.ListMatches(r.Context(), identity)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	resp := dto.MatchesResponse{Items: make([]dto.MatchResponse, len(found))}
	for i := range found {
		resp.Items[i] = dto.NewMatchResponse(found[i], identity)
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.begin(w, r)
	if !ok {
		return
	}

	matchID := chi.URLParam(r, "matchID")
	if !validate.Required(matchID) {
		writeBadRequest(w, "VALIDATION_ERROR", "match id is required")
		return
	}

	m, err := h.matches.GetMatchForParticipant(r.Context(), matchID, identity)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewMatchResponse(m, identity))
}

func (h *MatchesHandler) begin(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return "", false
	}
	if h.matches == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return "", false
	}
	return identity.UserID, true
}
