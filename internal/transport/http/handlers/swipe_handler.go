package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/model"
	"github.com/slayerintech/Lovify/internal/pkg/validate"
	decisionsvc "github.com/slayerintech/Lovify/internal/services/decisions"
	swipesvc "github.com/slayerintech/Lovify/internal/services/swipes"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
	httperrors "github.com/slayerintech/Lovify/internal/transport/http/errors"
)

type SwipeHandler struct {
	swipes    *swipesvc.Service
	decisions *decisionsvc.Service
}

func NewSwipeHandler(swipes *swipesvc.Service, decisions *decisionsvc.Service) *SwipeHandler {
	return &SwipeHandler{swipes: swipes, decisions: decisions}
}

func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.swipes == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	typ, valid := enums.ParseDecisionType(req.Decision)
	if !validate.Required(req.CandidateID) || !valid {
		writeBadRequest(w, "VALIDATION_ERROR", "candidate_id and decision (like|dislike) are required")
		return
	}

	res, err := h.swipes.Swipe(r.Context(), identity.UserID, req.CandidateID, typ)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	out := dto.SwipeResponse{
		OK:               true,
		Decision:         decisionResponse(res.Decision),
		Matched:          res.Matched,
		MatchPending:     res.MatchPending,
		ShowInterstitial: res.ShowInterstitial,
	}
	if res.Match != nil {
		m := dto.NewMatchResponse(*res.Match, identity.UserID)
		out.Match = &m
	}
	status := http.StatusOK
	if res.MatchPending {
		status = http.StatusAccepted
	}
	httperrors.Write(w, status, out)
}

// GetDecision lets a client check whether a swipe it is unsure about was stored.
func (h *SwipeHandler) GetDecision(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.decisions == nil {
		writeInternal(w, "DECISION_SERVICE_UNAVAILABLE", "decision service is unavailable")
		return
	}

	candidateID := chi.URLParam(r, "candidateID")
	if !validate.Required(candidateID) {
		writeBadRequest(w, "VALIDATION_ERROR", "candidate id is required")
		return
	}

	d, err := h.decisions.GetDecision(r.Context(), identity.UserID, candidateID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, decisionResponse(d))
}

func (h *SwipeHandler) Recheck(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.swipes == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.RecheckRequest
	if err := decodeJSON(r, &req); err != nil || !validate.Required(req.CandidateID) {
		writeBadRequest(w, "VALIDATION_ERROR", "candidate_id is required")
		return
	}

	m, matched, err := h.swipes.Recheck(r.Context(), identity.UserID, req.CandidateID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	out := dto.RecheckResponse{Matched: matched}
	if matched {
		resp := dto.NewMatchResponse(m, identity.UserID)
		out.Match = &resp
	}
	httperrors.Write(w, http.StatusOK, out)
}

func decisionResponse(d model.Decision) dto.DecisionResponse {
	return dto.DecisionResponse{
		DeciderID:   d.DeciderID,
		CandidateID: d.CandidateID,
		Decision:    string(d.Type),
		CreatedAt:   d.CreatedAt,
	}
}
