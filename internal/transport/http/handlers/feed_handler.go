package handlers

import (
	"net/http"

	feedsvc "github.com/slayerintech/Lovify/internal/services/feed"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
	httperrors "github.com/slayerintech/Lovify/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

func (h *FeedHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *FeedHandler) serve(w http.ResponseWriter, r *http.Request, reset bool) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}
	limit, ok := queryLimit(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "limit must be a non-negative integer")
		return
	}

	build := h.service.Build
	if reset {
		build = h.service.BuildReset
	}
	res, err := build(r.Context(), identity.UserID, limit)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	items := make([]dto.ProfileCard, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, dto.NewProfileCard(p))
	}
	httperrors.Write(w, http.StatusOK, dto.FeedResponse{Items: items, Reset: res.Reset})
}
