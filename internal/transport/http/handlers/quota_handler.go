package handlers

import (
	"context"
	"net/http"
	"time"

	entsvc "github.com/slayerintech/Lovify/internal/services/entitlements"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
	httperrors "github.com/slayerintech/Lovify/internal/transport/http/errors"
)

type LikeQuota interface {
	LikesLeft(ctx context.Context, userID string, limit int) (int, time.Time, error)
}

type QuotaHandler struct {
	quota        LikeQuota
	entitlements *entsvc.Service
	limit        int
}

func NewQuotaHandler(quota LikeQuota, entitlements *entsvc.Service, freeLikesPerDay int) *QuotaHandler {
	return &QuotaHandler{quota: quota, entitlements: entitlements, limit: freeLikesPerDay}
}

func (h *QuotaHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.quota == nil || h.entitlements == nil {
		writeInternal(w, "QUOTA_SERVICE_UNAVAILABLE", "quota service is unavailable")
		return
	}

	premium, err := h.entitlements.IsPremium(r.Context(), identity.UserID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if premium || h.limit <= 0 {
		httperrors.Write(w, http.StatusOK, dto.QuotaResponse{Unlimited: true})
		return
	}

	left, resetsAt, err := h.quota.LikesLeft(r.Context(), identity.UserID, h.limit)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.QuotaResponse{
		LikesLeft: left,
		Limit:     h.limit,
		ResetsAt:  &resetsAt,
	})
}
