package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	adssvc "github.com/slayerintech/Lovify/internal/services/ads"
	entsvc "github.com/slayerintech/Lovify/internal/services/entitlements"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
	httperrors "github.com/slayerintech/Lovify/internal/transport/http/errors"
)

type AdsHandler struct {
	ads          *adssvc.Service
	entitlements *entsvc.Service
}

func NewAdsHandler(ads *adssvc.Service, entitlements *entsvc.Service) *AdsHandler {
	return &AdsHandler{ads: ads, entitlements: entitlements}
}

func (h *AdsHandler) Placement(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.ads == nil || h.entitlements == nil {
		writeInternal(w, "ADS_SERVICE_UNAVAILABLE", "ads service is unavailable")
		return
	}

	placement := enums.AdPlacement(chi.URLParam(r, "placement"))
	premium, err := h.entitlements.IsPremium(r.Context(), identity.UserID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	show, err := h.ads.Placement(r.Context(), identity.UserID, placement, premium)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.PlacementResponse{Placement: string(placement), Show: show})
}
