package handlers

import (
	"net/http"

	entsvc "github.com/slayerintech/Lovify/internal/services/entitlements"
	profilesvc "github.com/slayerintech/Lovify/internal/services/profiles"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
	httperrors "github.com/slayerintech/Lovify/internal/transport/http/errors"
)

type ProfileHandler struct {
	profiles     *profilesvc.Service
	entitlements *entsvc.Service
}

func NewProfileHandler(profiles *profilesvc.Service, entitlements *entsvc.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, entitlements: entitlements}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.profiles == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	p, err := h.profiles.Get(r.Context(), identity.UserID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.profiles == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	p, err := h.profiles.Save(r.Context(), identity.UserID, profilesvc.Input{
		Name:         req.Name,
		Age:          req.Age,
		Gender:       req.Gender,
		InterestedIn: req.InterestedIn,
		Photos:       req.Photos,
		Bio:          req.Bio,
		JobTitle:     req.JobTitle,
		Interests:    req.Interests,
		LookingFor:   req.LookingFor,
		Religion:     req.Religion,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.profiles == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	removed, err := h.profiles.DeleteAccount(r.Context(), identity.UserID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.DeleteAccountResponse{OK: true, DecisionsRemoved: removed})
}

func (h *ProfileHandler) SyncPremium(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.entitlements == nil {
		writeInternal(w, "ENTITLEMENT_SERVICE_UNAVAILABLE", "entitlement service is unavailable")
		return
	}

	var req dto.PremiumRequest
	if err := decodeJSON(r, &req); err != nil || req.IsPremium == nil {
		writeBadRequest(w, "VALIDATION_ERROR", "is_premium is required")
		return
	}

	ent, err := h.entitlements.SetPremium(r.Context(), identity.UserID, *req.IsPremium)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.EntitlementResponse{
		IsPremium:    ent.IsPremium,
		PremiumSince: ent.PremiumSince,
	})
}
