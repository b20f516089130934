package handlers

import (
	"net/http"

	profilesvc "github.com/slayerintech/Lovify/internal/services/profiles"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
	httperrors "github.com/slayerintech/Lovify/internal/transport/http/errors"
)

type ConfigHandler struct {
	profiles *profilesvc.Service
	limits   dto.ConfigLimitsResponse
}

func NewConfigHandler(profiles *profilesvc.Service, limits dto.ConfigLimitsResponse) *ConfigHandler {
	return &ConfigHandler{profiles: profiles, limits: limits}
}

func (h *ConfigHandler) Options(w http.ResponseWriter, _ *http.Request) {
	if h.profiles == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OptionsResponse{
		Options: h.profiles.Options(),
		Limits:  h.limits,
	})
}
