package handlers

import (
	"context"
	"net/http"
	"time"

	httperrors "github.com/slayerintech/Lovify/internal/transport/http/errors"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler reports liveness. A failing ping marks the body degraded;
// the status stays 200.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			status = "degraded"
		}
	}
	httperrors.Write(w, http.StatusOK, map[string]string{"status": status})
}
