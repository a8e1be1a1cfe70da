// internal/handler/campaign_handler.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/neura-backend/internal/middleware"
	"github.com/unclebandit/neura-backend/internal/respond"
	"github.com/unclebandit/neura-backend/internal/service"
)

type CampaignReader interface {
	GetCampaign(ctx context.Context, userID string, id int) (*service.CampaignDetails, error)
}

// CampaignHandler serves read-only campaign views.
type CampaignHandler struct {
	Service CampaignReader
	Logger  *slog.Logger
}

// GetCampaign returns a campaign with its ordered steps and their ideas.
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid campaign id", "")
		return
	}

	details, err := h.Service.GetCampaign(r.Context(), userID, id)
	if err != nil {
		respond.ServiceError(w, h.Logger, err)
		return
	}

	h.Logger.Debug("campaign fetched", "campaign_id", id, "steps", len(details.Steps))
	respond.JSON(w, http.StatusOK, details)
}
