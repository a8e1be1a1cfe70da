// internal/controller/campaign_controller.go
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/unclebandit/neura-backend/internal/middleware"
	"github.com/unclebandit/neura-backend/internal/model"
	"github.com/unclebandit/neura-backend/internal/respond"
	"github.com/unclebandit/neura-backend/internal/service"
)

// CampaignService is the subset of service.CampaignService used here.
type CampaignService interface {
	GenerateCampaign(ctx context.Context, userID string, in service.GenerateCampaignInput) (*service.GenerateCampaignResult, error)
	ListCampaigns(ctx context.Context, userID string, page, pageSize int, status string) ([]model.Campaign, map[string]int, error)
	UpdateStatus(ctx context.Context, userID string, id int, status string) error
	DeleteCampaign(ctx context.Context, userID string, id int) error
}

type CampaignController struct {
	CampaignService CampaignService
	Validate        *validator.Validate
	Logger          *slog.Logger
}

type generateCampaignRequest struct {
	Objective string `json:"objetivo_principal" validate:"notblank"`
	StartDate string `json:"data_inicio" validate:"notblank"`
	EndDate   string `json:"data_fim" validate:"notblank"`
	Niche     string `json:"nicho" validate:"omitempty,max=200"`
}

type generateCampaignResponse struct {
	Campaign    *model.Campaign       `json:"campanha"`
	Steps       []*model.CampaignStep `json:"etapas"`
	Message     string                `json:"message"`
	PlanSource  string                `json:"plan_source"`
	FailedSteps int                   `json:"failed_steps"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active paused completed"`
}

func (c *CampaignController) GenerateCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var body generateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid body", err.Error())
		return
	}
	if err := c.Validate.Struct(body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid input", describe(err))
		return
	}

	result, err := c.CampaignService.GenerateCampaign(r.Context(), userID, service.GenerateCampaignInput{
		Objective: body.Objective,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		Niche:     body.Niche,
	})
	if err != nil {
		respond.ServiceError(w, c.Logger, err)
		return
	}

	msg := fmt.Sprintf("Campaign created with %d steps", len(result.Steps))
	if result.FailedSteps > 0 {
		msg = fmt.Sprintf("Campaign created with %d of %d steps", len(result.Steps), result.PlannedSteps)
	}

	respond.JSON(w, http.StatusCreated, generateCampaignResponse{
		Campaign:    result.Campaign,
		Steps:       result.Steps,
		Message:     msg,
		PlanSource:  result.PlanSource,
		FailedSteps: result.FailedSteps,
	})
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	// Parse query parameters
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")

	campaigns, pagination, err := c.CampaignService.ListCampaigns(r.Context(), userID, page, pageSize, status)
	if err != nil {
		respond.ServiceError(w, c.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := c.target(w, r)
	if !ok {
		return
	}

	var body updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid body", err.Error())
		return
	}
	if err := c.Validate.Struct(body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid input", describe(err))
		return
	}

	if err := c.CampaignService.UpdateStatus(r.Context(), userID, id, body.Status); err != nil {
		respond.ServiceError(w, c.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"id": id, "status": body.Status})
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := c.target(w, r)
	if !ok {
		return
	}
	if err := c.CampaignService.DeleteCampaign(r.Context(), userID, id); err != nil {
		respond.ServiceError(w, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CampaignController) target(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized", "")
		return "", 0, false
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respond.Error(w, http.StatusBadRequest, "invalid campaign id", "")
		return "", 0, false
	}
	return userID, id, true
}

// describe turns validator errors into "field: rule" pairs.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			msg += fe.Field() + " is required"
			continue
		}
		msg += fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return msg
}
