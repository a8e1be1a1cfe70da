// internal/router/router.go
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/neura-backend/internal/controller"
	"github.com/unclebandit/neura-backend/internal/handler"
	"github.com/unclebandit/neura-backend/internal/middleware"
	"github.com/unclebandit/neura-backend/internal/respond"
)

type Deps struct {
	Auth               *middleware.JWTAuth
	CampaignController *controller.CampaignController
	CampaignHandler    *handler.CampaignHandler
	TrendHandler       *handler.TrendHandler
	Logger             *slog.Logger
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(d.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(d.Auth.RequireUser)

		// Campaign routes
		r.Post("/campaigns/generate", d.CampaignController.GenerateCampaign)
		r.Get("/campaigns", d.CampaignController.ListCampaigns)
		r.Get("/campaigns/{id}", d.CampaignHandler.GetCampaign)
		r.Patch("/campaigns/{id}/status", d.CampaignController.UpdateStatus)
		r.Delete("/campaigns/{id}", d.CampaignController.DeleteCampaign)

		// Trend routes
		r.Post("/trends/classify", d.TrendHandler.RequestClassification)
		r.Get("/trends", d.TrendHandler.ListTrends)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", chimw.GetReqID(r.Context()))
		})
	}
}
