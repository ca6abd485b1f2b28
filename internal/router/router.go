package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/relief-campaign/internal/controller"
	"github.com/unclebandit/relief-campaign/internal/handler"
	"github.com/unclebandit/relief-campaign/internal/middleware"
)

// New creates and configures the HTTP router
func New(campaigns *controller.CampaignController, contacts *controller.ContactController, health *handler.HealthHandler, mw *middleware.Middleware) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.Recover)
	r.Use(mw.Logger)

	r.Get("/health", health.Health)
	r.Get("/ready", health.Ready)

	// Contact routes
	r.Post("/contacts/", contacts.CreateContact)
	r.Get("/contacts/{id}", contacts.GetContact)

	// Campaign routes
	r.Post("/campaign/trigger/", campaigns.TriggerCampaign)

	return r
}
