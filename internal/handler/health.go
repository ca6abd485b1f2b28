package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/unclebandit/relief-campaign/internal/logger"
)

// Pinger is satisfied by *db.DB
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Availability is satisfied by *service.ContentGenerator
type Availability interface {
	Available() bool
}

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	DB        Pinger
	Generator Availability
	Email     string
	SMS       string
	Log       *logger.Logger
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health reports dependency status. Only the database makes the service unhealthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"email": h.Email,
		"sms":   h.SMS,
	}

	status := "healthy"
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		h.Log.Warn().Err(err).Msg("database health check failed")
		services["database"] = "unhealthy"
		status = "degraded"
	} else {
		services["database"] = "healthy"
	}

	if h.Generator != nil && h.Generator.Available() {
		services["llm"] = "available"
	} else {
		services["llm"] = "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(HealthResponse{Status: status, Services: services})
}

// Ready returns whether the service is ready to accept requests
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
