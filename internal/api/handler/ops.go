package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/chargescout/chargescout/internal/api/models"
	"github.com/chargescout/chargescout/internal/api/response"
	"github.com/chargescout/chargescout/internal/provider/resilience"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	db        Pinger
}

// NewOpsHandler creates a new OpsHandler. registry and db may be nil when
// the corresponding subsystem is not wired.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, db Pinger) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		db:        db,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// ProviderStatuses handles GET /v1/ops/providers - upstream provider health.
func (h *OpsHandler) ProviderStatuses(w http.ResponseWriter, r *http.Request) {
	providers := []models.ProviderStatus{}
	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			status := models.HealthStatusOK
			switch {
			case ph.IsUnhealthy():
				status = models.HealthStatusFail
			case ph.IsDegraded():
				status = models.HealthStatusDegraded
			}

			p := models.ProviderStatus{
				Provider:     ph.Name,
				Status:       status,
				CircuitState: strings.ToUpper(ph.CircuitState.String()),
			}
			if ph.LastSuccessAt != nil {
				ts := models.Timestamp(*ph.LastSuccessAt)
				p.LastSuccessAt = &ts
			}
			providers = append(providers, p)
		}
	}

	response.JSON(w, r, http.StatusOK, providers)
}
