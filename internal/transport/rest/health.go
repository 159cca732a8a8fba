package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/shopfloor-tasks/internal/transport"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthDisabled  HealthStatus = "disabled"
)

const readinessTimeout = 3 * time.Second

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

// Pinger is anything the readiness probe can reach: the spreadsheet client, the database pool.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type HealthHandler struct {
	*transport.BaseHandler
	components map[string]Pinger
}

// NewHealthHandler takes the components checked by readiness. A nil component is reported as
// disabled and does not fail the probe.
func NewHealthHandler(baseHandler *transport.BaseHandler, components map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: baseHandler,
		components:  components,
	}
}

// liveness → {"ok":true} while the process serves requests
func (h *HealthHandler) liveness(w http.ResponseWriter, r *http.Request) {
	h.WriteOK(w)
}

// readiness → pings every component
func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]CheckEntry, len(h.components)),
	}

	for name, component := range h.components {
		entry := check(ctx, component)
		if entry.Status == HealthUnhealthy {
			resp.Status = HealthUnhealthy
			h.Logger.Warn("readiness check failed", "component", name, "error", entry.Message)
		}
		resp.Components[name] = entry
	}
	resp.CheckedAt = time.Now()

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, statusCode, resp)
}

func check(ctx context.Context, component Pinger) CheckEntry {
	if component == nil {
		return CheckEntry{Status: HealthDisabled, CheckedAt: time.Now()}
	}

	start := time.Now()
	err := component.PingContext(ctx)

	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}
