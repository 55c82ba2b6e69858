package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/showcase-studio/engine/internal/api/types"
	"github.com/showcase-studio/engine/internal/models"
	"github.com/showcase-studio/engine/pkg/clock"
)

// ProjectCounter reports the size of the project store.
type ProjectCounter interface {
	CountProjects(ctx context.Context) int
}

type HealthHandler struct {
	clock    clock.Clock
	started  time.Time
	projects ProjectCounter
}

func NewHealthHandler(clk clock.Clock, projects ProjectCounter) *HealthHandler {
	if clk == nil {
		clk = clock.New()
	}
	return &HealthHandler{clock: clk, started: clk.Now(), projects: projects}
}

// Health reports process status and uptime in seconds.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: types.Health{
		Status:    "OK",
		Timestamp: models.FormatTime(now),
		Uptime:    now.Sub(h.started).Seconds(),
	}})
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"status": "ok"}})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	data := types.Health{Status: "ready", Timestamp: models.FormatTime(h.clock.Now())}
	if h.projects != nil {
		n := h.projects.CountProjects(r.Context())
		data.Projects = &n
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: data})
}
