package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/repository"
)

type StatsSource interface {
	Dashboard(ctx context.Context, shopID uuid.UUID) (*repository.DashboardStats, error)
}

type StatsHandler struct {
	stats StatsSource
}

func NewStatsHandler(stats StatsSource) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDFromClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.stats.Dashboard(r.Context(), shopID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	respondData(w, http.StatusOK, stats)
}
