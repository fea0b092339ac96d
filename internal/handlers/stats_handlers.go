package handlers

import (
	"net/http"

	"servicehub/internal/services"

	"github.com/labstack/echo/v4"
)

type StatsHandlers struct {
	statsService services.StatsService
}

func NewStatsHandlers(statsService services.StatsService) *StatsHandlers {
	return &StatsHandlers{statsService: statsService}
}

// GetStats handles GET /v1/stats
func (h *StatsHandlers) GetStats(c echo.Context) error {
	stats, err := h.statsService.Snapshot(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err, "stats")
	}
	return c.JSON(http.StatusOK, stats)
}
