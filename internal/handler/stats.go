package handler

import (
	"net/http"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// StatsHandler serves aggregates over collected data.
type StatsHandler struct {
	*BaseHandler
	statsUseCase domain.StatsUseCase
}

func NewStatsHandler(statsUseCase domain.StatsUseCase, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler:  NewBaseHandler(logger),
		statsUseCase: statsUseCase,
	}
}

// GetRepositoryStats returns stored row counts for a repository.
func (h *StatsHandler) GetRepositoryStats(c echo.Context) error {
	owner, name := h.repository(c)
	logEntry := h.logRequest(c, "get_repository_stats")
	logEntry.Info("Getting repository statistics")

	stats, err := h.statsUseCase.GetRepositoryStats(c.Request().Context(), owner, name)
	if err != nil {
		logEntry.WithError(err).Error("Failed to get repository stats")
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

// GetReviewerStats returns review counts per reviewer.
func (h *StatsHandler) GetReviewerStats(c echo.Context) error {
	owner, name := h.repository(c)
	logEntry := h.logRequest(c, "get_reviewer_stats")
	logEntry.Info("Getting reviewer statistics")

	stats, err := h.statsUseCase.GetReviewerStats(c.Request().Context(), owner, name)
	if err != nil {
		logEntry.WithError(err).Error("Failed to get reviewer stats")
		return errorJSON(c, err)
	}

	logEntry.WithField("stats_count", len(stats)).Info("Reviewer stats retrieved")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stats": stats,
	})
}
