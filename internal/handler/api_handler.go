package handler

import (
	"net/http"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type APIHandler struct {
	*ProjectHandler
	*CollectorHandler
	*StatsHandler
}

func NewAPIHandler(
	projectUseCase domain.ProjectUseCase,
	collectorUseCase domain.CollectorUseCase,
	statsUseCase domain.StatsUseCase,
	logger *logrus.Logger,
) *APIHandler {

	return &APIHandler{
		ProjectHandler:   NewProjectHandler(projectUseCase, logger),
		CollectorHandler: NewCollectorHandler(collectorUseCase, logger),
		StatsHandler:     NewStatsHandler(statsUseCase, logger),
	}
}

// RegisterRoutes mounts every endpoint on e and installs the request validator.
func (h *APIHandler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/repositories", h.GetRepositories)
	e.POST("/repositories", h.PostRepositories)

	repo := e.Group("/repositories/:owner/:name")
	repo.GET("/total", h.GetTotal)
	repo.POST("/collect", h.PostCollect)
	repo.POST("/collect/subset", h.PostCollectSubset)
	repo.GET("/stats", h.GetRepositoryStats)
	repo.GET("/stats/reviewers", h.GetReviewerStats)
}
