package handler

import (
	"net/http"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ProjectHandler serves tracked repository setup.
type ProjectHandler struct {
	*BaseHandler
	projectUseCase domain.ProjectUseCase
}

func NewProjectHandler(projectUseCase domain.ProjectUseCase, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    NewBaseHandler(logger),
		projectUseCase: projectUseCase,
	}
}

// PostRepositories starts tracking a repository with its maintainers.
func (h *ProjectHandler) PostRepositories(c echo.Context) error {
	logEntry := h.logRequest(c, "init_project")

	var req initRequest
	if err := bindAndValidate(c, &req); err != nil {
		logEntry.WithError(err).Warn("Invalid request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	logEntry = logEntry.WithField("repository", req.Repository)
	logEntry.Info("Initializing project")

	repo, maintainers, err := h.projectUseCase.InitProject(c.Request().Context(), req.Repository, req.Maintainers)
	if err != nil {
		logEntry.WithError(err).Error("Failed to initialize project")
		return errorJSON(c, err)
	}

	logEntry.WithField("maintainers_count", len(maintainers)).Info("Project initialized")
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"repository":  repo,
		"maintainers": maintainers,
	})
}

// GetRepositories lists tracked repositories.
func (h *ProjectHandler) GetRepositories(c echo.Context) error {
	logEntry := h.logRequest(c, "list_repositories")

	repos, err := h.projectUseCase.ListRepositories(c.Request().Context())
	if err != nil {
		logEntry.WithError(err).Error("Failed to list repositories")
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"repositories": repos,
	})
}
