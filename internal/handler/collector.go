package handler

import (
	"net/http"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CollectorHandler exposes collection runs. Runs are synchronous and are
// canceled when the client goes away.
type CollectorHandler struct {
	*BaseHandler
	collectorUseCase domain.CollectorUseCase
}

func NewCollectorHandler(collectorUseCase domain.CollectorUseCase, logger *logrus.Logger) *CollectorHandler {
	return &CollectorHandler{
		BaseHandler:      NewBaseHandler(logger),
		collectorUseCase: collectorUseCase,
	}
}

// GetTotal resolves the amount of remote work without collecting.
func (h *CollectorHandler) GetTotal(c echo.Context) error {
	owner, name := h.repository(c)
	logEntry := h.logRequest(c, "resolve_total")

	total, err := h.collectorUseCase.ResolveTotal(c.Request().Context(), owner, name)
	if err != nil {
		logEntry.WithError(err).Error("Failed to resolve total")
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, total)
}

// PostCollect runs a full collection.
func (h *CollectorHandler) PostCollect(c echo.Context) error {
	owner, name := h.repository(c)
	logEntry := h.logRequest(c, "collect_all")

	var req collectRequest
	if err := bindAndValidate(c, &req); err != nil {
		logEntry.WithError(err).Warn("Invalid request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	logEntry.WithField("concurrency", req.Concurrency).Info("Starting collection")

	summary, err := h.collectorUseCase.CollectAll(c.Request().Context(), owner, name, req.Concurrency)
	return h.summaryJSON(c, logEntry, summary, err)
}

// PostCollectSubset re-collects reviews and events of stored pull requests.
func (h *CollectorHandler) PostCollectSubset(c echo.Context) error {
	owner, name := h.repository(c)
	logEntry := h.logRequest(c, "collect_subset")

	var req subsetRequest
	if err := bindAndValidate(c, &req); err != nil {
		logEntry.WithError(err).Warn("Invalid request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	logEntry.WithField("numbers_count", len(req.Numbers)).Info("Starting subset collection")

	summary, err := h.collectorUseCase.CollectSubset(c.Request().Context(), owner, name, req.Numbers)
	return h.summaryJSON(c, logEntry, summary, err)
}

// summaryJSON reports a finished run. A run that stopped early still returns
// its partial summary next to the error.
func (h *CollectorHandler) summaryJSON(c echo.Context, logEntry *logrus.Entry, summary *domain.CollectionSummary, err error) error {
	if err != nil {
		logEntry.WithError(err).Error("Collection stopped")
		if summary == nil {
			return errorJSON(c, err)
		}
		httpErr := domain.HTTPError{Code: "INTERNAL_ERROR", Message: err.Error()}
		if _, mapped, exists := domain.ToHTTPError(err); exists {
			httpErr.Code = mapped.Code
		}
		return c.JSON(getHTTPStatusCode(err), map[string]interface{}{
			"error":   httpErr,
			"summary": summary,
		})
	}

	logEntry.WithFields(logrus.Fields{
		"run_id":        summary.RunID,
		"pull_requests": summary.PullRequests,
		"failures":      len(summary.Failures),
	}).Info("Collection finished")
	return c.JSON(http.StatusOK, summary)
}
