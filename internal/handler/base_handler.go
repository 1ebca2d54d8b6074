package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type BaseHandler struct {
	logger *logrus.Logger
}

func NewBaseHandler(logger *logrus.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

func (h *BaseHandler) logRequest(c echo.Context, operation string) *logrus.Entry {
	fields := logrus.Fields{
		"operation":  operation,
		"method":     c.Request().Method,
		"path":       c.Request().URL.Path,
		"ip":         c.RealIP(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if owner := c.Param("owner"); owner != "" {
		fields["repository"] = owner + "/" + c.Param("name")
	}
	return h.logger.WithFields(fields)
}

// repository returns the owner and name path parameters.
func (h *BaseHandler) repository(c echo.Context) (string, string) {
	return c.Param("owner"), c.Param("name")
}
