package handler

import (
	"errors"
	"net/http"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/labstack/echo/v4"
)

// Request bodies

type initRequest struct {
	Repository  string   `json:"repository" validate:"required"`
	Maintainers []string `json:"maintainers" validate:"required,min=1,dive,required"`
}

type collectRequest struct {
	Concurrency int `json:"concurrency" validate:"min=0,max=64"`
}

type subsetRequest struct {
	Numbers []int `json:"numbers" validate:"omitempty,dive,gt=0"`
}

func toErrorResponse(code, message string) domain.ErrorResponse {
	return domain.ErrorResponse{
		Error: domain.HTTPError{
			Code:    code,
			Message: message,
		},
	}
}

func getHTTPStatusCode(err error) int {
	switch {
	// Conflict errors (409)
	case errors.Is(err, domain.ErrRepositoryExists),
		errors.Is(err, domain.ErrPullRequestExists),
		errors.Is(err, domain.ErrCountMismatch):
		return http.StatusConflict

	// Not Found errors (404)
	case errors.Is(err, domain.ErrRepositoryNotFound),
		errors.Is(err, domain.ErrPullRequestNotFound):
		return http.StatusNotFound

	// Bad Request errors (400)
	case errors.Is(err, domain.ErrInvalidRepositoryPath),
		errors.Is(err, domain.ErrInvalidMaintainer),
		errors.Is(err, domain.ErrInvalidNumber):
		return http.StatusBadRequest

	// Upstream errors (502)
	case errors.Is(err, domain.ErrTransientFetch),
		errors.Is(err, domain.ErrParse):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// errorJSON writes err as an API error body. Known domain errors keep their
// wrapped detail in the message.
func errorJSON(c echo.Context, err error) error {
	if _, httpErr, exists := domain.ToHTTPError(err); exists {
		httpErr.Message = err.Error()
		return c.JSON(getHTTPStatusCode(err), domain.ErrorResponse{Error: httpErr})
	}
	return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
}

// bindAndValidate decodes the body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
