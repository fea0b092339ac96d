package handlers

import (
	"errors"
	"net/http"

	"servicehub/internal/authclient"
	"servicehub/internal/common"
	"servicehub/internal/repositories"
	"servicehub/internal/services"

	"github.com/labstack/echo/v4"
)

// respondServiceError maps service-layer failures onto the error envelope.
func respondServiceError(c echo.Context, err error, resource string) error {
	var fieldErrs common.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		return common.SendValidationError(c, fieldErrs)
	case errors.Is(err, authclient.ErrUpstreamUnavailable):
		return c.JSON(http.StatusServiceUnavailable,
			common.CreateErrorResponse("UPSTREAM_UNAVAILABLE", "Auth service unavailable", nil))
	case errors.Is(err, repositories.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, repositories.ErrDuplicateReference):
		return common.SendConflictError(c, "Duplicate reference, retry the request")
	case errors.Is(err, services.ErrPaymentPostingFailed):
		return common.SendServerError(c, "Payment posting failed, safe to retry")
	default:
		return common.SendServerError(c, err.Error())
	}
}
