package handlers

import (
	"errors"

	"leaseboard/internal/common"
	"leaseboard/internal/kv"
	"leaseboard/internal/repositories"
	"leaseboard/internal/services"

	"github.com/labstack/echo/v4"
)

// respondError maps service and repository errors onto the JSON error
// envelope. Unknown errors are treated as client errors: the services
// surface validation failures as plain error values.
func respondError(c echo.Context, err error, resource string) error {
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, repositories.ErrForbidden):
		return common.SendForbiddenError(c, "")
	case errors.Is(err, services.ErrInvalidCredentials):
		return common.SendUnauthorizedError(c, err.Error())
	default:
		return common.SendClientError(c, err.Error())
	}
}
