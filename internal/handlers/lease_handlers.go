package handlers

import (
	"net/http"

	"leaseboard/internal/common"
	"leaseboard/internal/middleware"
	"leaseboard/internal/models"
	"leaseboard/internal/services"

	"github.com/labstack/echo/v4"
)

type LeaseHandlers struct {
	leaseService services.LeaseService
}

func NewLeaseHandlers(leaseService services.LeaseService) *LeaseHandlers {
	return &LeaseHandlers{leaseService: leaseService}
}

func (h *LeaseHandlers) Create(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var req services.LeaseCreateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	lease, err := h.leaseService.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusCreated, lease)
}

func (h *LeaseHandlers) List(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var filter models.LeaseFilter
	if err := c.Bind(&filter); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	leases, err := h.leaseService.List(c.Request().Context(), userID, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list leases")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"leases": leases,
		"count":  len(leases),
	})
}

func (h *LeaseHandlers) Get(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	leaseID, err := common.ValidateUUID(c.Param("id"), "lease id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	lease, err := h.leaseService.GetByID(c.Request().Context(), userID, leaseID)
	if err != nil {
		return respondError(c, err, "lease")
	}
	return c.JSON(http.StatusOK, lease)
}

func (h *LeaseHandlers) Update(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	leaseID, err := common.ValidateUUID(c.Param("id"), "lease id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	var req services.LeaseUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	lease, err := h.leaseService.Update(c.Request().Context(), userID, leaseID, &req)
	if err != nil {
		return respondError(c, err, "lease")
	}
	return c.JSON(http.StatusOK, lease)
}

func (h *LeaseHandlers) Delete(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	leaseID, err := common.ValidateUUID(c.Param("id"), "lease id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	if err := h.leaseService.Delete(c.Request().Context(), userID, leaseID); err != nil {
		return respondError(c, err, "lease")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Lease deleted"})
}
