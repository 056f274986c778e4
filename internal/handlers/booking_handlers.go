package handlers

import (
	"net/http"

	"leaseboard/internal/common"
	"leaseboard/internal/middleware"
	"leaseboard/internal/services"

	"github.com/labstack/echo/v4"
)

type BookingHandlers struct {
	bookingService services.BookingService
}

func NewBookingHandlers(bookingService services.BookingService) *BookingHandlers {
	return &BookingHandlers{bookingService: bookingService}
}

func (h *BookingHandlers) Create(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var req services.BookingCreateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	booking, err := h.bookingService.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandlers) List(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	bookings, err := h.bookingService.ListForUser(c.Request().Context(), userID, c.QueryParam("status"))
	if err != nil {
		return common.SendServerError(c, "Failed to list bookings")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

func (h *BookingHandlers) Get(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	bookingID, err := common.ValidateUUID(c.Param("id"), "booking id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	booking, err := h.bookingService.GetByID(c.Request().Context(), userID, bookingID)
	if err != nil {
		return respondError(c, err, "booking")
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandlers) Update(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	bookingID, err := common.ValidateUUID(c.Param("id"), "booking id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	var req services.BookingUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	booking, err := h.bookingService.Update(c.Request().Context(), userID, bookingID, &req)
	if err != nil {
		return respondError(c, err, "booking")
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandlers) Confirm(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	bookingID, err := common.ValidateUUID(c.Param("id"), "booking id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	booking, err := h.bookingService.Confirm(c.Request().Context(), userID, bookingID)
	if err != nil {
		return respondError(c, err, "booking")
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandlers) Cancel(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	bookingID, err := common.ValidateUUID(c.Param("id"), "booking id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	booking, err := h.bookingService.Cancel(c.Request().Context(), userID, bookingID)
	if err != nil {
		return respondError(c, err, "booking")
	}
	return c.JSON(http.StatusOK, booking)
}
