package handlers

import (
	"net/http"

	"leaseboard/internal/common"
	"leaseboard/internal/middleware"
	"leaseboard/internal/models"
	"leaseboard/internal/services"

	"github.com/labstack/echo/v4"
)

type UserHandlers struct {
	userService services.UserService
	authService services.AuthService
}

func NewUserHandlers(userService services.UserService, authService services.AuthService) *UserHandlers {
	return &UserHandlers{userService: userService, authService: authService}
}

func (h *UserHandlers) GetProfile(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	user, err := h.userService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) UpdateProfile(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var req services.ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	user, err := h.userService.UpdateProfile(c.Request().Context(), userID, &req)
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) UpdateSettings(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var settings models.UserSettings
	if err := c.Bind(&settings); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	user, err := h.userService.UpdateSettings(c.Request().Context(), userID, settings)
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) GetNotifications(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	notifications, err := h.userService.GetNotificationSettings(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (h *UserHandlers) UpdateNotifications(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var req map[string]bool
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	notifications, err := h.userService.UpdateNotificationSettings(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": notifications})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *UserHandlers) ChangePassword(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.authService.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed"})
}
