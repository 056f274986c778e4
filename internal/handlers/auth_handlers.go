package handlers

import (
	"net/http"

	"leaseboard/internal/common"
	"leaseboard/internal/middleware"
	"leaseboard/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandlers(authService services.AuthService, userService services.UserService) *AuthHandlers {
	return &AuthHandlers{authService: authService, userService: userService}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, err.Error())
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return common.SendValidationError(c, err.Error())
	}

	user, tokens, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":  user.Public(),
		"token": tokens,
	})
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) Signin(c echo.Context) error {
	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, tokens, err := h.authService.Signin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":  user.Public(),
		"token": tokens,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.SendUnauthorizedError(c, err.Error())
	}
	return c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandlers) Signout(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.authService.Signout(c.Request().Context(), req.RefreshToken); err != nil {
		return common.SendServerError(c, "Failed to sign out")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Signed out"})
}

func (h *AuthHandlers) Me(c echo.Context) error {
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
