package handlers

import (
	"encoding/json"
	"net/http"

	"leaseboard/internal/common"
	"leaseboard/internal/middleware"
	"leaseboard/internal/models"
	"leaseboard/internal/services"
	"leaseboard/internal/wizard"

	"github.com/labstack/echo/v4"
)

type PropertyHandlers struct {
	propertyService services.PropertyService
}

func NewPropertyHandlers(propertyService services.PropertyService) *PropertyHandlers {
	return &PropertyHandlers{propertyService: propertyService}
}

func (h *PropertyHandlers) Create(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var req services.PropertyCreateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	property, err := h.propertyService.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandlers) List(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var filter models.PropertyFilter
	if err := c.Bind(&filter); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	properties, err := h.propertyService.List(c.Request().Context(), userID, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list properties")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"properties": properties,
		"count":      len(properties),
	})
}

func (h *PropertyHandlers) Get(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	property, err := h.propertyService.GetByID(c.Request().Context(), userID, propertyID)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusOK, property)
}

func (h *PropertyHandlers) Update(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	var req services.PropertyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	property, err := h.propertyService.Update(c.Request().Context(), userID, propertyID, &req)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusOK, property)
}

func (h *PropertyHandlers) Delete(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	if err := h.propertyService.Delete(c.Request().Context(), userID, propertyID); err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Property deleted"})
}

func (h *PropertyHandlers) Publish(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	property, err := h.propertyService.Publish(c.Request().Context(), userID, propertyID)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusOK, property)
}

// WizardValidateRequest carries one step name plus the accumulated flat
// form payload.
type WizardValidateRequest struct {
	Step string          `json:"step"`
	Data json.RawMessage `json:"data"`
}

func (h *PropertyHandlers) WizardValidate(c echo.Context) error {
	var req WizardValidateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !wizard.ValidStep(req.Step) {
		return common.SendValidationError(c, "unknown wizard step")
	}
	payload, err := wizard.ParsePayload(req.Data)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, wizard.ValidateStep(req.Step, payload))
}
