package handlers

import (
	"net/http"
	"strconv"
	"time"

	"leaseboard/internal/analytics"
	"leaseboard/internal/common"
	"leaseboard/internal/market"
	"leaseboard/internal/middleware"
	"leaseboard/internal/services"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandlers struct {
	analyticsService analytics.Service
	marketService    market.Service
	propertyService  services.PropertyService
}

func NewAnalyticsHandlers(analyticsService analytics.Service, marketService market.Service, propertyService services.PropertyService) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		marketService:    marketService,
		propertyService:  propertyService,
	}
}

// Portfolio returns the aggregated dashboard for the caller's listings.
// Period accepts 12months (default), 3months, or all.
func (h *AnalyticsHandlers) Portfolio(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	period := c.QueryParam("period")
	if period == "" {
		period = "12months"
	}
	result, err := h.analyticsService.Portfolio(c.Request().Context(), userID, period)
	if err != nil {
		return common.SendServerError(c, "Failed to compute portfolio analytics")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandlers) Market(c echo.Context) error {
	if _, err := middleware.RequireUserID(c); err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	area := c.QueryParam("area")
	if area == "" {
		area = market.AreaMarina
	}
	propertyType := c.QueryParam("property_type")
	if propertyType == "" {
		propertyType = "apartment"
	}
	return c.JSON(http.StatusOK, h.marketService.Benchmarks(area, propertyType))
}

type PricingOptimizationRequest struct {
	BaseRate     float64 `json:"base_rate"`
	Area         string  `json:"area"`
	Date         string  `json:"date"`
	PropertyType string  `json:"property_type"`
	Bedrooms     int     `json:"bedrooms"`
}

func (h *AnalyticsHandlers) PricingOptimization(c echo.Context) error {
	if _, err := middleware.RequireUserID(c); err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	var req PricingOptimizationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.BaseRate <= 0 {
		return common.SendValidationError(c, "base_rate must be positive")
	}
	if req.Area == "" {
		req.Area = market.AreaMarina
	}
	if req.PropertyType == "" {
		req.PropertyType = "apartment"
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return common.SendValidationError(c, "date must be formatted YYYY-MM-DD")
		}
		date = parsed
	}

	price := h.marketService.CalculateOptimalPrice(req.BaseRate, req.Area, date, req.PropertyType, req.Bedrooms)
	return c.JSON(http.StatusOK, price)
}

// PricingCalendar projects day-by-day suggested rates for one listing.
func (h *AnalyticsHandlers) PricingCalendar(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("propertyID"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	property, err := h.propertyService.GetByID(c.Request().Context(), userID, propertyID)
	if err != nil {
		return respondError(c, err, "property")
	}

	daysAhead := 90
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			return common.SendValidationError(c, "days must be between 1 and 365")
		}
		daysAhead = parsed
	}

	area := analytics.AreaForProperty(property)
	calendar := h.marketService.PricingCalendar(property.NightlyRate(), area, daysAhead, property.PropertyType, property.Bedrooms)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"property_id": property.ID,
		"area":        area,
		"base_rate":   property.NightlyRate(),
		"calendar":    calendar,
	})
}

// MarketComparison places one listing against its area benchmarks.
func (h *AnalyticsHandlers) MarketComparison(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("propertyID"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	property, err := h.propertyService.GetByID(c.Request().Context(), userID, propertyID)
	if err != nil {
		return respondError(c, err, "property")
	}

	area := analytics.AreaForProperty(property)
	benchmarks := h.marketService.Benchmarks(area, property.PropertyType)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"property_id":   property.ID,
		"area":          area,
		"property_rate": property.NightlyRate(),
		"benchmarks":    benchmarks,
	})
}

func (h *AnalyticsHandlers) Property(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	propertyID, err := common.ValidateUUID(c.Param("propertyID"), "property id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	period := c.QueryParam("period")
	if period == "" {
		period = "12months"
	}
	result, err := h.analyticsService.PropertyAnalytics(c.Request().Context(), userID, propertyID, period)
	if err != nil {
		return respondError(c, err, "property")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandlers) DashboardOverview(c echo.Context) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		return common.SendUnauthorizedError(c, "")
	}
	result, err := h.analyticsService.DashboardOverview(c.Request().Context(), userID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute dashboard overview")
	}
	return c.JSON(http.StatusOK, result)
}
