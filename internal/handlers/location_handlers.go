package handlers

import (
	"net/http"

	"leaseboard/internal/common"
	"leaseboard/internal/locations"

	"github.com/labstack/echo/v4"
)

// LocationHandlers serves the static UAE reference data the listing forms
// are built from. No auth required; everything here is public.
type LocationHandlers struct{}

func NewLocationHandlers() *LocationHandlers {
	return &LocationHandlers{}
}

func (h *LocationHandlers) Emirates(c echo.Context) error {
	names := make([]string, 0, len(locations.Emirates))
	for name := range locations.Emirates {
		names = append(names, name)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"emirates": locations.Emirates,
		"names":    names,
	})
}

func (h *LocationHandlers) Areas(c echo.Context) error {
	emirate := c.Param("emirate")
	if !locations.ValidEmirate(emirate) {
		return common.SendNotFoundError(c, "emirate")
	}
	areas := locations.AreasFor(emirate)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"emirate": emirate,
		"areas":   areas,
		"count":   len(areas),
	})
}

func (h *LocationHandlers) Popular(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"areas": locations.PopularAreas,
	})
}

func (h *LocationHandlers) Amenities(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"amenities": locations.Amenities,
	})
}

func (h *LocationHandlers) PropertyTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"property_types": locations.PropertyTypes,
	})
}

func (h *LocationHandlers) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if len(query) < 2 {
		return common.SendValidationError(c, "query must be at least 2 characters")
	}
	results := locations.Search(query)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}
