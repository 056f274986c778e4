package models

import (
	"time"

	"github.com/google/uuid"
)

// Property status lifecycle.
const (
	PropertyStatusDraft     = "draft"
	PropertyStatusActive    = "active"
	PropertyStatusInactive  = "inactive"
	PropertyStatusLeased    = "leased"
	PropertyStatusSuspended = "suspended"
)

// ValidPropertyStatuses enumerates the accepted listing statuses.
var ValidPropertyStatuses = map[string]bool{
	PropertyStatusDraft:     true,
	PropertyStatusActive:    true,
	PropertyStatusInactive:  true,
	PropertyStatusLeased:    true,
	PropertyStatusSuspended: true,
}

// ValidPropertyTypes enumerates the UAE listing types.
var ValidPropertyTypes = map[string]bool{
	"apartment":       true,
	"villa":           true,
	"townhouse":       true,
	"penthouse":       true,
	"studio":          true,
	"duplex":          true,
	"loft":            true,
	"compound":        true,
	"chalet":          true,
	"hotel_apartment": true,
	"whole_building":  true,
	"office":          true,
	"retail":          true,
	"warehouse":       true,
	"land":            true,
}

// Listing constraints shared by the wizard validator and the create handler.
const (
	MinTitleLen      = 3
	MaxTitleLen      = 200
	MinAnnualRent    = 10000.0
	MaxAnnualRent    = 10000000.0
	MaxBedrooms      = 20
	MaxBathrooms     = 20.0
	MaxGuests        = 50
	MaxImagesPerUnit = 10
)

type Property struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`

	PropertyType string  `json:"property_type"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	MaxGuests    int     `json:"max_guests"`
	AnnualRent   float64 `json:"annual_rent"`

	Amenities []string `json:"amenities"`
	Images    []string `json:"images"`
	Status    string   `json:"status"`

	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"review_count"`
	BookingCount int     `json:"booking_count"`
	TotalRevenue float64 `json:"total_revenue"`

	CurrentTenantName *string    `json:"current_tenant_name,omitempty"`
	LeaseExpiryDate   *time.Time `json:"lease_expiry_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NightlyRate derives the short-stay rate used for booking amounts from the
// annual rent.
func (p *Property) NightlyRate() float64 {
	return p.AnnualRent / 365.0
}

// PropertyFilter holds optional list filters.
type PropertyFilter struct {
	Status       string `query:"status"`
	PropertyType string `query:"property_type"`
}
