package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leaseboard/internal/locations"
	"leaseboard/internal/models"
	"leaseboard/internal/repositories"
	"leaseboard/internal/wizard"

	"github.com/google/uuid"
)

// ErrNotOwner is returned when a caller touches a listing they don't own.
var ErrNotOwner = repositories.ErrForbidden

// PropertyCreateRequest carries the fields accepted at creation. Listings
// always start in draft; publish is a separate transition.
type PropertyCreateRequest struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PropertyType string   `json:"property_type"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	MaxGuests    int      `json:"max_guests"`
	AnnualRent   float64  `json:"annual_rent"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
}

// PropertyUpdateRequest uses pointers so absent fields are left untouched.
type PropertyUpdateRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Address      *string    `json:"address"`
	City         *string    `json:"city"`
	State        *string    `json:"state"`
	Country      *string    `json:"country"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	PropertyType *string    `json:"property_type"`
	Bedrooms     *int       `json:"bedrooms"`
	Bathrooms    *float64   `json:"bathrooms"`
	MaxGuests    *int       `json:"max_guests"`
	AnnualRent   *float64   `json:"annual_rent"`
	Amenities    *[]string  `json:"amenities"`
	Images       *[]string  `json:"images"`
	Status       *string    `json:"status"`
	TenantName   *string    `json:"current_tenant_name"`
	LeaseExpiry  *time.Time `json:"lease_expiry_date"`
}

type PropertyService interface {
	Create(ctx context.Context, userID uuid.UUID, req *PropertyCreateRequest) (*models.Property, error)
	GetByID(ctx context.Context, userID, propertyID uuid.UUID) (*models.Property, error)
	Update(ctx context.Context, userID, propertyID uuid.UUID, req *PropertyUpdateRequest) (*models.Property, error)
	Delete(ctx context.Context, userID, propertyID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter models.PropertyFilter) ([]*models.Property, error)
	Publish(ctx context.Context, userID, propertyID uuid.UUID) (*models.Property, error)

	// Image list management used by the upload flow.
	AppendImages(ctx context.Context, userID, propertyID uuid.UUID, urls []string) (*models.Property, error)
	ReorderImages(ctx context.Context, userID, propertyID uuid.UUID, urls []string) (*models.Property, error)
	RemoveImage(ctx context.Context, userID, propertyID uuid.UUID, url string) (*models.Property, error)
}

type propertyService struct {
	properties repositories.PropertyRepository
	bookings   repositories.BookingRepository
}

func NewPropertyService(properties repositories.PropertyRepository, bookings repositories.BookingRepository) PropertyService {
	return &propertyService{properties: properties, bookings: bookings}
}

func (s *propertyService) Create(ctx context.Context, userID uuid.UUID, req *PropertyCreateRequest) (*models.Property, error) {
	if err := validateListingFields(req.Title, req.Address, req.State, req.PropertyType, req.Bedrooms, req.Bathrooms, req.MaxGuests, req.AnnualRent); err != nil {
		return nil, err
	}

	images := req.Images
	if len(images) > models.MaxImagesPerUnit {
		images = images[:models.MaxImagesPerUnit]
	}
	amenities := req.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	if images == nil {
		images = []string{}
	}

	country := req.Country
	if country == "" {
		country = "UAE"
	}

	now := time.Now().UTC()
	property := &models.Property{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Country:      country,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		MaxGuests:    req.MaxGuests,
		AnnualRent:   req.AnnualRent,
		Amenities:    amenities,
		Images:       images,
		Status:       models.PropertyStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.properties.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *propertyService) GetByID(ctx context.Context, userID, propertyID uuid.UUID) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.UserID != userID {
		return nil, ErrNotOwner
	}
	return property, nil
}

func (s *propertyService) Update(ctx context.Context, userID, propertyID uuid.UUID, req *PropertyUpdateRequest) (*models.Property, error) {
	property, err := s.GetByID(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		property.Title = *req.Title
	}
	if req.Description != nil {
		property.Description = req.Description
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.State != nil {
		property.State = *req.State
	}
	if req.Country != nil {
		property.Country = *req.Country
	}
	if req.Latitude != nil {
		property.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		property.Longitude = req.Longitude
	}
	if req.PropertyType != nil {
		if !models.ValidPropertyTypes[*req.PropertyType] {
			return nil, fmt.Errorf("unknown property type %q", *req.PropertyType)
		}
		property.PropertyType = *req.PropertyType
	}
	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = *req.Bathrooms
	}
	if req.MaxGuests != nil {
		property.MaxGuests = *req.MaxGuests
	}
	if req.AnnualRent != nil {
		if *req.AnnualRent < models.MinAnnualRent || *req.AnnualRent > models.MaxAnnualRent {
			return nil, fmt.Errorf("annual rent must be between %.0f and %.0f AED", models.MinAnnualRent, models.MaxAnnualRent)
		}
		property.AnnualRent = *req.AnnualRent
	}
	if req.Amenities != nil {
		property.Amenities = *req.Amenities
	}
	if req.Images != nil {
		images := *req.Images
		if len(images) > models.MaxImagesPerUnit {
			images = images[:models.MaxImagesPerUnit]
		}
		property.Images = images
	}
	if req.Status != nil {
		if !models.ValidPropertyStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown status %q", *req.Status)
		}
		property.Status = *req.Status
	}
	if req.TenantName != nil {
		property.CurrentTenantName = req.TenantName
	}
	if req.LeaseExpiry != nil {
		property.LeaseExpiryDate = req.LeaseExpiry
	}

	if err := validateListingFields(property.Title, property.Address, property.State, property.PropertyType, property.Bedrooms, property.Bathrooms, property.MaxGuests, property.AnnualRent); err != nil {
		return nil, err
	}

	property.UpdatedAt = time.Now().UTC()
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// Delete refuses while pending or confirmed bookings still reference the
// listing; the KV store never cascades.
func (s *propertyService) Delete(ctx context.Context, userID, propertyID uuid.UUID) error {
	if _, err := s.GetByID(ctx, userID, propertyID); err != nil {
		return err
	}
	bookings, err := s.bookings.ListByProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	for _, b := range bookings {
		if b.Active() {
			return fmt.Errorf("property has active bookings and cannot be deleted")
		}
	}
	return s.properties.Delete(ctx, propertyID)
}

func (s *propertyService) List(ctx context.Context, userID uuid.UUID, filter models.PropertyFilter) ([]*models.Property, error) {
	properties, err := s.properties.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filter.Status == "" && filter.PropertyType == "" {
		return properties, nil
	}
	filtered := make([]*models.Property, 0, len(properties))
	for _, p := range properties {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.PropertyType != "" && p.PropertyType != filter.PropertyType {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// Publish re-runs the full wizard review over the stored listing and, when
// clean, transitions it to active.
func (s *propertyService) Publish(ctx context.Context, userID, propertyID uuid.UUID) (*models.Property, error) {
	property, err := s.GetByID(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	if property.Description == nil || strings.TrimSpace(*property.Description) == "" {
		return nil, fmt.Errorf("a description is required before publishing")
	}
	if len(property.Images) == 0 {
		return nil, fmt.Errorf("at least one image is required before publishing")
	}

	payload := &wizard.Payload{
		Title:        property.Title,
		PropertyType: property.PropertyType,
		Bedrooms:     property.Bedrooms,
		Bathrooms:    property.Bathrooms,
		MaxGuests:    property.MaxGuests,
		Address:      property.Address,
		City:         property.City,
		State:        property.State,
		Country:      property.Country,
		Latitude:     property.Latitude,
		Longitude:    property.Longitude,
		AnnualRent:   property.AnnualRent,
		Amenities:    property.Amenities,
		Images:       property.Images,
	}
	result := wizard.ValidateStep(wizard.StepReview, payload)
	if !result.Valid {
		for field, msg := range result.Errors {
			return nil, fmt.Errorf("%s: %s", field, msg)
		}
	}

	property.Status = models.PropertyStatusActive
	property.UpdatedAt = time.Now().UTC()
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// AppendImages adds uploaded URLs, silently truncating past the cap.
func (s *propertyService) AppendImages(ctx context.Context, userID, propertyID uuid.UUID, urls []string) (*models.Property, error) {
	property, err := s.GetByID(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	images := append(property.Images, urls...)
	if len(images) > models.MaxImagesPerUnit {
		images = images[:models.MaxImagesPerUnit]
	}
	property.Images = images
	property.UpdatedAt = time.Now().UTC()
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// ReorderImages replaces the image list with the given ordering. Every URL
// must already belong to the listing.
func (s *propertyService) ReorderImages(ctx context.Context, userID, propertyID uuid.UUID, urls []string) (*models.Property, error) {
	property, err := s.GetByID(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(property.Images))
	for _, img := range property.Images {
		existing[img] = true
	}
	if len(urls) != len(property.Images) {
		return nil, fmt.Errorf("reorder list must contain exactly the listing's images")
	}
	for _, u := range urls {
		if !existing[u] {
			return nil, fmt.Errorf("image %q does not belong to this listing", u)
		}
	}
	property.Images = urls
	property.UpdatedAt = time.Now().UTC()
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *propertyService) RemoveImage(ctx context.Context, userID, propertyID uuid.UUID, url string) (*models.Property, error) {
	property, err := s.GetByID(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	images := make([]string, 0, len(property.Images))
	for _, img := range property.Images {
		if img != url {
			images = append(images, img)
		}
	}
	property.Images = images
	property.UpdatedAt = time.Now().UTC()
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func validateListingFields(title, address, state, propertyType string, bedrooms int, bathrooms float64, maxGuests int, annualRent float64) error {
	title = strings.TrimSpace(title)
	if len(title) < models.MinTitleLen || len(title) > models.MaxTitleLen {
		return fmt.Errorf("title must be between %d and %d characters", models.MinTitleLen, models.MaxTitleLen)
	}
	if len(strings.TrimSpace(address)) < 5 {
		return fmt.Errorf("address must be at least 5 characters")
	}
	if !locations.ValidEmirate(state) {
		return fmt.Errorf("state must be a UAE emirate")
	}
	if !models.ValidPropertyTypes[propertyType] {
		return fmt.Errorf("unknown property type %q", propertyType)
	}
	if bedrooms < 0 || bedrooms > models.MaxBedrooms {
		return fmt.Errorf("bedrooms must be between 0 and %d", models.MaxBedrooms)
	}
	if bathrooms < 0 || bathrooms > models.MaxBathrooms {
		return fmt.Errorf("bathrooms must be between 0 and %.0f", models.MaxBathrooms)
	}
	if bathrooms != float64(int(bathrooms*2))/2 {
		return fmt.Errorf("bathrooms must be in half steps")
	}
	if maxGuests < 1 || maxGuests > models.MaxGuests {
		return fmt.Errorf("max guests must be between 1 and %d", models.MaxGuests)
	}
	if annualRent < models.MinAnnualRent || annualRent > models.MaxAnnualRent {
		return fmt.Errorf("annual rent must be between %.0f and %.0f AED", models.MinAnnualRent, models.MaxAnnualRent)
	}
	return nil
}
