package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"leaseboard/internal/models"
	"leaseboard/internal/repositories"

	"github.com/google/uuid"
)

// ErrDatesUnavailable is returned when a requested stay overlaps an active
// booking on the same unit.
var ErrDatesUnavailable = fmt.Errorf("requested dates overlap an existing booking")

type BookingCreateRequest struct {
	PropertyID      uuid.UUID `json:"property_id"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	GuestPhone      *string   `json:"guest_phone"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Guests          int       `json:"guests"`
	TotalAmount     *float64  `json:"total_amount"`
	SpecialRequests *string   `json:"special_requests"`
}

type BookingUpdateRequest struct {
	GuestName       *string    `json:"guest_name"`
	GuestEmail      *string    `json:"guest_email"`
	GuestPhone      *string    `json:"guest_phone"`
	CheckIn         *time.Time `json:"check_in"`
	CheckOut        *time.Time `json:"check_out"`
	Guests          *int       `json:"guests"`
	TotalAmount     *float64   `json:"total_amount"`
	Status          *string    `json:"status"`
	PaymentStatus   *string    `json:"payment_status"`
	SpecialRequests *string    `json:"special_requests"`
}

type BookingService interface {
	Create(ctx context.Context, userID uuid.UUID, req *BookingCreateRequest) (*models.Booking, error)
	GetByID(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, userID, bookingID uuid.UUID, req *BookingUpdateRequest) (*models.Booking, error)
	Confirm(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error)
	ListForUser(ctx context.Context, userID uuid.UUID, status string) ([]*models.Booking, error)
	ListForProperty(ctx context.Context, userID, propertyID uuid.UUID) ([]*models.Booking, error)
}

type bookingService struct {
	bookings   repositories.BookingRepository
	properties repositories.PropertyRepository
	users      repositories.UserRepository
}

func NewBookingService(bookings repositories.BookingRepository, properties repositories.PropertyRepository, users repositories.UserRepository) BookingService {
	return &bookingService{bookings: bookings, properties: properties, users: users}
}

func (s *bookingService) Create(ctx context.Context, userID uuid.UUID, req *BookingCreateRequest) (*models.Booking, error) {
	property, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.UserID != userID {
		return nil, ErrNotOwner
	}
	if property.Status != models.PropertyStatusActive {
		return nil, fmt.Errorf("bookings can only be made against active listings")
	}

	if req.GuestName == "" {
		return nil, fmt.Errorf("guest name is required")
	}
	if req.GuestEmail == "" {
		return nil, fmt.Errorf("guest email is required")
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, fmt.Errorf("check_out must be after check_in")
	}
	if req.Guests < 1 {
		return nil, fmt.Errorf("guests must be at least 1")
	}
	if req.Guests > property.MaxGuests {
		return nil, fmt.Errorf("guests cannot exceed the unit's capacity of %d", property.MaxGuests)
	}

	existing, err := s.bookings.ListByProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	for _, b := range existing {
		if b.Active() && b.Overlaps(req.CheckIn, req.CheckOut) {
			return nil, ErrDatesUnavailable
		}
	}

	nights := int(req.CheckOut.Sub(req.CheckIn).Hours() / 24)
	if nights < 1 {
		return nil, fmt.Errorf("stay must be at least one night")
	}
	// Rounded to fils.
	amount := math.Round(property.NightlyRate()*float64(nights)*100) / 100
	if req.TotalAmount != nil {
		amount = *req.TotalAmount
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:              uuid.New(),
		PropertyID:      req.PropertyID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Nights:          nights,
		Guests:          req.Guests,
		TotalAmount:     amount,
		Status:          models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.decorate(booking, property)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	property, err := s.ownedProperty(ctx, userID, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	s.decorate(booking, property)
	return booking, nil
}

func (s *bookingService) Update(ctx context.Context, userID, bookingID uuid.UUID, req *BookingUpdateRequest) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	property, err := s.ownedProperty(ctx, userID, booking.PropertyID)
	if err != nil {
		return nil, err
	}

	if req.GuestName != nil {
		booking.GuestName = *req.GuestName
	}
	if req.GuestEmail != nil {
		booking.GuestEmail = *req.GuestEmail
	}
	if req.GuestPhone != nil {
		booking.GuestPhone = req.GuestPhone
	}
	if req.CheckIn != nil {
		booking.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		booking.CheckOut = *req.CheckOut
	}
	if !booking.CheckOut.After(booking.CheckIn) {
		return nil, fmt.Errorf("check_out must be after check_in")
	}
	if req.CheckIn != nil || req.CheckOut != nil {
		// Re-derive stay length and re-check the calendar.
		booking.Nights = int(booking.CheckOut.Sub(booking.CheckIn).Hours() / 24)
		existing, err := s.bookings.ListByProperty(ctx, booking.PropertyID)
		if err != nil {
			return nil, err
		}
		for _, other := range existing {
			if other.ID != booking.ID && other.Active() && other.Overlaps(booking.CheckIn, booking.CheckOut) {
				return nil, ErrDatesUnavailable
			}
		}
		if req.TotalAmount == nil {
			booking.TotalAmount = math.Round(property.NightlyRate()*float64(booking.Nights)*100) / 100
		}
	}
	if req.Guests != nil {
		if *req.Guests < 1 || *req.Guests > property.MaxGuests {
			return nil, fmt.Errorf("guests must be between 1 and %d", property.MaxGuests)
		}
		booking.Guests = *req.Guests
	}
	if req.TotalAmount != nil {
		booking.TotalAmount = *req.TotalAmount
	}
	if req.Status != nil {
		if !models.ValidBookingStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown booking status %q", *req.Status)
		}
		booking.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		if !models.ValidPaymentStatuses[*req.PaymentStatus] {
			return nil, fmt.Errorf("unknown payment status %q", *req.PaymentStatus)
		}
		booking.PaymentStatus = *req.PaymentStatus
	}
	if req.SpecialRequests != nil {
		booking.SpecialRequests = req.SpecialRequests
	}

	booking.UpdatedAt = time.Now().UTC()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.decorate(booking, property)
	return booking, nil
}

func (s *bookingService) Confirm(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	property, err := s.ownedProperty(ctx, userID, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, fmt.Errorf("only pending bookings can be confirmed")
	}

	now := time.Now().UTC()
	booking.Status = models.BookingStatusConfirmed
	booking.UpdatedAt = now
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	property.BookingCount++
	property.TotalRevenue += booking.TotalAmount
	property.UpdatedAt = now
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}

	if owner, err := s.users.GetByID(ctx, property.UserID); err == nil {
		owner.TotalRevenue += booking.TotalAmount
		owner.UpdatedAt = now
		if err := s.users.Update(ctx, owner); err != nil {
			log.Printf("WARN: failed to update owner revenue for %s: %v", owner.ID, err)
		}
	}

	s.decorate(booking, property)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	property, err := s.ownedProperty(ctx, userID, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusCompleted || booking.Status == models.BookingStatusCancelled {
		return nil, fmt.Errorf("booking is already %s", booking.Status)
	}

	now := time.Now().UTC()
	wasConfirmed := booking.Status == models.BookingStatusConfirmed
	booking.Status = models.BookingStatusCancelled
	if booking.PaymentStatus == models.PaymentStatusPaid {
		booking.PaymentStatus = models.PaymentStatusRefunded
	}
	booking.UpdatedAt = now
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	if wasConfirmed {
		property.TotalRevenue -= booking.TotalAmount
		if property.TotalRevenue < 0 {
			property.TotalRevenue = 0
		}
		if property.BookingCount > 0 {
			property.BookingCount--
		}
		property.UpdatedAt = now
		if err := s.properties.Update(ctx, property); err != nil {
			return nil, err
		}
		if owner, err := s.users.GetByID(ctx, property.UserID); err == nil {
			owner.TotalRevenue -= booking.TotalAmount
			if owner.TotalRevenue < 0 {
				owner.TotalRevenue = 0
			}
			owner.UpdatedAt = now
			if err := s.users.Update(ctx, owner); err != nil {
				log.Printf("WARN: failed to update owner revenue for %s: %v", owner.ID, err)
			}
		}
	}

	s.decorate(booking, property)
	return booking, nil
}

// ListForUser aggregates bookings across all of the user's listings.
func (s *bookingService) ListForUser(ctx context.Context, userID uuid.UUID, status string) ([]*models.Booking, error) {
	properties, err := s.properties.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Property, len(properties))
	ids := make([]uuid.UUID, 0, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	bookings, err := s.bookings.ListByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if status != "" && b.Status != status {
			continue
		}
		s.decorate(b, byID[b.PropertyID])
		out = append(out, b)
	}
	return out, nil
}

func (s *bookingService) ListForProperty(ctx context.Context, userID, propertyID uuid.UUID) ([]*models.Booking, error) {
	property, err := s.ownedProperty(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		s.decorate(b, property)
	}
	return bookings, nil
}

func (s *bookingService) ownedProperty(ctx context.Context, userID, propertyID uuid.UUID) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.UserID != userID {
		return nil, ErrNotOwner
	}
	return property, nil
}

func (s *bookingService) decorate(booking *models.Booking, property *models.Property) {
	if property == nil {
		return
	}
	booking.PropertyTitle = property.Title
	booking.PropertyAddress = property.Address
}
