package repositories

import (
	"context"

	"leaseboard/internal/kv"
	"leaseboard/internal/models"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Booking, error)
	ListByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]*models.Booking, error)
	ListAll(ctx context.Context) ([]*models.Booking, error)
}

type bookingRepo struct {
	store kv.Store
}

func NewBookingRepository(store kv.Store) BookingRepository {
	return &bookingRepo{store: store}
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return r.store.Put(ctx, bookingKey(booking.ID), booking)
}

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking := &models.Booking{}
	if err := r.store.Get(ctx, bookingKey(id), booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	return r.store.Put(ctx, bookingKey(booking.ID), booking)
}

// ListByProperty fetches the whole booking keyspace and filters in memory.
// Fine at this scale; revisit if booking volume grows past a few thousand.
func (r *bookingRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Booking, error) {
	return r.ListByProperties(ctx, []uuid.UUID{propertyID})
}

func (r *bookingRepo) ListByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]*models.Booking, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[uuid.UUID]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		wanted[id] = true
	}
	bookings := make([]*models.Booking, 0, len(all))
	for _, booking := range all {
		if wanted[booking.PropertyID] {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (r *bookingRepo) ListAll(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	if err := r.store.ListPrefix(ctx, bookingKeyPrefix, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
