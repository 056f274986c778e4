package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"leaseboard/internal/kv"
	"leaseboard/internal/models"
	"leaseboard/internal/repositories"

	"github.com/google/uuid"
)

// testEnv wires the service layer over an in-memory store so suites can
// exercise real repository behavior without Postgres.
type testEnv struct {
	store      kv.Store
	cache      *fakeCache
	users      repositories.UserRepository
	properties repositories.PropertyRepository
	bookings   repositories.BookingRepository
	leases     repositories.LeaseRepository
}

func newTestEnv() *testEnv {
	store := kv.NewMemoryStore()
	users := repositories.NewUserRepository(store)
	return &testEnv{
		store:      store,
		cache:      newFakeCache(),
		users:      users,
		properties: repositories.NewPropertyRepository(store, users),
		bookings:   repositories.NewBookingRepository(store),
		leases:     repositories.NewLeaseRepository(store),
	}
}

func (e *testEnv) seedUser(ctx context.Context, name string) *models.User {
	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Settings:  models.DefaultUserSettings(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.users.Create(ctx, user); err != nil {
		panic(err)
	}
	return user
}

func (e *testEnv) seedProperty(ctx context.Context, ownerID uuid.UUID, status string) *models.Property {
	now := time.Now().UTC()
	desc := "Bright one-bedroom with full marina view"
	property := &models.Property{
		ID:           uuid.New(),
		UserID:       ownerID,
		Title:        "Marina view one-bedroom",
		Description:  &desc,
		Address:      "Dubai Marina Walk, Tower 4",
		City:         "Dubai",
		State:        "Dubai",
		Country:      "UAE",
		PropertyType: "apartment",
		Bedrooms:     1,
		Bathrooms:    1.5,
		MaxGuests:    3,
		AnnualRent:   85000,
		Amenities:    []string{"Central A/C"},
		Images:       []string{"https://cdn.example.com/1.jpg"},
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.properties.Create(ctx, property); err != nil {
		panic(err)
	}
	return property
}

func (e *testEnv) seedBooking(ctx context.Context, propertyID uuid.UUID, status string, checkIn, checkOut time.Time) *models.Booking {
	now := time.Now().UTC()
	booking := &models.Booking{
		ID:            uuid.New(),
		PropertyID:    propertyID,
		GuestName:     "Guest",
		GuestEmail:    "guest@example.com",
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        int(checkOut.Sub(checkIn).Hours() / 24),
		Guests:        2,
		TotalAmount:   1000,
		Status:        status,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.bookings.Create(ctx, booking); err != nil {
		panic(err)
	}
	return booking
}

// fakeCache satisfies caching.CacheService with plain maps.
type fakeCache struct {
	mu        sync.Mutex
	strings   map[string]string
	analytics map[string]map[string]interface{}
	counters  map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		strings:   make(map[string]string),
		analytics: make(map[string]map[string]interface{}),
		counters:  make(map[string]int64),
	}
}

func (f *fakeCache) GetUserAnalytics(_ context.Context, userID uuid.UUID, section string) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analytics[userID.String()+":"+section], nil
}

func (f *fakeCache) SetUserAnalytics(_ context.Context, userID uuid.UUID, section string, analytics map[string]interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analytics[userID.String()+":"+section] = analytics
	return nil
}

func (f *fakeCache) InvalidateUserAnalytics(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.analytics {
		if len(k) >= 36 && k[:36] == userID.String() {
			delete(f.analytics, k)
		}
	}
	return nil
}

func (f *fakeCache) IncrementRateLimit(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeCache) RateLimitTTL(_ context.Context, _ string) (time.Duration, error) {
	return time.Minute, nil
}

func (f *fakeCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strings[key] = value
	return nil
}

func (f *fakeCache) GetString(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.strings[key], nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.strings, key)
	return nil
}

func (f *fakeCache) Ping(_ context.Context) error { return nil }
