package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"leaseboard/internal/kv"
	"leaseboard/internal/market"
	"leaseboard/internal/models"
	"leaseboard/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AnalyticsTestSuite struct {
	suite.Suite
	users      repositories.UserRepository
	properties repositories.PropertyRepository
	bookings   repositories.BookingRepository
	cache      *fakeAnalyticsCache
	service    Service
	owner      *models.User
	ctx        context.Context
}

func (suite *AnalyticsTestSuite) SetupTest() {
	store := kv.NewMemoryStore()
	suite.users = repositories.NewUserRepository(store)
	suite.properties = repositories.NewPropertyRepository(store, suite.users)
	suite.bookings = repositories.NewBookingRepository(store)
	suite.cache = newFakeAnalyticsCache()
	suite.service = NewService(suite.properties, suite.bookings, market.NewService(), suite.cache)
	suite.ctx = context.Background()

	now := time.Now().UTC()
	suite.owner = &models.User{ID: uuid.New(), Name: "Owner", Email: "owner@example.com", CreatedAt: now, UpdatedAt: now}
	assert.NoError(suite.T(), suite.users.Create(suite.ctx, suite.owner))
}

func TestAnalyticsTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsTestSuite))
}

func (suite *AnalyticsTestSuite) seedProperty(address string) *models.Property {
	now := time.Now().UTC()
	property := &models.Property{
		ID:           uuid.New(),
		UserID:       suite.owner.ID,
		Title:        "Marina view one-bedroom",
		Address:      address,
		City:         "Dubai",
		State:        "Dubai",
		Country:      "UAE",
		PropertyType: "apartment",
		Bedrooms:     1,
		Bathrooms:    1,
		MaxGuests:    2,
		AnnualRent:   85000,
		Status:       models.PropertyStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	assert.NoError(suite.T(), suite.properties.Create(suite.ctx, property))
	return property
}

func (suite *AnalyticsTestSuite) seedBooking(propertyID uuid.UUID, status string, amount float64, nights int) *models.Booking {
	now := time.Now().UTC()
	checkIn := now.AddDate(0, 0, 7)
	booking := &models.Booking{
		ID:            uuid.New(),
		PropertyID:    propertyID,
		GuestName:     "Guest",
		GuestEmail:    "guest@example.com",
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, nights),
		Nights:        nights,
		Guests:        2,
		TotalAmount:   amount,
		Status:        status,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	assert.NoError(suite.T(), suite.bookings.Create(suite.ctx, booking))
	return booking
}

func (suite *AnalyticsTestSuite) TestPortfolio_EmptyWithoutProperties() {
	result, err := suite.service.Portfolio(suite.ctx, suite.owner.ID, "12months")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result["total_properties"])
	assert.Equal(suite.T(), 0.0, result["total_revenue"])
}

func (suite *AnalyticsTestSuite) TestPortfolio_CountsOnlyConfirmedAndCompleted() {
	property := suite.seedProperty("Dubai Marina Walk")
	suite.seedBooking(property.ID, models.BookingStatusConfirmed, 1000, 4)
	suite.seedBooking(property.ID, models.BookingStatusCompleted, 500, 2)
	suite.seedBooking(property.ID, models.BookingStatusPending, 9999, 3)
	suite.seedBooking(property.ID, models.BookingStatusCancelled, 9999, 3)

	result, err := suite.service.Portfolio(suite.ctx, suite.owner.ID, "12months")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, result["total_bookings"])
	assert.Equal(suite.T(), 1500.0, result["total_revenue"])
	assert.Equal(suite.T(), 1, result["total_properties"])
}

func (suite *AnalyticsTestSuite) TestPortfolio_CachesResult() {
	suite.seedProperty("Dubai Marina Walk")
	_, err := suite.service.Portfolio(suite.ctx, suite.owner.ID, "12months")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, suite.cache.sets)

	// Second call is served from cache.
	_, err = suite.service.Portfolio(suite.ctx, suite.owner.ID, "12months")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, suite.cache.sets)
}

func (suite *AnalyticsTestSuite) TestPropertyAnalytics_StrangerForbidden() {
	property := suite.seedProperty("Dubai Marina Walk")
	_, err := suite.service.PropertyAnalytics(suite.ctx, uuid.New(), property.ID, "12months")
	assert.ErrorIs(suite.T(), err, repositories.ErrForbidden)
}

func (suite *AnalyticsTestSuite) TestPropertyAnalytics_Figures() {
	property := suite.seedProperty("Dubai Marina Walk")
	suite.seedBooking(property.ID, models.BookingStatusConfirmed, 1200, 4)
	suite.seedBooking(property.ID, models.BookingStatusConfirmed, 800, 2)

	result, err := suite.service.PropertyAnalytics(suite.ctx, suite.owner.ID, property.ID, "12months")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, result["total_bookings"])
	assert.Equal(suite.T(), 2000.0, result["total_revenue"])
	assert.Equal(suite.T(), 1000.0, result["avg_daily_rate"])
}

func (suite *AnalyticsTestSuite) TestDashboardOverview_EmptyAccount() {
	result, err := suite.service.DashboardOverview(suite.ctx, suite.owner.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result["total_properties"])
}

func (suite *AnalyticsTestSuite) TestRefreshForUser_InvalidatesCache() {
	suite.seedProperty("Dubai Marina Walk")
	_, err := suite.service.Portfolio(suite.ctx, suite.owner.ID, "12months")
	assert.NoError(suite.T(), err)

	assert.NoError(suite.T(), suite.service.RefreshForUser(suite.ctx, suite.owner.ID))
	assert.GreaterOrEqual(suite.T(), suite.cache.invalidations, 1)
}

func TestOccupancyRate_ClampedToHundred(t *testing.T) {
	checkIn := time.Now().UTC()
	bookings := []*models.Booking{
		{Status: models.BookingStatusConfirmed, Nights: 400, CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 400)},
	}
	rate := occupancyRate(1, bookings)
	assert.Equal(t, 100.0, rate)
}

func TestOccupancyRate_ZeroUnits(t *testing.T) {
	assert.Equal(t, 0.0, occupancyRate(0, nil))
}

func TestAreaForProperty(t *testing.T) {
	cases := map[string]string{
		"Dubai Marina Walk, Tower 4": market.AreaMarina,
		"Downtown Boulevard":         market.AreaDowntown,
		"Business Bay Executive":     market.AreaBusinessBay,
		"Palm West Beach Villa":      market.AreaPalmJumeirah,
		"Al Qusais Street 12":        market.AreaJLT,
	}
	for address, want := range cases {
		p := &models.Property{Address: address}
		assert.Equal(t, want, AreaForProperty(p), address)
	}
}

// fakeAnalyticsCache records cache traffic for assertions.
type fakeAnalyticsCache struct {
	mu            sync.Mutex
	entries       map[string]map[string]interface{}
	sets          int
	invalidations int
}

func newFakeAnalyticsCache() *fakeAnalyticsCache {
	return &fakeAnalyticsCache{entries: make(map[string]map[string]interface{})}
}

func (f *fakeAnalyticsCache) GetUserAnalytics(_ context.Context, userID uuid.UUID, section string) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[userID.String()+":"+section], nil
}

func (f *fakeAnalyticsCache) SetUserAnalytics(_ context.Context, userID uuid.UUID, section string, analytics map[string]interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[userID.String()+":"+section] = analytics
	f.sets++
	return nil
}

func (f *fakeAnalyticsCache) InvalidateUserAnalytics(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.entries {
		if len(k) > 36 && k[:36] == userID.String() {
			delete(f.entries, k)
		}
	}
	f.invalidations++
	return nil
}

func (f *fakeAnalyticsCache) IncrementRateLimit(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

func (f *fakeAnalyticsCache) RateLimitTTL(_ context.Context, _ string) (time.Duration, error) {
	return time.Minute, nil
}

func (f *fakeAnalyticsCache) SetString(_ context.Context, _, _ string, _ time.Duration) error {
	return nil
}

func (f *fakeAnalyticsCache) GetString(_ context.Context, _ string) (string, error) { return "", nil }
func (f *fakeAnalyticsCache) Delete(_ context.Context, _ string) error              { return nil }
func (f *fakeAnalyticsCache) Ping(_ context.Context) error                          { return nil }
