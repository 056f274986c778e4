package services

import (
	"context"
	"math"
	"testing"
	"time"

	"leaseboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BookingServiceTestSuite struct {
	suite.Suite
	env      *testEnv
	service  BookingService
	owner    *models.User
	property *models.Property
	ctx      context.Context
}

func (suite *BookingServiceTestSuite) SetupTest() {
	suite.env = newTestEnv()
	suite.service = NewBookingService(suite.env.bookings, suite.env.properties, suite.env.users)
	suite.ctx = context.Background()
	suite.owner = suite.env.seedUser(suite.ctx, "Owner")
	suite.property = suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

func (suite *BookingServiceTestSuite) createRequest(checkIn time.Time, nights int) *BookingCreateRequest {
	return &BookingCreateRequest{
		PropertyID: suite.property.ID,
		GuestName:  "Sara",
		GuestEmail: "sara@example.com",
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, nights),
		Guests:     2,
	}
}

func (suite *BookingServiceTestSuite) TestCreate_DerivesNightlyAmount() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 4))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, booking.Nights)

	expected := math.Round(suite.property.AnnualRent/365.0*4*100) / 100
	assert.Equal(suite.T(), expected, booking.TotalAmount)
	assert.Equal(suite.T(), models.BookingStatusPending, booking.Status)
	assert.Equal(suite.T(), models.PaymentStatusPending, booking.PaymentStatus)
}

func (suite *BookingServiceTestSuite) TestCreate_ExplicitAmountWins() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	req := suite.createRequest(checkIn, 2)
	amount := 1500.0
	req.TotalAmount = &amount
	booking, err := suite.service.Create(suite.ctx, suite.owner.ID, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), amount, booking.TotalAmount)
}

func (suite *BookingServiceTestSuite) TestCreate_RejectsInactiveListing() {
	draft := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusDraft)
	req := suite.createRequest(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), 2)
	req.PropertyID = draft.ID
	_, err := suite.service.Create(suite.ctx, suite.owner.ID, req)
	assert.Error(suite.T(), err)
}

func (suite *BookingServiceTestSuite) TestCreate_RejectsOverlap() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 4))
	assert.NoError(suite.T(), err)

	// Starts inside the first stay.
	_, err = suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn.AddDate(0, 0, 2), 4))
	assert.ErrorIs(suite.T(), err, ErrDatesUnavailable)
}

func (suite *BookingServiceTestSuite) TestCreate_BackToBackStaysAllowed() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 4))
	assert.NoError(suite.T(), err)

	// Checkout day equals the next check-in; no overlap.
	_, err = suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn.AddDate(0, 0, 4), 3))
	assert.NoError(suite.T(), err)
}

func (suite *BookingServiceTestSuite) TestCreate_CancelledBookingDoesNotBlock() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	suite.env.seedBooking(suite.ctx, suite.property.ID, models.BookingStatusCancelled, checkIn, checkIn.AddDate(0, 0, 4))

	_, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 4))
	assert.NoError(suite.T(), err)
}

func (suite *BookingServiceTestSuite) TestCreate_RejectsTooManyGuests() {
	req := suite.createRequest(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), 2)
	req.Guests = suite.property.MaxGuests + 1
	_, err := suite.service.Create(suite.ctx, suite.owner.ID, req)
	assert.Error(suite.T(), err)
}

func (suite *BookingServiceTestSuite) TestConfirm_BumpsRevenueAndCount() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 4))
	assert.NoError(suite.T(), err)

	confirmed, err := suite.service.Confirm(suite.ctx, suite.owner.ID, booking.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.BookingStatusConfirmed, confirmed.Status)

	property, err := suite.env.properties.GetByID(suite.ctx, suite.property.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, property.BookingCount)
	assert.Equal(suite.T(), booking.TotalAmount, property.TotalRevenue)

	owner, err := suite.env.users.GetByID(suite.ctx, suite.owner.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), booking.TotalAmount, owner.TotalRevenue)
}

func (suite *BookingServiceTestSuite) TestConfirm_OnlyFromPending() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking, _ := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 4))
	_, err := suite.service.Confirm(suite.ctx, suite.owner.ID, booking.ID)
	assert.NoError(suite.T(), err)

	_, err = suite.service.Confirm(suite.ctx, suite.owner.ID, booking.ID)
	assert.Error(suite.T(), err)
}

func (suite *BookingServiceTestSuite) TestCancel_ConfirmedReversesRevenue() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking, _ := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 4))
	_, err := suite.service.Confirm(suite.ctx, suite.owner.ID, booking.ID)
	assert.NoError(suite.T(), err)

	cancelled, err := suite.service.Cancel(suite.ctx, suite.owner.ID, booking.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.BookingStatusCancelled, cancelled.Status)

	property, _ := suite.env.properties.GetByID(suite.ctx, suite.property.ID)
	assert.Equal(suite.T(), 0, property.BookingCount)
	assert.Equal(suite.T(), 0.0, property.TotalRevenue)
}

func (suite *BookingServiceTestSuite) TestCancel_PaidBecomesRefunded() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking, _ := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 4))
	paid := models.PaymentStatusPaid
	_, err := suite.service.Update(suite.ctx, suite.owner.ID, booking.ID, &BookingUpdateRequest{PaymentStatus: &paid})
	assert.NoError(suite.T(), err)

	cancelled, err := suite.service.Cancel(suite.ctx, suite.owner.ID, booking.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PaymentStatusRefunded, cancelled.PaymentStatus)
}

func (suite *BookingServiceTestSuite) TestCancel_CompletedRejected() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking := suite.env.seedBooking(suite.ctx, suite.property.ID, models.BookingStatusCompleted, checkIn, checkIn.AddDate(0, 0, 4))
	_, err := suite.service.Cancel(suite.ctx, suite.owner.ID, booking.ID)
	assert.Error(suite.T(), err)
}

func (suite *BookingServiceTestSuite) TestUpdate_DateChangeReChecksCalendar() {
	first := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 10)
	suite.env.seedBooking(suite.ctx, suite.property.ID, models.BookingStatusConfirmed, first, first.AddDate(0, 0, 4))
	booking, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(second, 3))
	assert.NoError(suite.T(), err)

	// Move onto the confirmed stay.
	newIn := first.AddDate(0, 0, 1)
	newOut := first.AddDate(0, 0, 3)
	_, err = suite.service.Update(suite.ctx, suite.owner.ID, booking.ID, &BookingUpdateRequest{CheckIn: &newIn, CheckOut: &newOut})
	assert.ErrorIs(suite.T(), err, ErrDatesUnavailable)
}

func (suite *BookingServiceTestSuite) TestUpdate_DateChangeRecomputesAmount() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 2))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), math.Round(suite.property.NightlyRate()*2*100)/100, booking.TotalAmount)

	// Extending the stay reprices it at the listing's nightly rate.
	newOut := checkIn.AddDate(0, 0, 6)
	updated, err := suite.service.Update(suite.ctx, suite.owner.ID, booking.ID, &BookingUpdateRequest{CheckOut: &newOut})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 6, updated.Nights)
	assert.Equal(suite.T(), math.Round(suite.property.NightlyRate()*6*100)/100, updated.TotalAmount)
}

func (suite *BookingServiceTestSuite) TestUpdate_ExplicitAmountWinsOnDateChange() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 2))
	assert.NoError(suite.T(), err)

	newOut := checkIn.AddDate(0, 0, 6)
	amount := 999.0
	updated, err := suite.service.Update(suite.ctx, suite.owner.ID, booking.ID, &BookingUpdateRequest{CheckOut: &newOut, TotalAmount: &amount})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 999.0, updated.TotalAmount)
}

func (suite *BookingServiceTestSuite) TestGetByID_StrangerForbidden() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking, _ := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 2))
	stranger := suite.env.seedUser(suite.ctx, "Stranger")

	_, err := suite.service.GetByID(suite.ctx, stranger.ID, booking.ID)
	assert.ErrorIs(suite.T(), err, ErrNotOwner)
}

func (suite *BookingServiceTestSuite) TestListForUser_FiltersAndDecorates() {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	booking, _ := suite.service.Create(suite.ctx, suite.owner.ID, suite.createRequest(checkIn, 2))
	_, err := suite.service.Confirm(suite.ctx, suite.owner.ID, booking.ID)
	assert.NoError(suite.T(), err)
	suite.env.seedBooking(suite.ctx, suite.property.ID, models.BookingStatusCancelled, checkIn.AddDate(0, 1, 0), checkIn.AddDate(0, 1, 3))

	confirmed, err := suite.service.ListForUser(suite.ctx, suite.owner.ID, models.BookingStatusConfirmed)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), confirmed, 1)
	assert.Equal(suite.T(), suite.property.Title, confirmed[0].PropertyTitle)
	assert.Equal(suite.T(), suite.property.Address, confirmed[0].PropertyAddress)
}
