package services

import (
	"context"
	"testing"
	"time"

	"leaseboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PropertyServiceTestSuite struct {
	suite.Suite
	env     *testEnv
	service PropertyService
	owner   *models.User
	ctx     context.Context
}

func (suite *PropertyServiceTestSuite) SetupTest() {
	suite.env = newTestEnv()
	suite.service = NewPropertyService(suite.env.properties, suite.env.bookings)
	suite.ctx = context.Background()
	suite.owner = suite.env.seedUser(suite.ctx, "Owner")
}

func TestPropertyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PropertyServiceTestSuite))
}

func (suite *PropertyServiceTestSuite) validCreateRequest() *PropertyCreateRequest {
	return &PropertyCreateRequest{
		Title:        "Marina view one-bedroom",
		Address:      "Dubai Marina Walk, Tower 4",
		City:         "Dubai",
		State:        "Dubai",
		PropertyType: "apartment",
		Bedrooms:     1,
		Bathrooms:    1.5,
		MaxGuests:    3,
		AnnualRent:   85000,
	}
}

func (suite *PropertyServiceTestSuite) TestCreate_StartsInDraft() {
	property, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.validCreateRequest())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PropertyStatusDraft, property.Status)
	assert.Equal(suite.T(), "UAE", property.Country)
	assert.NotNil(suite.T(), property.Amenities)
	assert.NotNil(suite.T(), property.Images)
}

func (suite *PropertyServiceTestSuite) TestCreate_RegistersOwnerIndex() {
	property, err := suite.service.Create(suite.ctx, suite.owner.ID, suite.validCreateRequest())
	assert.NoError(suite.T(), err)

	listed, err := suite.service.List(suite.ctx, suite.owner.ID, models.PropertyFilter{})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), listed, 1)
	assert.Equal(suite.T(), property.ID, listed[0].ID)
}

func (suite *PropertyServiceTestSuite) TestCreate_RejectsShortTitle() {
	req := suite.validCreateRequest()
	req.Title = "ab"
	_, err := suite.service.Create(suite.ctx, suite.owner.ID, req)
	assert.Error(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestCreate_RejectsNonEmirateState() {
	req := suite.validCreateRequest()
	req.State = "California"
	_, err := suite.service.Create(suite.ctx, suite.owner.ID, req)
	assert.Error(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestCreate_RejectsQuarterStepBathrooms() {
	req := suite.validCreateRequest()
	req.Bathrooms = 1.25
	_, err := suite.service.Create(suite.ctx, suite.owner.ID, req)
	assert.Error(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestCreate_RejectsRentOutOfRange() {
	req := suite.validCreateRequest()
	req.AnnualRent = 5000
	_, err := suite.service.Create(suite.ctx, suite.owner.ID, req)
	assert.Error(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestCreate_TruncatesImagesPastCap() {
	req := suite.validCreateRequest()
	for i := 0; i < 15; i++ {
		req.Images = append(req.Images, "https://cdn.example.com/img.jpg")
	}
	property, err := suite.service.Create(suite.ctx, suite.owner.ID, req)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), property.Images, models.MaxImagesPerUnit)
}

func (suite *PropertyServiceTestSuite) TestGetByID_OtherUserForbidden() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
	stranger := suite.env.seedUser(suite.ctx, "Stranger")

	_, err := suite.service.GetByID(suite.ctx, stranger.ID, property.ID)
	assert.ErrorIs(suite.T(), err, ErrNotOwner)
}

func (suite *PropertyServiceTestSuite) TestUpdate_MergesOnlyProvidedFields() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
	newTitle := "Renovated marina one-bedroom"
	updated, err := suite.service.Update(suite.ctx, suite.owner.ID, property.ID, &PropertyUpdateRequest{Title: &newTitle})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), newTitle, updated.Title)
	assert.Equal(suite.T(), property.Address, updated.Address)
	assert.Equal(suite.T(), property.AnnualRent, updated.AnnualRent)
}

func (suite *PropertyServiceTestSuite) TestUpdate_RejectsUnknownStatus() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
	bad := "archived"
	_, err := suite.service.Update(suite.ctx, suite.owner.ID, property.ID, &PropertyUpdateRequest{Status: &bad})
	assert.Error(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestDelete_BlockedByActiveBooking() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
	checkIn := time.Now().UTC().AddDate(0, 0, 7)
	suite.env.seedBooking(suite.ctx, property.ID, models.BookingStatusConfirmed, checkIn, checkIn.AddDate(0, 0, 3))

	err := suite.service.Delete(suite.ctx, suite.owner.ID, property.ID)
	assert.Error(suite.T(), err)

	// Still there.
	_, err = suite.service.GetByID(suite.ctx, suite.owner.ID, property.ID)
	assert.NoError(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestDelete_AllowedWithOnlyCancelledBookings() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
	checkIn := time.Now().UTC().AddDate(0, 0, 7)
	suite.env.seedBooking(suite.ctx, property.ID, models.BookingStatusCancelled, checkIn, checkIn.AddDate(0, 0, 3))

	assert.NoError(suite.T(), suite.service.Delete(suite.ctx, suite.owner.ID, property.ID))

	listed, err := suite.service.List(suite.ctx, suite.owner.ID, models.PropertyFilter{})
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), listed)
}

func (suite *PropertyServiceTestSuite) TestPublish_RequiresDescriptionAndImage() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusDraft)
	property.Description = nil
	assert.NoError(suite.T(), suite.env.properties.Update(suite.ctx, property))

	_, err := suite.service.Publish(suite.ctx, suite.owner.ID, property.ID)
	assert.Error(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestPublish_TransitionsToActive() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusDraft)
	published, err := suite.service.Publish(suite.ctx, suite.owner.ID, property.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PropertyStatusActive, published.Status)
}

func (suite *PropertyServiceTestSuite) TestPublish_ShortTitleFromCreateStaysPublishable() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusDraft)
	title := "JBR"
	_, err := suite.service.Update(suite.ctx, suite.owner.ID, property.ID, &PropertyUpdateRequest{Title: &title})
	assert.NoError(suite.T(), err)

	published, err := suite.service.Publish(suite.ctx, suite.owner.ID, property.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PropertyStatusActive, published.Status)
}

func (suite *PropertyServiceTestSuite) TestList_FiltersByStatus() {
	suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
	suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusDraft)

	active, err := suite.service.List(suite.ctx, suite.owner.ID, models.PropertyFilter{Status: models.PropertyStatusActive})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), active, 1)
}

func (suite *PropertyServiceTestSuite) TestAppendImages_SilentlyTruncates() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
	urls := make([]string, 12)
	for i := range urls {
		urls[i] = "https://cdn.example.com/extra.jpg"
	}
	updated, err := suite.service.AppendImages(suite.ctx, suite.owner.ID, property.ID, urls)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), updated.Images, models.MaxImagesPerUnit)
}

func (suite *PropertyServiceTestSuite) TestReorderImages_RejectsForeignURL() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
	_, err := suite.service.ReorderImages(suite.ctx, suite.owner.ID, property.ID, []string{"https://cdn.example.com/other.jpg"})
	assert.Error(suite.T(), err)
}

func (suite *PropertyServiceTestSuite) TestRemoveImage() {
	property := suite.env.seedProperty(suite.ctx, suite.owner.ID, models.PropertyStatusActive)
	updated, err := suite.service.RemoveImage(suite.ctx, suite.owner.ID, property.ID, property.Images[0])
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), updated.Images)
}

func (suite *PropertyServiceTestSuite) TestGetByID_UnknownIDNotFound() {
	_, err := suite.service.GetByID(suite.ctx, suite.owner.ID, uuid.New())
	assert.Error(suite.T(), err)
}
