package wizard

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPayload() *Payload {
	return &Payload{
		Title:                "Marina view one-bedroom",
		PropertyType:         "apartment",
		Bedrooms:             1,
		Bathrooms:            1.5,
		MaxGuests:            3,
		Address:              "Dubai Marina Walk, Tower 4",
		City:                 "Dubai",
		State:                "Dubai",
		Country:              "UAE",
		AnnualRent:           85000,
		SecurityDeposit:      5000,
		MinimumLeaseDuration: 6,
		MaximumLeaseDuration: 12,
		Amenities:            []string{"Central A/C", "Balcony"},
		Images:               []string{"https://cdn.example.com/1.jpg"},
	}
}

func TestValidateStep_DetailsPass(t *testing.T) {
	result := ValidateStep(StepDetails, validPayload())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, StepLocation, result.NextStep)
}

func TestValidateStep_TitleTooShort(t *testing.T) {
	p := validPayload()
	p.Title = "JB"
	result := ValidateStep(StepDetails, p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "title")
	assert.Empty(t, result.NextStep)
}

func TestValidateStep_TitleBoundsMatchListingValidation(t *testing.T) {
	// A title accepted at creation must also pass the wizard, or the
	// listing could never be published.
	p := validPayload()
	p.Title = "JBR"
	result := ValidateStep(StepDetails, p)
	assert.True(t, result.Valid)

	p.Title = strings.Repeat("a", 200)
	result = ValidateStep(StepDetails, p)
	assert.True(t, result.Valid)

	p.Title = strings.Repeat("a", 201)
	result = ValidateStep(StepDetails, p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "title")
}

func TestValidateStep_RentBelowMinimum(t *testing.T) {
	p := validPayload()
	p.AnnualRent = 9999
	result := ValidateStep(StepLeaseTerms, p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "annual_rent")
}

func TestValidateStep_RentAboveMaximum(t *testing.T) {
	p := validPayload()
	p.AnnualRent = 10000001
	result := ValidateStep(StepLeaseTerms, p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "annual_rent")
}

// An inconsistent duration pair is reported against the maximum field,
// since that is the one the user is editing when the pair goes bad.
func TestValidateStep_MinDurationNotBelowMax(t *testing.T) {
	p := validPayload()
	p.MinimumLeaseDuration = 12
	p.MaximumLeaseDuration = 12
	result := ValidateStep(StepLeaseTerms, p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "maximum_lease_duration")
	assert.NotContains(t, result.Errors, "minimum_lease_duration")
}

func TestValidateStep_DurationPairIgnoredWhenUnset(t *testing.T) {
	p := validPayload()
	p.MinimumLeaseDuration = 0
	p.MaximumLeaseDuration = 0
	result := ValidateStep(StepLeaseTerms, p)
	assert.True(t, result.Valid)
}

func TestValidateStep_TooManyImages(t *testing.T) {
	p := validPayload()
	p.Images = nil
	for i := 0; i < 11; i++ {
		p.Images = append(p.Images, "https://cdn.example.com/img.jpg")
	}
	result := ValidateStep(StepImages, p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "images")
}

func TestValidateStep_RelativeImageURLRejected(t *testing.T) {
	p := validPayload()
	p.Images = []string{"/uploads/1.jpg"}
	result := ValidateStep(StepImages, p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "images")
}

func TestValidateStep_DuplicateAmenity(t *testing.T) {
	p := validPayload()
	p.Amenities = []string{"Balcony", "Balcony"}
	result := ValidateStep(StepAmenities, p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "amenities")
}

func TestValidateStep_ReviewAggregatesAllSteps(t *testing.T) {
	p := validPayload()
	p.Title = ""
	p.AnnualRent = 0
	p.Address = ""
	result := ValidateStep(StepReview, p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "title")
	assert.Contains(t, result.Errors, "annual_rent")
	assert.Contains(t, result.Errors, "address")
}

func TestValidateStep_ReviewHasNoNextStep(t *testing.T) {
	result := ValidateStep(StepReview, validPayload())
	assert.True(t, result.Valid)
	assert.Empty(t, result.NextStep)
}

func TestNextStep_FollowsFlowOrder(t *testing.T) {
	p := validPayload()
	expected := map[string]string{
		StepDetails:    StepLocation,
		StepLocation:   StepLeaseTerms,
		StepLeaseTerms: StepAmenities,
		StepAmenities:  StepImages,
		StepImages:     StepReview,
	}
	for step, next := range expected {
		result := ValidateStep(step, p)
		assert.True(t, result.Valid, "step %s", step)
		assert.Equal(t, next, result.NextStep, "step %s", step)
	}
}

func TestParsePayload_ToleratesExtraFields(t *testing.T) {
	raw := json.RawMessage(`{"title":"Marina view one-bedroom","unknown_field":true}`)
	p, err := ParsePayload(raw)
	assert.NoError(t, err)
	assert.Equal(t, "Marina view one-bedroom", p.Title)
}

func TestParsePayload_RejectsMalformedJSON(t *testing.T) {
	_, err := ParsePayload(json.RawMessage(`{"title":`))
	assert.Error(t, err)
}

func TestValidStep(t *testing.T) {
	assert.True(t, ValidStep(StepDetails))
	assert.True(t, ValidStep(StepReview))
	assert.False(t, ValidStep("payment"))
}
