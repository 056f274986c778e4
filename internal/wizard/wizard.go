// Package wizard validates the multi-step listing creation flow. Each step
// validates independently so the client can check progress as the user
// advances; the review step re-runs every prior step against the combined
// payload.
package wizard

import (
	"encoding/json"
	"fmt"
	"strings"

	"leaseboard/internal/models"
)

// Step names, in flow order.
const (
	StepDetails    = "details"
	StepLocation   = "location"
	StepLeaseTerms = "lease_terms"
	StepAmenities  = "amenities"
	StepImages     = "images"
	StepReview     = "review"
)

// StepOrder is the canonical flow order.
var StepOrder = []string{StepDetails, StepLocation, StepLeaseTerms, StepAmenities, StepImages, StepReview}

var validSteps = map[string]bool{
	StepDetails:    true,
	StepLocation:   true,
	StepLeaseTerms: true,
	StepAmenities:  true,
	StepImages:     true,
	StepReview:     true,
}

// Result reports per-field errors for one validation pass. A nil or empty
// Errors map means the payload passed. NextStep is populated on success for
// every step but review.
type Result struct {
	Valid    bool              `json:"valid"`
	Step     string            `json:"step"`
	Errors   map[string]string `json:"errors"`
	NextStep string            `json:"next_step,omitempty"`
}

// Payload is the accumulated wizard state. Steps only inspect the fields
// they own, so a partial payload validates fine for early steps.
type Payload struct {
	// details
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	PropertyType string  `json:"property_type"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	MaxGuests    int     `json:"max_guests"`

	// location
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// lease_terms
	AnnualRent            float64 `json:"annual_rent"`
	SecurityDeposit       float64 `json:"security_deposit"`
	MinimumLeaseDuration  int     `json:"minimum_lease_duration"`
	MaximumLeaseDuration  int     `json:"maximum_lease_duration"`

	// amenities
	Amenities []string `json:"amenities"`

	// images
	Images []string `json:"images"`
}

// ParsePayload decodes the raw wizard state, rejecting unknown top-level
// shapes but tolerating extra fields.
func ParsePayload(raw json.RawMessage) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid wizard payload: %v", err)
	}
	return &p, nil
}

// ValidateStep runs the named step's rules against the payload.
func ValidateStep(step string, p *Payload) Result {
	errs := map[string]string{}
	switch step {
	case StepDetails:
		validateDetails(p, errs)
	case StepLocation:
		validateLocation(p, errs)
	case StepLeaseTerms:
		validateLeaseTerms(p, errs)
	case StepAmenities:
		validateAmenities(p, errs)
	case StepImages:
		validateImages(p, errs)
	case StepReview:
		validateDetails(p, errs)
		validateLocation(p, errs)
		validateLeaseTerms(p, errs)
		validateAmenities(p, errs)
		validateImages(p, errs)
	default:
		errs["step"] = fmt.Sprintf("unknown step %q", step)
	}
	result := Result{Valid: len(errs) == 0, Step: step, Errors: errs}
	if result.Valid {
		result.NextStep = nextStep(step)
	}
	return result
}

func nextStep(step string) string {
	for i, s := range StepOrder {
		if s == step && i+1 < len(StepOrder) {
			return StepOrder[i+1]
		}
	}
	return ""
}

// ValidStep reports whether the name is one of the flow's steps.
func ValidStep(step string) bool {
	return validSteps[step]
}

func validateDetails(p *Payload, errs map[string]string) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		errs["title"] = "title is required"
	} else if len(title) < models.MinTitleLen {
		errs["title"] = fmt.Sprintf("title must be at least %d characters", models.MinTitleLen)
	} else if len(title) > models.MaxTitleLen {
		errs["title"] = fmt.Sprintf("title cannot exceed %d characters", models.MaxTitleLen)
	}

	if p.PropertyType == "" {
		errs["property_type"] = "property type is required"
	} else if !models.ValidPropertyTypes[p.PropertyType] {
		errs["property_type"] = fmt.Sprintf("unknown property type %q", p.PropertyType)
	}

	if p.Bedrooms < 0 {
		errs["bedrooms"] = "bedrooms cannot be negative"
	} else if p.Bedrooms > models.MaxBedrooms {
		errs["bedrooms"] = fmt.Sprintf("bedrooms cannot exceed %d", models.MaxBedrooms)
	}

	if p.Bathrooms < 0 {
		errs["bathrooms"] = "bathrooms cannot be negative"
	} else if p.Bathrooms > models.MaxBathrooms {
		errs["bathrooms"] = fmt.Sprintf("bathrooms cannot exceed %.0f", models.MaxBathrooms)
	}

	if p.MaxGuests < 1 {
		errs["max_guests"] = "max guests must be at least 1"
	} else if p.MaxGuests > models.MaxGuests {
		errs["max_guests"] = fmt.Sprintf("max guests cannot exceed %d", models.MaxGuests)
	}
}

func validateLocation(p *Payload, errs map[string]string) {
	if strings.TrimSpace(p.Address) == "" {
		errs["address"] = "address is required"
	}
	if strings.TrimSpace(p.City) == "" {
		errs["city"] = "city is required"
	}
	if strings.TrimSpace(p.State) == "" {
		errs["state"] = "state is required"
	}
	if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
		errs["latitude"] = "latitude must be between -90 and 90"
	}
	if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
		errs["longitude"] = "longitude must be between -180 and 180"
	}
}

func validateLeaseTerms(p *Payload, errs map[string]string) {
	if p.AnnualRent < models.MinAnnualRent {
		errs["annual_rent"] = fmt.Sprintf("annual rent must be at least %.0f AED", models.MinAnnualRent)
	} else if p.AnnualRent > models.MaxAnnualRent {
		errs["annual_rent"] = fmt.Sprintf("annual rent cannot exceed %.0f AED", models.MaxAnnualRent)
	}

	if p.SecurityDeposit < 0 {
		errs["security_deposit"] = "security deposit cannot be negative"
	}

	if p.MinimumLeaseDuration < 0 {
		errs["minimum_lease_duration"] = "minimum lease duration cannot be negative"
	}
	// The attribution is deliberate: the user is editing the maximum field
	// when the pair becomes inconsistent.
	if p.MinimumLeaseDuration > 0 && p.MaximumLeaseDuration > 0 &&
		p.MinimumLeaseDuration >= p.MaximumLeaseDuration {
		errs["maximum_lease_duration"] = "maximum lease duration must be greater than minimum lease duration"
	}
}

func validateAmenities(p *Payload, errs map[string]string) {
	seen := map[string]bool{}
	for _, a := range p.Amenities {
		if strings.TrimSpace(a) == "" {
			errs["amenities"] = "amenities cannot contain empty entries"
			return
		}
		if seen[a] {
			errs["amenities"] = fmt.Sprintf("duplicate amenity %q", a)
			return
		}
		seen[a] = true
	}
}

func validateImages(p *Payload, errs map[string]string) {
	if len(p.Images) > models.MaxImagesPerUnit {
		errs["images"] = fmt.Sprintf("a listing can carry at most %d images", models.MaxImagesPerUnit)
		return
	}
	for _, img := range p.Images {
		if !strings.HasPrefix(img, "http://") && !strings.HasPrefix(img, "https://") {
			errs["images"] = "image entries must be absolute URLs"
			return
		}
	}
}
