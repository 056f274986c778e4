// Package locations holds the static UAE location and listing reference
// data served by the /v1/locations endpoints and used for validation.
package locations

import "strings"

// Emirates maps each emirate to its well-known areas.
var Emirates = map[string][]string{
	"Dubai": {
		"Downtown Dubai", "Dubai Marina", "Jumeirah Beach Residence",
		"Palm Jumeirah", "Business Bay", "Jumeirah Lake Towers",
		"Dubai Hills Estate", "Arabian Ranches", "Jumeirah Village Circle",
		"Dubai Silicon Oasis", "Al Barsha", "Deira", "Bur Dubai",
		"Dubai Sports City", "Motor City", "International City",
		"Dubai Investment Park", "Mirdif", "Jumeirah", "Umm Suqeim",
		"Al Quoz", "DIFC", "City Walk", "Bluewaters Island", "Dubai Creek Harbour",
	},
	"Abu Dhabi": {
		"Al Reem Island", "Yas Island", "Saadiyat Island", "Al Raha Beach",
		"Khalifa City", "Al Khalidiyah", "Corniche Area", "Masdar City",
		"Mohammed Bin Zayed City", "Al Reef",
	},
	"Sharjah": {
		"Al Majaz", "Al Nahda", "Al Khan", "Al Taawun", "Muwaileh", "Al Qasimia",
	},
	"Ajman": {
		"Ajman Corniche", "Al Nuaimiya", "Al Rashidiya", "Emirates City",
	},
	"Ras Al Khaimah": {
		"Al Hamra Village", "Mina Al Arab", "Al Marjan Island", "Al Nakheel",
	},
	"Fujairah": {
		"Fujairah City", "Dibba", "Al Faseel",
	},
	"Umm Al Quwain": {
		"Umm Al Quwain Marina", "Al Salamah",
	},
}

// PopularAreas are the high-demand areas surfaced first in the wizard.
var PopularAreas = []string{
	"Dubai Marina", "Downtown Dubai", "Palm Jumeirah", "Business Bay",
	"Jumeirah Beach Residence", "Al Reem Island", "Yas Island",
	"Jumeirah Village Circle", "Dubai Hills Estate", "Saadiyat Island",
}

// Amenities is the canonical amenity catalogue.
var Amenities = []string{
	"Air Conditioning", "Balcony", "Built-in Wardrobes", "Central Heating",
	"Concierge", "Covered Parking", "Gym", "Kids Play Area", "Maid's Room",
	"Maintenance", "Pets Allowed", "Private Garden", "Private Pool",
	"Sauna", "Security", "Shared Pool", "Study Room", "Walk-in Closet",
	"Waterfront View", "WiFi",
}

// PropertyTypes mirrors the listing type enum with display labels.
var PropertyTypes = []map[string]string{
	{"value": "apartment", "label": "Apartment"},
	{"value": "villa", "label": "Villa"},
	{"value": "townhouse", "label": "Townhouse"},
	{"value": "penthouse", "label": "Penthouse"},
	{"value": "studio", "label": "Studio"},
	{"value": "duplex", "label": "Duplex"},
	{"value": "loft", "label": "Loft"},
	{"value": "compound", "label": "Compound"},
	{"value": "chalet", "label": "Chalet"},
	{"value": "hotel_apartment", "label": "Hotel Apartment"},
	{"value": "whole_building", "label": "Whole Building"},
	{"value": "office", "label": "Office"},
	{"value": "retail", "label": "Retail"},
	{"value": "warehouse", "label": "Warehouse"},
	{"value": "land", "label": "Land"},
}

// ValidEmirate reports whether the name matches a known emirate.
func ValidEmirate(name string) bool {
	_, ok := Emirates[name]
	return ok
}

// AreasFor returns the areas of an emirate, or nil when unknown.
func AreasFor(emirate string) []string {
	return Emirates[emirate]
}

// SearchResult is one location search hit.
type SearchResult struct {
	Emirate string `json:"emirate"`
	Area    string `json:"area"`
}

// Search matches areas and emirates case-insensitively on a substring.
func Search(query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []SearchResult
	for emirate, areas := range Emirates {
		if strings.Contains(strings.ToLower(emirate), q) {
			results = append(results, SearchResult{Emirate: emirate})
		}
		for _, area := range areas {
			if strings.Contains(strings.ToLower(area), q) {
				results = append(results, SearchResult{Emirate: emirate, Area: area})
			}
		}
	}
	return results
}
