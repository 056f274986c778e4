// Package market provides Dubai rental market intelligence: area, seasonal
// and event multiplier tables, pricing optimization, pricing calendars,
// benchmarks and a seasonal revenue forecast. The figures are static tables
// plus derived variation; no live market feed is involved.
package market

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Area identifiers in the multiplier tables.
const (
	AreaMarina       = "marina"
	AreaDowntown     = "downtown"
	AreaJLT          = "jlt"
	AreaBusinessBay  = "business_bay"
	AreaJBR          = "jbr"
	AreaPalmJumeirah = "palm_jumeirah"
	AreaDeira        = "deira"
	AreaBurDubai     = "bur_dubai"
	AreaJumeirah     = "jumeirah"
	AreaSiliconOasis = "silicon_oasis"
)

// Seasonal periods affecting rental demand.
const (
	SeasonPeakWinter = "peak_winter" // Dec-Feb
	SeasonHighWinter = "high_winter" // Mar, Nov
	SeasonShoulder   = "shoulder"    // Apr, Oct
	SeasonLowSummer  = "low_summer"  // May-Sep
)

// Event types affecting rental demand.
const (
	EventShoppingFestival = "shopping_festival"
	EventF1GrandPrix      = "f1_grand_prix"
	EventGitex            = "gitex"
	EventArabHealth       = "arab_health"
	EventRamadan          = "ramadan"
	EventEidAlFitr        = "eid_al_fitr"
	EventEidAlAdha        = "eid_al_adha"
	EventNationalDay      = "uae_national_day"
	EventNewYear          = "new_year"
)

// AreaMultipliers ranks areas by desirability and demand.
var AreaMultipliers = map[string]float64{
	AreaPalmJumeirah: 2.0,
	AreaMarina:       1.6,
	AreaDowntown:     1.5,
	AreaJBR:          1.4,
	AreaJumeirah:     1.3,
	AreaBusinessBay:  1.2,
	AreaJLT:          1.0,
	AreaSiliconOasis: 0.8,
	AreaDeira:        0.7,
	AreaBurDubai:     0.6,
}

// SeasonalMultipliers captures Dubai's winter-peaked demand curve.
var SeasonalMultipliers = map[string]float64{
	SeasonPeakWinter: 1.5,
	SeasonHighWinter: 1.3,
	SeasonShoulder:   1.0,
	SeasonLowSummer:  0.7,
}

// EventMultipliers drives surge pricing during major events.
var EventMultipliers = map[string]float64{
	EventF1GrandPrix:      3.0,
	EventNewYear:          2.0,
	EventShoppingFestival: 1.8,
	EventGitex:            1.6,
	EventArabHealth:       1.5,
	EventNationalDay:      1.4,
	EventEidAlFitr:        1.3,
	EventEidAlAdha:        1.3,
	EventRamadan:          0.8, // tourism dips during Ramadan
}

// Event is one calendar entry.
type Event struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// calendarEvent binds an event to the days of a month it spans.
type calendarEvent struct {
	event Event
	month time.Month
	days  map[int]bool
}

func daysRange(from, to int) map[int]bool {
	days := make(map[int]bool, to-from+1)
	for d := from; d <= to; d++ {
		days[d] = true
	}
	return days
}

// eventsCalendar is the recurring yearly events calendar. Dates drift year
// to year for the lunar-calendar events; these are representative.
var eventsCalendar = []calendarEvent{
	{Event{"Dubai Shopping Festival", EventShoppingFestival}, time.January, daysRange(1, 28)},
	{Event{"Ramadan", EventRamadan}, time.March, daysRange(10, 31)},
	{Event{"Ramadan", EventRamadan}, time.April, daysRange(1, 9)},
	{Event{"Eid Al-Fitr", EventEidAlFitr}, time.April, daysRange(10, 12)},
	{Event{"Eid Al-Adha", EventEidAlAdha}, time.June, daysRange(16, 18)},
	{Event{"GITEX Technology Week", EventGitex}, time.October, daysRange(14, 18)},
	{Event{"UAE National Day", EventNationalDay}, time.December, daysRange(2, 3)},
	{Event{"Formula 1 UAE Grand Prix", EventF1GrandPrix}, time.December, daysRange(6, 8)},
	{Event{"New Year Celebrations", EventNewYear}, time.December, daysRange(31, 31)},
}

// SeasonFor maps a date onto the Dubai demand season.
func SeasonFor(date time.Time) string {
	switch date.Month() {
	case time.December, time.January, time.February:
		return SeasonPeakWinter
	case time.March, time.November:
		return SeasonHighWinter
	case time.April, time.October:
		return SeasonShoulder
	default:
		return SeasonLowSummer
	}
}

// EventsFor returns the events active on a date.
func EventsFor(date time.Time) []Event {
	var events []Event
	for _, ce := range eventsCalendar {
		if ce.month == date.Month() && ce.days[date.Day()] {
			events = append(events, ce.event)
		}
	}
	return events
}

// ActiveEvent is an event with its applied multiplier.
type ActiveEvent struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Multiplier float64 `json:"multiplier"`
}

// PricingFactors explains how a suggested price was built.
type PricingFactors struct {
	BaseRate           float64       `json:"base_rate"`
	AreaMultiplier     float64       `json:"area_multiplier"`
	SeasonalMultiplier float64       `json:"seasonal_multiplier"`
	Season             string        `json:"season"`
	EventMultiplier    float64       `json:"event_multiplier"`
	ActiveEvents       []ActiveEvent `json:"active_events"`
	WeekendMultiplier  float64       `json:"weekend_multiplier,omitempty"`
	BedroomMultiplier  float64       `json:"bedroom_multiplier"`
}

// OptimalPrice is the pricing optimization result for one date.
type OptimalPrice struct {
	SuggestedPrice  float64        `json:"suggested_price"`
	PricingFactors  PricingFactors `json:"pricing_factors"`
	DemandLevel     string         `json:"demand_level"`
	Recommendations []string       `json:"recommendations"`
}

// CalendarDay is one entry of a pricing calendar.
type CalendarDay struct {
	Date           string         `json:"date"`
	DayName        string         `json:"day_name"`
	SuggestedPrice float64        `json:"suggested_price"`
	DemandLevel    string         `json:"demand_level"`
	ActiveEvents   []string       `json:"active_events"`
	Season         string         `json:"season"`
	PricingFactors PricingFactors `json:"pricing_factors"`
}

// Service computes pricing intelligence off the static tables.
type Service interface {
	CalculateOptimalPrice(baseRate float64, area string, date time.Time, propertyType string, bedrooms int) *OptimalPrice
	PricingCalendar(baseRate float64, area string, daysAhead int, propertyType string, bedrooms int) []CalendarDay
	Forecast(monthsAhead int) map[string]interface{}
	Benchmarks(area, propertyType string) map[string]interface{}
}

type service struct {
	now func() time.Time
}

func NewService() Service {
	return &service{now: time.Now}
}

func (s *service) CalculateOptimalPrice(baseRate float64, area string, date time.Time, propertyType string, bedrooms int) *OptimalPrice {
	price := baseRate
	factors := PricingFactors{BaseRate: baseRate}

	areaMult, ok := AreaMultipliers[area]
	if !ok {
		areaMult = 1.0
	}
	price *= areaMult
	factors.AreaMultiplier = areaMult

	season := SeasonFor(date)
	seasonMult := SeasonalMultipliers[season]
	price *= seasonMult
	factors.SeasonalMultiplier = seasonMult
	factors.Season = season

	// The strongest active event sets the multiplier, floored at the seasonal
	// baseline: Ramadan's sub-1.0 factor is surfaced per event but never
	// drops the price below it.
	maxEventMult := 1.0
	active := []ActiveEvent{}
	for _, ev := range EventsFor(date) {
		mult := EventMultipliers[ev.Type]
		if mult == 0 {
			mult = 1.0
		}
		if mult > maxEventMult {
			maxEventMult = mult
		}
		active = append(active, ActiveEvent{Name: ev.Name, Type: ev.Type, Multiplier: mult})
	}
	price *= maxEventMult
	factors.EventMultiplier = maxEventMult
	factors.ActiveEvents = active

	// Weekend premium (Fri-Sat in the UAE).
	if wd := date.Weekday(); wd == time.Friday || wd == time.Saturday {
		price *= 1.2
		factors.WeekendMultiplier = 1.2
	}

	switch propertyType {
	case "villa":
		price *= 1.5
	case "penthouse":
		price *= 2.0
	case "studio":
		price *= 0.8
	}

	bedroomMult := 0.7 + float64(bedrooms)*0.3
	if bedroomMult < 0.5 {
		bedroomMult = 0.5
	}
	if bedroomMult > 3.0 {
		bedroomMult = 3.0
	}
	price *= bedroomMult
	factors.BedroomMultiplier = bedroomMult

	return &OptimalPrice{
		SuggestedPrice:  math.Round(price*100) / 100,
		PricingFactors:  factors,
		DemandLevel:     demandLevel(seasonMult, maxEventMult),
		Recommendations: pricingRecommendations(baseRate, price, active, season),
	}
}

func demandLevel(seasonMult, eventMult float64) string {
	total := seasonMult * eventMult
	switch {
	case total >= 2.5:
		return "Very High"
	case total >= 1.5:
		return "High"
	case total >= 1.0:
		return "Medium"
	default:
		return "Low"
	}
}

func pricingRecommendations(baseRate, suggested float64, events []ActiveEvent, season string) []string {
	recs := []string{}
	if baseRate > 0 && (suggested-baseRate)/baseRate*100 > 50 {
		recs = append(recs, "High demand period - consider premium positioning")
	}
	if len(events) > 0 {
		names := make([]string, len(events))
		for i, e := range events {
			names[i] = e.Name
		}
		recs = append(recs, fmt.Sprintf("Major events active: %s", strings.Join(names, ", ")))
	}
	switch season {
	case SeasonPeakWinter:
		recs = append(recs, "Peak winter season - maximize revenue with premium rates")
	case SeasonLowSummer:
		recs = append(recs, "Summer season - consider longer stay discounts")
	}
	return recs
}

func (s *service) PricingCalendar(baseRate float64, area string, daysAhead int, propertyType string, bedrooms int) []CalendarDay {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	start := s.now()
	calendar := make([]CalendarDay, 0, daysAhead)
	for i := 0; i < daysAhead; i++ {
		day := start.AddDate(0, 0, i)
		pricing := s.CalculateOptimalPrice(baseRate, area, day, propertyType, bedrooms)
		eventNames := make([]string, len(pricing.PricingFactors.ActiveEvents))
		for j, e := range pricing.PricingFactors.ActiveEvents {
			eventNames[j] = e.Name
		}
		calendar = append(calendar, CalendarDay{
			Date:           day.Format("2006-01-02"),
			DayName:        day.Weekday().String(),
			SuggestedPrice: pricing.SuggestedPrice,
			DemandLevel:    pricing.DemandLevel,
			ActiveEvents:   eventNames,
			Season:         pricing.PricingFactors.Season,
			PricingFactors: pricing.PricingFactors,
		})
	}
	return calendar
}

// Forecast projects monthly revenue off the seasonal curve with a sine
// variation and decaying confidence.
func (s *service) Forecast(monthsAhead int) map[string]interface{} {
	if monthsAhead <= 0 {
		monthsAhead = 12
	}
	const baseRevenue = 5000.0

	type monthForecast struct {
		Month              string  `json:"month"`
		MonthShort         string  `json:"month_short"`
		ForecastedRevenue  float64 `json:"forecasted_revenue"`
		Confidence         int     `json:"confidence"`
		Season             string  `json:"season"`
		SeasonalMultiplier float64 `json:"seasonal_multiplier"`
	}

	data := make([]monthForecast, 0, monthsAhead)
	for i := 0; i < monthsAhead; i++ {
		future := s.now().AddDate(0, 0, 30*i)
		season := SeasonFor(future)
		seasonMult := SeasonalMultipliers[season]
		variation := math.Sin(float64(i)*0.5)*0.1 + 1
		revenue := baseRevenue * seasonMult * variation
		confidence := 95 - i*3
		if confidence < 60 {
			confidence = 60
		}
		data = append(data, monthForecast{
			Month:              future.Format("Jan 2006"),
			MonthShort:         future.Format("Jan"),
			ForecastedRevenue:  math.Round(revenue*100) / 100,
			Confidence:         confidence,
			Season:             season,
			SeasonalMultiplier: seasonMult,
		})
	}

	sorted := make([]monthForecast, len(data))
	copy(sorted, data)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ForecastedRevenue < sorted[j].ForecastedRevenue
	})
	total := 0
	for _, f := range data {
		total += f.Confidence
	}

	return map[string]interface{}{
		"forecast_data": data,
		"insights": map[string]interface{}{
			"peak_month":         sorted[len(sorted)-1],
			"low_month":          sorted[0],
			"average_confidence": math.Round(float64(total)/float64(len(data))*10) / 10,
		},
	}
}

// Benchmarks derives area market metrics from the multiplier tables.
func (s *service) Benchmarks(area, propertyType string) map[string]interface{} {
	areaMult, ok := AreaMultipliers[area]
	if !ok {
		areaMult = 1.0
	}
	const baseADR = 120.0
	marketADR := baseADR * areaMult

	tier := "Budget"
	if areaMult >= 1.4 {
		tier = "Premium"
	} else if areaMult >= 1.0 {
		tier = "Standard"
	}
	seasonality := "Medium"
	if areaMult >= 1.3 {
		seasonality = "High"
	}

	return map[string]interface{}{
		"market_metrics": map[string]interface{}{
			"average_daily_rate":  math.Round(marketADR*100) / 100,
			"occupancy_rate":      math.Round((65+areaMult*10)*10) / 10,
			"revpar":              math.Round(marketADR*(0.65+areaMult*0.1)*100) / 100,
			"market_health_score": math.Round((60+areaMult*20)*10) / 10,
		},
		"area_insights": map[string]interface{}{
			"area":               titleCase(strings.ReplaceAll(area, "_", " ")),
			"tier":               tier,
			"primary_demand":     demandProfile(area),
			"seasonality_impact": seasonality,
		},
		"recommendations": areaRecommendations(area, areaMult),
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func demandProfile(area string) string {
	profiles := map[string]string{
		AreaMarina:       "Tourists & Business Travelers",
		AreaDowntown:     "Business & Conference Attendees",
		AreaJLT:          "Corporate Housing & Expats",
		AreaBusinessBay:  "Business Travelers",
		AreaJBR:          "Leisure Tourists",
		AreaPalmJumeirah: "Luxury Tourists",
		AreaJumeirah:     "Family Tourists",
		AreaDeira:        "Budget Travelers & Regional Visitors",
		AreaBurDubai:     "Cultural Tourists & Budget Travelers",
		AreaSiliconOasis: "Tech Workers & Long-term Stays",
	}
	if p, ok := profiles[area]; ok {
		return p
	}
	return "Mixed Demand"
}

func areaRecommendations(area string, multiplier float64) []string {
	var recs []string
	switch {
	case multiplier >= 1.5:
		recs = append(recs,
			"Premium positioning - focus on luxury amenities",
			"Target high-end business and leisure travelers")
	case multiplier >= 1.0:
		recs = append(recs,
			"Competitive rates with quality amenities",
			"Balanced approach for business and leisure")
	default:
		recs = append(recs,
			"Value positioning - emphasize cost-effectiveness",
			"Target budget-conscious and longer-stay guests")
	}

	switch area {
	case AreaMarina:
		recs = append(recs, "Highlight waterfront views and dining options")
	case AreaDowntown:
		recs = append(recs, "Emphasize business facilities and metro access")
	case AreaJLT:
		recs = append(recs, "Target corporate clients and metro connectivity")
	}
	return recs
}
