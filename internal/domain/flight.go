package domain

import (
	"regexp"
	"strings"
	"time"
)

type FlightStatus string

const (
	FlightStatusUpcoming  FlightStatus = "upcoming"
	FlightStatusBoarding  FlightStatus = "boarding"
	FlightStatusDeparted  FlightStatus = "departed"
	FlightStatusCancelled FlightStatus = "cancelled"
)

type Airport struct {
	AirportCode string `json:"airport_code"`
	AirportName string `json:"airport_name"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Timezone    string `json:"timezone"`
}

// LegacyFlight is a flight created inside the platform itself.
type LegacyFlight struct {
	ID           string       `json:"id"`
	FlightNumber string       `json:"flight_number"`
	Airline      string       `json:"airline"`
	Departure    Airport      `json:"departure"`
	Arrival      Airport      `json:"arrival"`
	CreatedBy    string       `json:"created_by"`
	Status       FlightStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// AmadeusOffer is a flight offer as returned by the Amadeus search API.
// Field names follow the upstream camelCase payload.
type AmadeusOffer struct {
	ID                     string      `json:"id"`
	Itineraries            []Itinerary `json:"itineraries"`
	Price                  OfferPrice  `json:"price"`
	ValidatingAirlineCodes []string    `json:"validatingAirlineCodes"`
	NumberOfBookableSeats  int         `json:"numberOfBookableSeats"`
	OneWay                 bool        `json:"oneWay"`
	Source                 string      `json:"source"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Departure     SegmentPoint `json:"departure"`
	Arrival       SegmentPoint `json:"arrival"`
	CarrierCode   string       `json:"carrierCode"`
	Number        string       `json:"number"`
	Duration      string       `json:"duration"`
	NumberOfStops int          `json:"numberOfStops"`
}

type SegmentPoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type OfferPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	Base       string `json:"base"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

// Flight is a tagged union over the two payload shapes the search surface
// can return. Exactly one of the two fields is set.
type Flight struct {
	Legacy *LegacyFlight `json:"legacy,omitempty"`
	Offer  *AmadeusOffer `json:"offer,omitempty"`
}

var airlineNames = map[string]string{
	"IB": "Iberia",
	"UX": "Air Europa",
	"VY": "Vueling",
	"AA": "American Airlines",
	"BA": "British Airways",
	"AF": "Air France",
	"LH": "Lufthansa",
}

func (f Flight) ID() string {
	if f.Legacy != nil {
		return f.Legacy.ID
	}
	if f.Offer != nil {
		return f.Offer.ID
	}
	return ""
}

func (f Flight) FlightNumber() string {
	if f.Legacy != nil {
		return f.Legacy.FlightNumber
	}
	if s := f.firstSegment(); s != nil {
		return s.CarrierCode + s.Number
	}
	return ""
}

// AirlineName resolves a two-letter carrier code to a display name, falling
// back to the code itself for carriers not in the table.
func (f Flight) AirlineName() string {
	if f.Legacy != nil {
		return f.Legacy.Airline
	}
	if s := f.firstSegment(); s != nil {
		if name, ok := airlineNames[s.CarrierCode]; ok {
			return name
		}
		return s.CarrierCode
	}
	return ""
}

func (f Flight) DepartureCode() string {
	if f.Legacy != nil {
		return f.Legacy.Departure.AirportCode
	}
	if s := f.firstSegment(); s != nil {
		return s.Departure.IATACode
	}
	return ""
}

func (f Flight) ArrivalCode() string {
	if f.Legacy != nil {
		return f.Legacy.Arrival.AirportCode
	}
	if s := f.lastSegment(); s != nil {
		return s.Arrival.IATACode
	}
	return ""
}

func (f Flight) DepartureTime() (time.Time, bool) {
	if f.Legacy != nil {
		return parseAirportTime(f.Legacy.Departure)
	}
	if s := f.firstSegment(); s != nil {
		return parsePointTime(s.Departure)
	}
	return time.Time{}, false
}

func (f Flight) ArrivalTime() (time.Time, bool) {
	if f.Legacy != nil {
		return parseAirportTime(f.Legacy.Arrival)
	}
	if s := f.lastSegment(); s != nil {
		return parsePointTime(s.Arrival)
	}
	return time.Time{}, false
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// Duration returns the itinerary duration formatted for display, e.g.
// "PT1H25M" becomes "1h 25m". Legacy flights carry no duration.
func (f Flight) Duration() string {
	if f.Offer == nil || len(f.Offer.Itineraries) == 0 {
		return ""
	}
	raw := f.Offer.Itineraries[0].Duration
	m := durationPattern.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	var parts []string
	if m[1] != "" {
		parts = append(parts, m[1]+"h")
	}
	if m[2] != "" {
		parts = append(parts, m[2]+"m")
	}
	return strings.Join(parts, " ")
}

func (f Flight) firstSegment() *Segment {
	if f.Offer == nil || len(f.Offer.Itineraries) == 0 || len(f.Offer.Itineraries[0].Segments) == 0 {
		return nil
	}
	return &f.Offer.Itineraries[0].Segments[0]
}

func (f Flight) lastSegment() *Segment {
	if f.Offer == nil || len(f.Offer.Itineraries) == 0 {
		return nil
	}
	segs := f.Offer.Itineraries[0].Segments
	if len(segs) == 0 {
		return nil
	}
	return &segs[len(segs)-1]
}

func parseAirportTime(a Airport) (time.Time, bool) {
	t, err := time.Parse("2006-01-02 15:04:05", a.Date+" "+a.Time)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parsePointTime(p SegmentPoint) (time.Time, bool) {
	t, err := time.Parse("2006-01-02T15:04:05", p.At)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
