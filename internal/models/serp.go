package models

// Provider response document for a Google Flights search. Only the fields
// the analysis layer reads are modelled; everything else stays in the raw
// cached JSON.

type SearchDocument struct {
	SearchParameters map[string]any `json:"search_parameters,omitempty"`
	BestFlights      []FlightOption `json:"best_flights,omitempty"`
	OtherFlights     []FlightOption `json:"other_flights,omitempty"`
	PriceInsights    *PriceInsights `json:"price_insights,omitempty"`
	Error            string         `json:"error,omitempty"`
}

// FlightOption is one bookable itinerary: one or more legs plus the
// layovers between them.
type FlightOption struct {
	Flights         []FlightLeg      `json:"flights"`
	Layovers        []Layover        `json:"layovers,omitempty"`
	TotalDuration   int              `json:"total_duration"`
	CarbonEmissions *CarbonEmissions `json:"carbon_emissions,omitempty"`
	Price           float64          `json:"price"`
	Type            string           `json:"type,omitempty"`
	DepartureToken  string           `json:"departure_token,omitempty"`
	BookingToken    string           `json:"booking_token,omitempty"`
}

type FlightLeg struct {
	DepartureAirport AirportTime `json:"departure_airport"`
	ArrivalAirport   AirportTime `json:"arrival_airport"`
	Duration         int         `json:"duration"`
	Airplane         string      `json:"airplane,omitempty"`
	Airline          string      `json:"airline"`
	FlightNumber     string      `json:"flight_number,omitempty"`
	TravelClass      string      `json:"travel_class,omitempty"`
	Legroom          string      `json:"legroom,omitempty"`
	Overnight        bool        `json:"overnight,omitempty"`
	OftenDelayed     bool        `json:"often_delayed_by_over_30_min,omitempty"`
}

type AirportTime struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

type Layover struct {
	Duration  int    `json:"duration"`
	Name      string `json:"name"`
	ID        string `json:"id"`
	Overnight bool   `json:"overnight,omitempty"`
}

type CarbonEmissions struct {
	ThisFlight        int `json:"this_flight"`
	TypicalForRoute   int `json:"typical_for_this_route"`
	DifferencePercent int `json:"difference_percent"`
}

type PriceInsights struct {
	LowestPrice       float64   `json:"lowest_price"`
	PriceLevel        string    `json:"price_level"`
	TypicalPriceRange []float64 `json:"typical_price_range,omitempty"`
}

// Options returns best and other flights in provider ranking order.
func (d *SearchDocument) Options() []FlightOption {
	opts := make([]FlightOption, 0, len(d.BestFlights)+len(d.OtherFlights))
	opts = append(opts, d.BestFlights...)
	opts = append(opts, d.OtherFlights...)
	return opts
}
