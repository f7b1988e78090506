package models

// FlightType is the trip shape extracted from the user request.
// A->B only is one_way, A->B->A is round_trip, anything else
// (open-jaw, three or more legs) is multi_city.
type FlightType string

const (
	FlightTypeOneWay    FlightType = "one_way"
	FlightTypeRoundTrip FlightType = "round_trip"
	FlightTypeMultiCity FlightType = "multi_city"
)

// SegmentIntent is one leg of a multi-city request, still in free text.
type SegmentIntent struct {
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Date      string `json:"date"`
	Times     string `json:"times,omitempty"`
}

// FlightIntent is the structured form of a natural-language flight request,
// produced once per request by the intent extractor and read-only afterwards.
// City and date fields are free text; resolution to IATA codes and canonical
// dates happens in the parameter builder.
type FlightIntent struct {
	FlightType    FlightType      `json:"flight_type"`
	DepartureCity string          `json:"departure_city"`
	ArrivalCity   string          `json:"arrival_city"`
	OutboundDate  string          `json:"outbound_date"`
	ReturnDate    string          `json:"return_date"`
	Segments      []SegmentIntent `json:"multi_city_segments"`

	Adults        *int `json:"adults"`
	Children      int  `json:"children"`
	InfantsInSeat int  `json:"infants_in_seat"`
	InfantsOnLap  int  `json:"infants_on_lap"`

	TravelClass   *int `json:"travel_class"`
	FlexibleDates bool `json:"flexible_dates"`
	Stops         *int `json:"stops"`
	MaxPrice      *int `json:"max_price"`
	Bags          *int `json:"bags"`

	ExcludeAirlines string `json:"exclude_airlines"`
	IncludeAirlines string `json:"include_airlines"`
	OutboundTimes   string `json:"outbound_times"`
	ReturnTimes     string `json:"return_times"`

	GL       string `json:"gl"`
	HL       string `json:"hl"`
	Currency string `json:"currency"`
}

// AdultCount returns the adult passenger count, defaulting to 1 when the
// field was absent from the extracted intent.
func (i *FlightIntent) AdultCount() int {
	if i.Adults == nil {
		return 1
	}
	return *i.Adults
}

// Locale returns gl/hl/currency with the service defaults applied.
func (i *FlightIntent) Locale() (gl, hl, currency string) {
	gl, hl, currency = i.GL, i.HL, i.Currency
	if gl == "" {
		gl = "ca"
	}
	if hl == "" {
		hl = "en"
	}
	if currency == "" {
		currency = "CAD"
	}
	return gl, hl, currency
}
