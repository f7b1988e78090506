package models

import "encoding/json"

// API envelopes returned by the HTTP handlers.

type SearchMetadata struct {
	VariantsQueried   int      `json:"variants_queried"`
	VariantsSucceeded int      `json:"variants_succeeded"`
	VariantsFailed    int      `json:"variants_failed"`
	FailedVariants    []string `json:"failed_variants,omitempty"`
	CacheHits         int      `json:"cache_hits"`
	SearchTimeMs      int64    `json:"search_time_ms"`
}

// VariantResult pairs one interpreted query variant with its raw provider
// document and, when requested, the analysed comparison.
type VariantResult struct {
	Params   SearchParams    `json:"params"`
	CacheHit bool            `json:"cache_hit"`
	Raw      json.RawMessage `json:"raw,omitempty"`
	Analysis *FlightAnalysis `json:"analysis,omitempty"`
}

type InterpretResponse struct {
	SearchID    string         `json:"search_id"`
	Query       string         `json:"query"`
	Params      []SearchParams `json:"params"`
	Diagnostics []string       `json:"diagnostics,omitempty"`
}

type SearchResponse struct {
	SearchID    string          `json:"search_id"`
	Query       string          `json:"query"`
	Metadata    SearchMetadata  `json:"metadata"`
	Results     []VariantResult `json:"results"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    int      `json:"code"`
	Details []string `json:"details,omitempty"`
}

// FlightAnalysis is the explained comparison produced by the analysis layer.
type FlightAnalysis struct {
	Context       AnalysisContext `json:"search_context"`
	TripStats     *TripStats      `json:"trip_statistics,omitempty"`
	PriceRange    *PriceRange     `json:"price_range,omitempty"`
	FlightOptions []OptionSummary `json:"flight_options"`
	Insight       json.RawMessage `json:"llm_analysis,omitempty"`
	InsightError  string          `json:"llm_analysis_error,omitempty"`
}

type AnalysisContext struct {
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	OutboundDate string `json:"outbound_date,omitempty"`
	ReturnDate   string `json:"return_date,omitempty"`
	Currency     string `json:"currency,omitempty"`
}

type TripStats struct {
	TripDays    int `json:"trip_days"`
	WeekendDays int `json:"weekend_days"`
	HolidayDays int `json:"holiday_days"`
	WeekdayDays int `json:"weekday_days"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// OptionSummary is the condensed view of one itinerary handed to the LLM
// and returned to the caller.
type OptionSummary struct {
	OptionIndex      int      `json:"option_index"`
	TotalPrice       string   `json:"total_price"`
	TotalDuration    string   `json:"total_duration_hours"`
	DepartureAirport string   `json:"departure_airport"`
	ArrivalAirport   string   `json:"arrival_airport"`
	NumStops         int      `json:"num_stops"`
	Airlines         []string `json:"airlines"`
	Layovers         []string `json:"layovers,omitempty"`
	Overnight        bool     `json:"has_overnight_layover,omitempty"`
	OftenDelayed     bool     `json:"often_delayed,omitempty"`
	CarbonGrams      int      `json:"carbon_emissions_grams,omitempty"`
	ValueScore       float64  `json:"value_score"`
}
