package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Trip type codes understood by the search provider.
const (
	TypeRoundTrip = 1
	TypeOneWay    = 2
	TypeMultiCity = 3
)

var canonicalDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsCanonicalDate reports whether s is a YYYY-MM-DD string naming a real
// calendar date.
func IsCanonicalDate(s string) bool {
	if !canonicalDateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsIATACode reports whether code is a single 3-letter uppercase IATA code.
func IsIATACode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// IsIATAList reports whether s is one or more comma-joined IATA codes.
func IsIATAList(s string) bool {
	if s == "" {
		return false
	}
	for _, code := range strings.Split(s, ",") {
		if !IsIATACode(strings.TrimSpace(code)) {
			return false
		}
	}
	return true
}

// MultiCitySegment is one leg of a multi-city search. Ordering within the
// segment list is flight order.
type MultiCitySegment struct {
	DepartureID string `json:"departure_id"`
	ArrivalID   string `json:"arrival_id"`
	Date        string `json:"date"`
	Times       string `json:"times,omitempty"`
}

// SearchParams is a fully validated provider query. Constructed by the
// parameter builder, checked with Validate at construction, then passed by
// value and never mutated.
type SearchParams struct {
	Type int `json:"type"`

	DepartureID  string             `json:"departure_id,omitempty"`
	ArrivalID    string             `json:"arrival_id,omitempty"`
	OutboundDate string             `json:"outbound_date,omitempty"`
	ReturnDate   string             `json:"return_date,omitempty"`
	MultiCity    []MultiCitySegment `json:"multi_city_json,omitempty"`

	Adults        int `json:"adults"`
	Children      int `json:"children,omitempty"`
	InfantsInSeat int `json:"infants_in_seat,omitempty"`
	InfantsOnLap  int `json:"infants_on_lap,omitempty"`

	TravelClass *int `json:"travel_class,omitempty"`
	Stops       *int `json:"stops,omitempty"`
	MaxPrice    *int `json:"max_price,omitempty"`
	Bags        *int `json:"bags,omitempty"`

	ExcludeAirlines string `json:"exclude_airlines,omitempty"`
	IncludeAirlines string `json:"include_airlines,omitempty"`
	OutboundTimes   string `json:"outbound_times,omitempty"`
	ReturnTimes     string `json:"return_times,omitempty"`

	GL       string `json:"gl,omitempty"`
	HL       string `json:"hl,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrBadType             ValidationError = "type must be 1 (round trip), 2 (one way) or 3 (multi-city)"
	ErrMissingDeparture    ValidationError = "departure_id is required for one-way and round-trip searches"
	ErrMissingArrival      ValidationError = "arrival_id is required for one-way and round-trip searches"
	ErrMissingOutboundDate ValidationError = "outbound_date is required for one-way and round-trip searches"
	ErrMissingSegments     ValidationError = "multi-city searches need at least one segment"
	ErrAmbiguousRoute      ValidationError = "multi-city searches must not set departure_id, arrival_id or trip dates"
	ErrAirlineFilters      ValidationError = "exclude_airlines and include_airlines cannot be used together"
)

// Validate checks every construction invariant. It is called once when the
// builder emits a record; a failing record is dropped, not repaired.
func (p SearchParams) Validate() error {
	switch p.Type {
	case TypeRoundTrip, TypeOneWay:
		if p.MultiCity != nil {
			return ValidationError("multi_city_json is only valid for type 3 searches")
		}
		if p.DepartureID == "" {
			return ErrMissingDeparture
		}
		if p.ArrivalID == "" {
			return ErrMissingArrival
		}
		if !IsIATAList(p.DepartureID) {
			return ValidationError(fmt.Sprintf("departure_id %q is not a comma-joined list of 3-letter IATA codes", p.DepartureID))
		}
		if !IsIATAList(p.ArrivalID) {
			return ValidationError(fmt.Sprintf("arrival_id %q is not a comma-joined list of 3-letter IATA codes", p.ArrivalID))
		}
		if p.OutboundDate == "" {
			return ErrMissingOutboundDate
		}
		if !IsCanonicalDate(p.OutboundDate) {
			return ValidationError(fmt.Sprintf("outbound_date %q is not a valid YYYY-MM-DD date", p.OutboundDate))
		}
		if p.ReturnDate != "" && !IsCanonicalDate(p.ReturnDate) {
			return ValidationError(fmt.Sprintf("return_date %q is not a valid YYYY-MM-DD date", p.ReturnDate))
		}
	case TypeMultiCity:
		if p.DepartureID != "" || p.ArrivalID != "" || p.OutboundDate != "" || p.ReturnDate != "" {
			return ErrAmbiguousRoute
		}
		if len(p.MultiCity) == 0 {
			return ErrMissingSegments
		}
		for i, seg := range p.MultiCity {
			if !IsIATAList(seg.DepartureID) {
				return ValidationError(fmt.Sprintf("segment %d: departure_id %q is not a valid IATA list", i, seg.DepartureID))
			}
			if !IsIATAList(seg.ArrivalID) {
				return ValidationError(fmt.Sprintf("segment %d: arrival_id %q is not a valid IATA list", i, seg.ArrivalID))
			}
			if !IsCanonicalDate(seg.Date) {
				return ValidationError(fmt.Sprintf("segment %d: date %q is not a valid YYYY-MM-DD date", i, seg.Date))
			}
		}
	default:
		return ErrBadType
	}

	if p.ExcludeAirlines != "" && p.IncludeAirlines != "" {
		return ErrAirlineFilters
	}
	if p.Adults < 0 || p.Children < 0 || p.InfantsInSeat < 0 || p.InfantsOnLap < 0 {
		return ValidationError("passenger counts must not be negative")
	}
	if p.TravelClass != nil && (*p.TravelClass < 1 || *p.TravelClass > 4) {
		return ValidationError(fmt.Sprintf("travel_class %d is out of range 1-4", *p.TravelClass))
	}
	if p.Stops != nil && (*p.Stops < 0 || *p.Stops > 3) {
		return ValidationError(fmt.Sprintf("stops %d is out of range 0-3", *p.Stops))
	}
	return nil
}

// Payload renders the flat field map sent to the search provider. Unset
// fields are excluded entirely so that null and absent hash and serialize
// the same way. Multi-city segments are embedded as a compact JSON array.
func (p SearchParams) Payload() map[string]string {
	out := map[string]string{
		"type":   strconv.Itoa(p.Type),
		"adults": strconv.Itoa(p.Adults),
	}

	setStr := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	setInt := func(key string, v int) {
		if v != 0 {
			out[key] = strconv.Itoa(v)
		}
	}
	setPtr := func(key string, v *int) {
		if v != nil {
			out[key] = strconv.Itoa(*v)
		}
	}

	setStr("departure_id", p.DepartureID)
	setStr("arrival_id", p.ArrivalID)
	setStr("outbound_date", p.OutboundDate)
	setStr("return_date", p.ReturnDate)
	if len(p.MultiCity) > 0 {
		// Marshalling a slice of plain structs cannot fail.
		b, _ := json.Marshal(p.MultiCity)
		out["multi_city_json"] = string(b)
	}

	setInt("children", p.Children)
	setInt("infants_in_seat", p.InfantsInSeat)
	setInt("infants_on_lap", p.InfantsOnLap)

	setPtr("travel_class", p.TravelClass)
	setPtr("stops", p.Stops)
	setPtr("max_price", p.MaxPrice)
	setPtr("bags", p.Bags)

	setStr("exclude_airlines", p.ExcludeAirlines)
	setStr("include_airlines", p.IncludeAirlines)
	setStr("outbound_times", p.OutboundTimes)
	setStr("return_times", p.ReturnTimes)

	setStr("gl", p.GL)
	setStr("hl", p.HL)
	setStr("currency", p.Currency)

	return out
}

// Route is a short human-readable description used in logs and diagnostics.
func (p SearchParams) Route() string {
	if p.Type == TypeMultiCity {
		legs := make([]string, len(p.MultiCity))
		for i, seg := range p.MultiCity {
			legs[i] = seg.DepartureID + ">" + seg.ArrivalID
		}
		return strings.Join(legs, " ")
	}
	return p.DepartureID + ">" + p.ArrivalID + " " + p.OutboundDate
}
