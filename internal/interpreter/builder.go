package interpreter

import (
	"context"
	"fmt"
	"log"

	"github.com/dharmasatrya/flexiflight/internal/dates"
	"github.com/dharmasatrya/flexiflight/internal/models"
)

// Build turns an extracted intent into zero or more validated search
// parameter records. One-way and round-trip intents abort entirely when a
// mandatory field cannot be resolved; multi-city intents drop bad segments
// and fail only when none survive. Flexible dates add two variants at day
// offsets -1 and +1, shifting outbound and return together.
func (i *Interpreter) Build(ctx context.Context, intent *models.FlightIntent) ([]models.SearchParams, []string) {
	if intent.FlightType == models.FlightTypeMultiCity {
		return i.buildMultiCity(ctx, intent)
	}
	return i.buildTrip(ctx, intent)
}

func (i *Interpreter) buildMultiCity(ctx context.Context, intent *models.FlightIntent) ([]models.SearchParams, []string) {
	var diags []string

	segments := make([]models.MultiCitySegment, 0, len(intent.Segments))
	for idx, seg := range intent.Segments {
		depID, depErr := i.airports.Resolve(ctx, seg.Departure)
		arrID, arrErr := i.airports.Resolve(ctx, seg.Arrival)
		date := ""
		var dateErr error
		if seg.Date != "" {
			date, dateErr = i.dates.Normalize(ctx, seg.Date)
		}

		if depErr != nil || arrErr != nil || dateErr != nil || seg.Date == "" {
			diags = append(diags, fmt.Sprintf("skipping segment %d (%s -> %s): missing or unresolvable departure, arrival or date", idx, seg.Departure, seg.Arrival))
			continue
		}

		segments = append(segments, models.MultiCitySegment{
			DepartureID: depID,
			ArrivalID:   arrID,
			Date:        date,
			Times:       seg.Times,
		})
	}

	if len(segments) == 0 {
		return nil, append(diags, "multi-city flight specified but no valid segments found")
	}

	gl, hl, currency := intent.Locale()
	params := models.SearchParams{
		Type:          models.TypeMultiCity,
		MultiCity:     segments,
		Adults:        intent.AdultCount(),
		Children:      intent.Children,
		InfantsInSeat: intent.InfantsInSeat,
		InfantsOnLap:  intent.InfantsOnLap,
		TravelClass:   intent.TravelClass,
		Stops:         intent.Stops,
		GL:            gl,
		HL:            hl,
		Currency:      currency,
	}

	return appendValidated(nil, params, &diags), diags
}

func (i *Interpreter) buildTrip(ctx context.Context, intent *models.FlightIntent) ([]models.SearchParams, []string) {
	var diags []string

	if intent.DepartureCity == "" || intent.ArrivalCity == "" {
		return nil, append(diags, "departure and arrival cities are required")
	}

	departureID, err := i.airports.Resolve(ctx, intent.DepartureCity)
	if err != nil {
		return nil, append(diags, fmt.Sprintf("could not resolve departure city %q to IATA codes", intent.DepartureCity))
	}
	arrivalID, err := i.airports.Resolve(ctx, intent.ArrivalCity)
	if err != nil {
		return nil, append(diags, fmt.Sprintf("could not resolve arrival city %q to IATA codes", intent.ArrivalCity))
	}

	if intent.OutboundDate == "" {
		return nil, append(diags, "outbound date is required")
	}
	outboundDate, err := i.dates.Normalize(ctx, intent.OutboundDate)
	if err != nil {
		return nil, append(diags, fmt.Sprintf("could not normalize outbound date %q", intent.OutboundDate))
	}

	// Return date only matters for round trips; anything the intent carries
	// for a one-way is dropped.
	returnDate := ""
	typeCode := models.TypeOneWay
	if intent.FlightType == models.FlightTypeRoundTrip {
		typeCode = models.TypeRoundTrip
		if intent.ReturnDate != "" {
			returnDate, err = i.dates.Normalize(ctx, intent.ReturnDate)
			if err != nil {
				diags = append(diags, fmt.Sprintf("could not normalize return date %q, searching without it", intent.ReturnDate))
				returnDate = ""
			}
		}
	}

	gl, hl, currency := intent.Locale()
	base := models.SearchParams{
		Type:            typeCode,
		DepartureID:     departureID,
		ArrivalID:       arrivalID,
		OutboundDate:    outboundDate,
		ReturnDate:      returnDate,
		Adults:          intent.AdultCount(),
		Children:        intent.Children,
		InfantsInSeat:   intent.InfantsInSeat,
		InfantsOnLap:    intent.InfantsOnLap,
		TravelClass:     intent.TravelClass,
		Stops:           intent.Stops,
		MaxPrice:        intent.MaxPrice,
		Bags:            intent.Bags,
		ExcludeAirlines: intent.ExcludeAirlines,
		IncludeAirlines: intent.IncludeAirlines,
		OutboundTimes:   intent.OutboundTimes,
		ReturnTimes:     intent.ReturnTimes,
		GL:              gl,
		HL:              hl,
		Currency:        currency,
	}

	result := appendValidated(nil, base, &diags)

	if intent.FlexibleDates {
		for _, offset := range []int{-1, 1} {
			variant, err := shiftDates(base, offset)
			if err != nil {
				diags = append(diags, fmt.Sprintf("could not generate flexible date variant at %+d days: %v", offset, err))
				continue
			}
			result = appendValidated(result, variant, &diags)
		}
	}

	return result, diags
}

// shiftDates derives a flexible-date variant: outbound and return move by
// the same offset, never independently.
func shiftDates(base models.SearchParams, days int) (models.SearchParams, error) {
	variant := base

	shifted, err := dates.Shift(base.OutboundDate, days)
	if err != nil {
		return models.SearchParams{}, err
	}
	variant.OutboundDate = shifted

	if base.ReturnDate != "" {
		shifted, err := dates.Shift(base.ReturnDate, days)
		if err != nil {
			return models.SearchParams{}, err
		}
		variant.ReturnDate = shifted
	}

	return variant, nil
}

// appendValidated appends params only if it passes construction validation;
// an invalid record is logged and reported but never aborts its siblings.
func appendValidated(list []models.SearchParams, params models.SearchParams, diags *[]string) []models.SearchParams {
	if err := params.Validate(); err != nil {
		log.Printf("interpreter: dropping invalid search params (%s): %v", params.Route(), err)
		*diags = append(*diags, fmt.Sprintf("dropped invalid search query (%s): %v", params.Route(), err))
		return list
	}
	return append(list, params)
}
