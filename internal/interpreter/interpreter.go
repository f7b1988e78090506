// Package interpreter turns free-text flight requests into validated
// search parameter records. The pipeline is: extract a structured intent
// through the text-interpretation service, resolve cities and dates through
// their fallback chains, then build and validate provider queries.
package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dharmasatrya/flexiflight/internal/airports"
	"github.com/dharmasatrya/flexiflight/internal/dates"
	"github.com/dharmasatrya/flexiflight/internal/llm"
	"github.com/dharmasatrya/flexiflight/internal/models"
)

type Interpreter struct {
	completer llm.Completer
	airports  *airports.Resolver
	dates     *dates.Normalizer
}

func New(completer llm.Completer, resolver *airports.Resolver, normalizer *dates.Normalizer) *Interpreter {
	return &Interpreter{
		completer: completer,
		airports:  resolver,
		dates:     normalizer,
	}
}

// Interpret runs the full pipeline. Expected failures come back as
// human-readable diagnostics next to a possibly empty result list; an empty
// list with non-empty diagnostics means no usable query could be built.
func (i *Interpreter) Interpret(ctx context.Context, userText string) ([]models.SearchParams, []string) {
	intent, diags := i.Extract(ctx, userText)
	if intent == nil {
		return nil, append(diags, "failed to parse user requirements")
	}

	params, buildDiags := i.Build(ctx, intent)
	return params, append(diags, buildDiags...)
}

const intentPrompt = `You are a flight search intent parser. Analyze the user's flight request and extract the following information.

User Request: %s

IMPORTANT NOTES:
- For cities with multiple airports (e.g., New York, London, Paris), list ALL major airports separated by commas
- Examples: "New York" -> "JFK,LGA,EWR", "London" -> "LHR,LGW,STN", "Paris" -> "CDG,ORY"
- This allows searching across all airports in a city for better options

FLIGHT TYPE RULES:
- A to B with no return: "one_way"
- A to B and back to A: "round_trip"
- Anything else, including open-jaw trips or three or more legs: "multi_city"

Please provide the output as a valid JSON object with ONLY these fields (include all fields, use null for missing):
- flight_type: "one_way", "round_trip", or "multi_city" (required)
- departure_city: city name or airport code(s) for departure, separated by comma if multiple (required for one_way/round_trip)
- arrival_city: city name or airport code(s) for arrival, separated by comma if multiple (required for one_way/round_trip)
- outbound_date: date in YYYY-MM-DD format or relative date like "tomorrow", "next Monday" (required)
- return_date: date in YYYY-MM-DD format (only for round_trip)
- multi_city_segments: list of segments ONLY for multi_city flights. Each segment has: departure, arrival, date, times (optional)
- adults: number of adults (default 1)
- children: number of children (default 0)
- infants_in_seat: number of infants in seat (default 0)
- infants_on_lap: number of infants on lap (default 0)
- travel_class: 1=Economy, 2=Premium Economy, 3=Business, 4=First (null if not specified)
- flexible_dates: boolean (true if user mentions flexible dates)
- stops: 0=any, 1=nonstop, 2=1 stop or fewer, 3=2 stops or fewer (null if not specified)
- max_price: integer price limit in local currency (null if not specified)
- bags: number of carry-on bags (null if not specified)
- exclude_airlines: comma-separated airline codes to exclude (null if not specified)
- include_airlines: comma-separated airline codes to include (null if not specified)
- outbound_times: time range like "8,18" for 8am-6pm departure (null if not specified)
- return_times: time range for return flight (null if not specified)
- gl: 2-letter country code (default "ca")
- hl: 2-letter language code (default "en")
- currency: 3-letter currency code (default "CAD")

Return ONLY valid JSON without any markdown, explanation, or extra text.
Example output:
{"flight_type": "round_trip", "departure_city": "JFK,LGA,EWR", "arrival_city": "CDG,ORY", "outbound_date": "2025-06-15", "return_date": "2025-06-22", "adults": 2, "children": 0, "infants_in_seat": 0, "infants_on_lap": 0, "travel_class": null, "flexible_dates": false, "stops": null, "max_price": null, "bags": null, "exclude_airlines": null, "include_airlines": null, "outbound_times": null, "return_times": null, "multi_city_segments": null, "gl": "ca", "hl": "en", "currency": "CAD"}`

// Extract asks the text-interpretation service for the structured intent.
// All failure modes (transport error, no JSON in the response, invalid JSON)
// return a nil intent plus diagnostics; nothing is retried here.
func (i *Interpreter) Extract(ctx context.Context, userText string) (*models.FlightIntent, []string) {
	response, err := i.completer.Complete(ctx, llm.Request{
		Messages: []llm.Message{{Role: "user", Content: fmt.Sprintf(intentPrompt, userText)}},
	})
	if err != nil {
		return nil, []string{fmt.Sprintf("error parsing user input: %v", err)}
	}

	region, ok := extractJSONObject(response)
	if !ok {
		return nil, []string{"failed to extract JSON from LLM response"}
	}

	var intent models.FlightIntent
	if err := json.Unmarshal([]byte(region), &intent); err != nil {
		return nil, []string{fmt.Sprintf("failed to parse LLM response as JSON: %v", err)}
	}
	return &intent, nil
}

// extractJSONObject returns the first balanced {...} region in s, tolerating
// commentary the service may wrap around the object. Braces inside JSON
// strings are skipped.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for idx := start; idx < len(s); idx++ {
		c := s[idx]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : idx+1], true
			}
		}
	}
	return "", false
}
