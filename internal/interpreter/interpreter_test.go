package interpreter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flexiflight/internal/airports"
	"github.com/dharmasatrya/flexiflight/internal/dates"
	"github.com/dharmasatrya/flexiflight/internal/llm"
	"github.com/dharmasatrya/flexiflight/internal/models"
)

type fakeCompleter struct {
	fn    func(req llm.Request) (string, error)
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.calls++
	return f.fn(req)
}

func newTestInterpreter(completer llm.Completer) *Interpreter {
	return New(completer, airports.NewResolver(completer), dates.NewNormalizer(completer))
}

func TestExtract(t *testing.T) {
	intentJSON := `{"flight_type": "round_trip", "departure_city": "Ottawa", "arrival_city": "Beijing", "outbound_date": "2026-05-25", "return_date": "2026-06-12", "adults": 2, "flexible_dates": true, "travel_class": 3}`

	tests := []struct {
		name     string
		response string
		respErr  error
		wantNil  bool
		wantDiag string
	}{
		{
			name:     "bare JSON object",
			response: intentJSON,
		},
		{
			name:     "JSON wrapped in commentary",
			response: "Sure, here is the parsed request:\n" + intentJSON + "\nLet me know if you need anything else.",
		},
		{
			name:     "braces inside string values",
			response: `{"flight_type": "one_way", "departure_city": "Ottawa {ON}", "arrival_city": "Beijing", "outbound_date": "2026-05-25"}`,
		},
		{
			name:     "no JSON region",
			response: "I could not understand the request.",
			wantNil:  true,
			wantDiag: "failed to extract JSON from LLM response",
		},
		{
			name:     "region is not valid JSON",
			response: "{flight_type: round_trip}",
			wantNil:  true,
			wantDiag: "failed to parse LLM response as JSON",
		},
		{
			name:     "transport failure",
			respErr:  errors.New("connection refused"),
			wantNil:  true,
			wantDiag: "error parsing user input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{fn: func(req llm.Request) (string, error) {
				assert.Contains(t, req.Messages[0].Content, "round trip Ottawa to Beijing")
				return tt.response, tt.respErr
			}}
			interp := newTestInterpreter(completer)

			intent, diags := interp.Extract(context.Background(), "round trip Ottawa to Beijing, May 25 to June 12 2026")
			if tt.wantNil {
				assert.Nil(t, intent)
				require.NotEmpty(t, diags)
				assert.Contains(t, diags[0], tt.wantDiag)
				return
			}

			require.NotNil(t, intent)
			assert.Empty(t, diags)
		})
	}
}

func TestExtractFieldDecoding(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.Request) (string, error) {
		return `{"flight_type": "round_trip", "departure_city": "Ottawa", "arrival_city": "Beijing",
			"outbound_date": "2026-05-25", "return_date": "2026-06-12", "adults": 2, "children": 1,
			"travel_class": null, "stops": 0, "flexible_dates": true, "gl": "ca", "hl": "en", "currency": "CAD"}`, nil
	}}
	interp := newTestInterpreter(completer)

	intent, diags := interp.Extract(context.Background(), "anything")
	require.NotNil(t, intent)
	assert.Empty(t, diags)

	assert.Equal(t, models.FlightTypeRoundTrip, intent.FlightType)
	assert.Equal(t, 2, intent.AdultCount())
	assert.Equal(t, 1, intent.Children)
	assert.Nil(t, intent.TravelClass)
	require.NotNil(t, intent.Stops)
	assert.Equal(t, 0, *intent.Stops)
	assert.True(t, intent.FlexibleDates)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`, true},
		{"leading prose", `note: {"a": 1} trailing`, `{"a": 1}`, true},
		{"nested objects", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`, true},
		{"brace in string", `{"a": "}"}`, `{"a": "}"}`, true},
		{"escaped quote in string", `{"a": "\"}"}`, `{"a": "\"}"}`, true},
		{"unbalanced", `{"a": 1`, "", false},
		{"no braces", "nothing here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpretAccumulatesDiagnostics(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.Request) (string, error) {
		return "", errors.New("service unavailable")
	}}
	interp := newTestInterpreter(completer)

	params, diags := interp.Interpret(context.Background(), "one way to Mars")
	assert.Empty(t, params)
	require.Len(t, diags, 2)
	assert.Contains(t, diags[0], "error parsing user input")
	assert.Contains(t, diags[1], "failed to parse user requirements")
}
