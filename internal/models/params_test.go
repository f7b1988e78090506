package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func validRoundTrip() SearchParams {
	return SearchParams{
		Type:         TypeRoundTrip,
		DepartureID:  "CDG,ORY",
		ArrivalID:    "YYZ,YTZ",
		OutboundDate: "2025-06-15",
		ReturnDate:   "2025-06-22",
		Adults:       2,
		GL:           "ca",
		HL:           "en",
		Currency:     "CAD",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SearchParams)
		wantErr string
	}{
		{
			name:   "valid round trip",
			mutate: func(p *SearchParams) {},
		},
		{
			name: "valid one way without return date",
			mutate: func(p *SearchParams) {
				p.Type = TypeOneWay
				p.ReturnDate = ""
			},
		},
		{
			name:    "unknown type code",
			mutate:  func(p *SearchParams) { p.Type = 7 },
			wantErr: "type must be",
		},
		{
			name:    "missing departure",
			mutate:  func(p *SearchParams) { p.DepartureID = "" },
			wantErr: "departure_id is required",
		},
		{
			name:    "missing outbound date",
			mutate:  func(p *SearchParams) { p.OutboundDate = "" },
			wantErr: "outbound_date is required",
		},
		{
			name:    "lowercase IATA code",
			mutate:  func(p *SearchParams) { p.ArrivalID = "yyz" },
			wantErr: "not a comma-joined list",
		},
		{
			name:    "four letter code in list",
			mutate:  func(p *SearchParams) { p.DepartureID = "CDG,ORLY" },
			wantErr: "not a comma-joined list",
		},
		{
			name:    "impossible calendar date",
			mutate:  func(p *SearchParams) { p.OutboundDate = "2025-02-30" },
			wantErr: "not a valid YYYY-MM-DD date",
		},
		{
			name: "both airline filters set",
			mutate: func(p *SearchParams) {
				p.ExcludeAirlines = "AC"
				p.IncludeAirlines = "AF"
			},
			wantErr: "cannot be used together",
		},
		{
			name:    "negative passenger count",
			mutate:  func(p *SearchParams) { p.Adults = -1 },
			wantErr: "must not be negative",
		},
		{
			name:    "travel class out of range",
			mutate:  func(p *SearchParams) { p.TravelClass = intPtr(5) },
			wantErr: "out of range 1-4",
		},
		{
			name:    "stops out of range",
			mutate:  func(p *SearchParams) { p.Stops = intPtr(4) },
			wantErr: "out of range 0-3",
		},
		{
			name: "multi city with top level route",
			mutate: func(p *SearchParams) {
				p.Type = TypeMultiCity
				p.MultiCity = []MultiCitySegment{{DepartureID: "YOW", ArrivalID: "PEK", Date: "2026-05-25"}}
			},
			wantErr: "must not set departure_id",
		},
		{
			name: "multi city without segments",
			mutate: func(p *SearchParams) {
				p.Type = TypeMultiCity
				p.DepartureID = ""
				p.ArrivalID = ""
				p.OutboundDate = ""
				p.ReturnDate = ""
			},
			wantErr: "at least one segment",
		},
		{
			name: "multi city with bad segment date",
			mutate: func(p *SearchParams) {
				p.Type = TypeMultiCity
				p.DepartureID = ""
				p.ArrivalID = ""
				p.OutboundDate = ""
				p.ReturnDate = ""
				p.MultiCity = []MultiCitySegment{{DepartureID: "YOW", ArrivalID: "PEK", Date: "May 25"}}
			},
			wantErr: "not a valid YYYY-MM-DD date",
		},
		{
			name: "valid multi city",
			mutate: func(p *SearchParams) {
				p.Type = TypeMultiCity
				p.DepartureID = ""
				p.ArrivalID = ""
				p.OutboundDate = ""
				p.ReturnDate = ""
				p.MultiCity = []MultiCitySegment{
					{DepartureID: "YOW", ArrivalID: "PEK,PKX", Date: "2026-05-25"},
					{DepartureID: "PEK", ArrivalID: "YOW", Date: "2026-06-12"},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validRoundTrip()
			tt.mutate(&params)

			err := params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPayloadExcludesUnsetFields(t *testing.T) {
	params := validRoundTrip()
	payload := params.Payload()

	assert.Equal(t, "1", payload["type"])
	assert.Equal(t, "2", payload["adults"])
	assert.Equal(t, "CDG,ORY", payload["departure_id"])
	assert.Equal(t, "2025-06-15", payload["outbound_date"])

	for _, absent := range []string{"travel_class", "stops", "max_price", "bags", "exclude_airlines", "include_airlines", "children", "multi_city_json", "outbound_times"} {
		_, ok := payload[absent]
		assert.Falsef(t, ok, "payload should not contain %q", absent)
	}
}

func TestPayloadIncludesSetFields(t *testing.T) {
	params := validRoundTrip()
	params.TravelClass = intPtr(3)
	params.Stops = intPtr(0)
	params.Children = 1
	params.ExcludeAirlines = "AC,WS"

	payload := params.Payload()
	assert.Equal(t, "3", payload["travel_class"])
	assert.Equal(t, "0", payload["stops"], "stops=0 is meaningful and must survive")
	assert.Equal(t, "1", payload["children"])
	assert.Equal(t, "AC,WS", payload["exclude_airlines"])
}

func TestPayloadMultiCityJSON(t *testing.T) {
	params := SearchParams{
		Type:   TypeMultiCity,
		Adults: 1,
		MultiCity: []MultiCitySegment{
			{DepartureID: "YOW", ArrivalID: "PEK,PKX", Date: "2026-05-25", Times: "8,18"},
		},
	}
	require.NoError(t, params.Validate())

	payload := params.Payload()
	assert.JSONEq(t,
		`[{"departure_id":"YOW","arrival_id":"PEK,PKX","date":"2026-05-25","times":"8,18"}]`,
		payload["multi_city_json"])
}

func TestIsCanonicalDate(t *testing.T) {
	assert.True(t, IsCanonicalDate("2025-06-15"))
	assert.True(t, IsCanonicalDate("2024-02-29"))

	assert.False(t, IsCanonicalDate("2025-6-15"))
	assert.False(t, IsCanonicalDate("2025-02-30"))
	assert.False(t, IsCanonicalDate("2025-13-01"))
	assert.False(t, IsCanonicalDate("15/06/2025"))
	assert.False(t, IsCanonicalDate(""))
}

func TestIsIATAList(t *testing.T) {
	assert.True(t, IsIATAList("YOW"))
	assert.True(t, IsIATAList("JFK,LGA,EWR"))

	assert.False(t, IsIATAList(""))
	assert.False(t, IsIATAList("jfk"))
	assert.False(t, IsIATAList("JFK,"))
	assert.False(t, IsIATAList("JFKX"))
	assert.False(t, IsIATAList("JF1"))
}
