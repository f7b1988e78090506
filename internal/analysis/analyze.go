// Package analysis turns raw provider documents into a ranked, explained
// comparison: numeric per-option summaries, a value score, trip calendar
// context, and an LLM-written trade-off analysis on top.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dharmasatrya/flexiflight/internal/llm"
	"github.com/dharmasatrya/flexiflight/internal/models"
	"github.com/dharmasatrya/flexiflight/pkg/currency"
)

const defaultTopN = 5

type Analyzer struct {
	completer llm.Completer
	topN      int
	holidays  map[string]bool
}

type Option func(*Analyzer)

// WithTopN bounds how many options are summarised and sent to the LLM.
func WithTopN(n int) Option {
	return func(a *Analyzer) {
		a.topN = n
	}
}

// WithHolidays supplies public holidays (YYYY-MM-DD) for trip statistics.
func WithHolidays(dates []string) Option {
	return func(a *Analyzer) {
		for _, d := range dates {
			a.holidays[d] = true
		}
	}
}

func NewAnalyzer(completer llm.Completer, opts ...Option) *Analyzer {
	a := &Analyzer{
		completer: completer,
		topN:      defaultTopN,
		holidays:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze parses the raw document and produces the full comparison. The LLM
// step is best effort: when it fails, the numeric summary is returned with
// InsightError set.
func (a *Analyzer) Analyze(ctx context.Context, params models.SearchParams, raw json.RawMessage) (*models.FlightAnalysis, error) {
	var doc models.SearchDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("analysis: parsing provider document: %w", err)
	}

	result := a.summarize(params, &doc)
	if len(result.FlightOptions) == 0 {
		return result, nil
	}

	insight, err := a.compareWithLLM(ctx, result.FlightOptions)
	if err != nil {
		log.Printf("analysis: llm comparison failed: %v", err)
		result.InsightError = err.Error()
		return result, nil
	}
	result.Insight = insight

	return result, nil
}

func (a *Analyzer) summarize(params models.SearchParams, doc *models.SearchDocument) *models.FlightAnalysis {
	options := doc.Options()
	if len(options) > a.topN {
		options = options[:a.topN]
	}

	result := &models.FlightAnalysis{
		Context: models.AnalysisContext{
			Departure:    params.DepartureID,
			Arrival:      params.ArrivalID,
			OutboundDate: params.OutboundDate,
			ReturnDate:   params.ReturnDate,
			Currency:     params.Currency,
		},
		FlightOptions: summarizeOptions(options, params.Currency),
	}

	if params.OutboundDate != "" && params.ReturnDate != "" {
		if stats, ok := tripStats(params.OutboundDate, params.ReturnDate, a.holidays); ok {
			result.TripStats = &stats
		}
	}

	if len(options) > 0 {
		min, max := options[0].Price, options[0].Price
		for _, opt := range options[1:] {
			if opt.Price < min {
				min = opt.Price
			}
			if opt.Price > max {
				max = opt.Price
			}
		}
		result.PriceRange = &models.PriceRange{Min: min, Max: max}
	}

	return result
}

func summarizeOptions(options []models.FlightOption, currencyCode string) []models.OptionSummary {
	summaries := make([]models.OptionSummary, 0, len(options))
	for idx, opt := range options {
		if len(opt.Flights) == 0 {
			continue
		}

		first := opt.Flights[0]
		last := opt.Flights[len(opt.Flights)-1]

		airlines := make([]string, 0, len(opt.Flights))
		seen := make(map[string]bool)
		oftenDelayed := false
		for _, leg := range opt.Flights {
			if !seen[leg.Airline] {
				seen[leg.Airline] = true
				airlines = append(airlines, leg.Airline)
			}
			if leg.OftenDelayed {
				oftenDelayed = true
			}
		}

		layovers := make([]string, 0, len(opt.Layovers))
		overnight := false
		for _, l := range opt.Layovers {
			desc := fmt.Sprintf("%s (%s), %s", l.Name, l.ID, formatDuration(l.Duration))
			if l.Overnight {
				desc += ", overnight"
				overnight = true
			}
			layovers = append(layovers, desc)
		}

		carbon := 0
		if opt.CarbonEmissions != nil {
			carbon = opt.CarbonEmissions.ThisFlight
		}

		summaries = append(summaries, models.OptionSummary{
			OptionIndex:      idx,
			TotalPrice:       currency.Format(currencyCode, opt.Price),
			TotalDuration:    formatDuration(opt.TotalDuration),
			DepartureAirport: first.DepartureAirport.ID,
			ArrivalAirport:   last.ArrivalAirport.ID,
			NumStops:         len(opt.Flights) - 1,
			Airlines:         airlines,
			Layovers:         layovers,
			Overnight:        overnight,
			OftenDelayed:     oftenDelayed,
			CarbonGrams:      carbon,
		})
	}

	return scoreOptions(summaries, options)
}

// tripStats counts weekend, holiday and weekday days over the trip span.
func tripStats(outbound, ret string, holidays map[string]bool) (models.TripStats, bool) {
	start, err := time.Parse("2006-01-02", outbound)
	if err != nil {
		return models.TripStats{}, false
	}
	end, err := time.Parse("2006-01-02", ret)
	if err != nil || end.Before(start) {
		return models.TripStats{}, false
	}

	stats := models.TripStats{}
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		stats.TripDays++
		switch {
		case current.Weekday() == time.Saturday || current.Weekday() == time.Sunday:
			stats.WeekendDays++
		case holidays[current.Format("2006-01-02")]:
			stats.HolidayDays++
		}
	}
	stats.WeekdayDays = stats.TripDays - stats.WeekendDays - stats.HolidayDays
	return stats, true
}

func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

const comparePrompt = `Analyze the following flight options and provide a structured comparison.
For each option, explain:
- Why it's a good choice (pros)
- Trade-offs or drawbacks (cons)
- Overall recommendation

Consider:
- Number of stops and layover times (prefer fewer stops and shorter layovers)
- Total cost (prefer lower prices)
- Total duration
- Airline reputation (if known, prefer major carriers)
- Overnight layovers (try to avoid)
- Flight delay risks (if marked as "often_delayed")
- Travel convenience

Flight Options:
%s

Provide your analysis in JSON format with this structure:
{
    "options": [
        {
            "option_index": 0,
            "pros": ["list of advantages"],
            "cons": ["list of disadvantages"],
            "trade_offs": "explanation of key trade-offs",
            "recommendation_score": "HIGH/MEDIUM/LOW with brief explanation"
        }
    ],
    "best_option": {"index": N, "reason": "explanation"},
    "general_insights": ["insight1", "insight2", ...]
}`

func (a *Analyzer) compareWithLLM(ctx context.Context, summaries []models.OptionSummary) (json.RawMessage, error) {
	optionsJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("analysis: encoding summaries: %w", err)
	}

	response, err := a.completer.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{
				Role:    "system",
				Content: "You are a travel expert specializing in flight comparison and recommendation. Analyze flight options to help users make informed decisions.",
			},
			{Role: "user", Content: fmt.Sprintf(comparePrompt, optionsJSON)},
		},
	})
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(response)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	// The model ignored the format; keep its prose rather than dropping it.
	wrapped, err := json.Marshal(map[string]string{"raw_analysis": trimmed})
	if err != nil {
		return nil, fmt.Errorf("analysis: wrapping raw analysis: %w", err)
	}
	return json.RawMessage(wrapped), nil
}
