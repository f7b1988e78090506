package analysis

import (
	"math"

	"github.com/dharmasatrya/flexiflight/internal/models"
)

const (
	priceWeight    = 0.5
	durationWeight = 0.3
	stopsWeight    = 0.2
)

// scoreOptions attaches a best-value score to each summary. Price and
// duration are normalised against the most expensive and slowest option in
// the batch; lower scores are better value.
func scoreOptions(summaries []models.OptionSummary, options []models.FlightOption) []models.OptionSummary {
	if len(summaries) == 0 {
		return summaries
	}

	maxPrice, maxDuration := 0.0, 0.0
	for _, opt := range options {
		if opt.Price > maxPrice {
			maxPrice = opt.Price
		}
		if float64(opt.TotalDuration) > maxDuration {
			maxDuration = float64(opt.TotalDuration)
		}
	}

	for i := range summaries {
		opt := options[summaries[i].OptionIndex]
		summaries[i].ValueScore = bestValue(opt, summaries[i].NumStops, maxPrice, maxDuration)
	}
	return summaries
}

func bestValue(opt models.FlightOption, stops int, maxPrice, maxDuration float64) float64 {
	priceScore := 0.0
	if maxPrice > 0 {
		priceScore = (opt.Price / maxPrice) * 100
	}

	durationScore := 0.0
	if maxDuration > 0 {
		durationScore = (float64(opt.TotalDuration) / maxDuration) * 100
	}

	stopsScore := float64(stops) * 15
	score := (priceScore * priceWeight) + (durationScore * durationWeight) + (stopsScore * stopsWeight)

	return math.Round(score*100) / 100
}
