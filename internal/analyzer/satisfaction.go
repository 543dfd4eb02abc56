package analyzer

import (
	"math"
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

const (
	// DefaultRating is reported when no order carries a rating.
	DefaultRating = 4.2

	// recentRatings is the size of the recent sample for drop detection.
	recentRatings = 10
)

// AnalyzeSatisfaction averages positive ratings and measures how far the last
// ten rated orders fell below all earlier rated orders. Only drops are
// reported; an improving trend yields Drop = 0.
func AnalyzeSatisfaction(orders []pos.Order) Satisfaction {
	var rated []pos.Order
	for _, o := range orders {
		if o.Rating > 0 {
			rated = append(rated, o)
		}
	}
	if len(rated) == 0 {
		return Satisfaction{AverageRating: DefaultRating}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].At().Before(rated[j].At())
	})

	s := Satisfaction{
		AverageRating: meanRating(rated),
		RatedOrders:   len(rated),
	}

	split := len(rated) - recentRatings
	if split > 0 {
		older := meanRating(rated[:split])
		recent := meanRating(rated[split:])
		s.Drop = math.Max(0, older-recent)
	}
	return s
}

func meanRating(orders []pos.Order) float64 {
	var sum int
	for _, o := range orders {
		sum += o.Rating
	}
	return float64(sum) / float64(len(orders))
}
