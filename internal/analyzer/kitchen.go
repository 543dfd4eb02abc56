package analyzer

import (
	"math"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// DefaultKitchenEfficiency is used when no order has both cooking times.
const DefaultKitchenEfficiency = 0.8

// KitchenEfficiency is the mean of min(1, estimated/actual) over orders that
// record both cooking times. Finishing early never scores above 1.
func KitchenEfficiency(orders []pos.Order) float64 {
	var sum float64
	var n int
	for _, o := range orders {
		if o.EstimatedCookMinutes <= 0 || o.ActualCookMinutes <= 0 {
			continue
		}
		sum += math.Min(1, float64(o.EstimatedCookMinutes)/float64(o.ActualCookMinutes))
		n++
	}
	if n == 0 {
		return DefaultKitchenEfficiency
	}
	return sum / float64(n)
}
