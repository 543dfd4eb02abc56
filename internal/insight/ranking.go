package insight

import (
	"math"
	"sort"
	"strings"
)

// RankInsights sorts insights by priority, high first. Insights of equal
// priority keep their rule order.
func RankInsights(insights []Insight) []Insight {
	sorted := make([]Insight, len(insights))
	copy(sorted, insights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() > sorted[j].Priority.Rank()
	})
	return sorted
}

// FilterByPriority returns the insights at or above floor.
func FilterByPriority(insights []Insight, floor Priority) []Insight {
	var out []Insight
	for _, in := range insights {
		if in.Priority.Rank() >= floor.Rank() {
			out = append(out, in)
		}
	}
	return out
}

func clampConfidence(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	return math.Max(0, math.Min(1, c))
}

// round2 keeps reported confidences readable.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func insightID(rule, subject string) string {
	slug := strings.ToLower(strings.TrimSpace(subject))
	slug = strings.Join(strings.Fields(slug), "-")
	if slug == "" {
		return rule
	}
	return rule + "-" + slug
}
