package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Score bands for ScoreBar colouring.
const (
	goodScore = 70
	fairScore = 40
)

// ScoreBar renders a 0-100 score as a filled bar followed by "N/100",
// coloured by band. A non-positive width uses 20 cells.
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(math.Max(0, math.Min(float64(width), score/100*float64(width))))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := StyleError
	switch {
	case score >= goodScore:
		style = StyleSuccess
	case score >= fairScore:
		style = StyleWarning
	}
	return style.Render(bar) + " " + StyleMuted.Render(fmt.Sprintf("%.0f/100", score))
}

// TrendArrow renders a change as "▲ +1.5" or "▼ -0.3", green when it
// moves the way higherIsBetter wants and red otherwise. Zero is a dash.
func TrendArrow(delta float64, higherIsBetter bool) string {
	return trend(delta, higherIsBetter, "%+.1f")
}

// TrendArrowPercent is TrendArrow for whole-percent changes.
func TrendArrowPercent(delta float64, higherIsBetter bool) string {
	return trend(delta, higherIsBetter, "%+.0f%%")
}

func trend(delta float64, higherIsBetter bool, format string) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}
	arrow := "▼"
	if delta > 0 {
		arrow = "▲"
	}
	style := StyleError
	if (delta > 0) == higherIsBetter {
		style = StyleSuccess
	}
	return style.Render(arrow + " " + fmt.Sprintf(format, delta))
}

// Section renders a header line with a rule beneath it, preceded by a
// blank line.
func Section(title string) string {
	return "\n " + StyleHeader.Render(title) + "\n " + StyleMuted.Render(strings.Repeat("─", 66))
}

var priorityStyles = map[string]*lipgloss.Style{
	"high":   &StyleError,
	"medium": &StyleWarning,
}

// PriorityBadge renders an insight priority upper-cased in its severity
// colour. Unknown priorities are muted.
func PriorityBadge(priority string) string {
	style, ok := priorityStyles[priority]
	if !ok {
		style = &StyleMuted
	}
	return style.Render(strings.ToUpper(priority))
}

// Confidence renders a 0-1 confidence as a whole percentage.
func Confidence(c float64) string {
	return fmt.Sprintf("%.0f%%", c*100)
}

// Money renders an amount with two decimals.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
