package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// Filter selects the date range an analysis covers.
type Filter string

const (
	FilterToday     Filter = "today"
	FilterYesterday Filter = "yesterday"
	FilterWeek      Filter = "week"
	FilterMonth     Filter = "month"
	FilterAll       Filter = "all"
)

// Filters lists every accepted filter value.
var Filters = []Filter{FilterToday, FilterYesterday, FilterWeek, FilterMonth, FilterAll}

// ErrUnknownFilter is returned by ParseFilter for values outside Filters.
var ErrUnknownFilter = errors.New("unknown date filter")

// ParseFilter converts a user-supplied string to a Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// Window is an inclusive [Start, End] range. An unbounded window has no
// lower limit; End is never later than the "now" it was built from.
type Window struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Unbounded bool      `json:"unbounded,omitempty"`
}

// SelectWindow maps a filter to a concrete range ending no later than now.
// Calendar days are taken in now's location.
func SelectWindow(f Filter, now time.Time) (Window, error) {
	midnight := startOfDay(now)
	switch f {
	case FilterToday:
		return Window{Start: midnight, End: now}, nil
	case FilterYesterday:
		return Window{Start: midnight.AddDate(0, 0, -1), End: midnight.Add(-time.Nanosecond)}, nil
	case FilterWeek:
		return Window{Start: midnight.AddDate(0, 0, -6), End: now}, nil
	case FilterMonth:
		return Window{Start: midnight.AddDate(0, 0, -29), End: now}, nil
	case FilterAll:
		return Window{End: now, Unbounded: true}, nil
	default:
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownFilter, string(f))
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.After(w.End) {
		return false
	}
	return w.Unbounded || !t.Before(w.Start)
}

// Duration is the length of a bounded window; zero for unbounded ones.
func (w Window) Duration() time.Duration {
	if w.Unbounded {
		return 0
	}
	return w.End.Sub(w.Start)
}

// Comparable reports whether an equal-length window exists before w, so
// growth against it means something. Unbounded windows have none.
func (w Window) Comparable() bool {
	return !w.Unbounded
}

// Previous returns the equal-length window ending just before w starts.
// The previous window of an unbounded window is empty.
func (w Window) Previous() Window {
	if w.Unbounded {
		return Window{Start: w.End, End: w.End.Add(-time.Nanosecond)}
	}
	end := w.Start.Add(-time.Nanosecond)
	return Window{Start: end.Add(-w.Duration()), End: end}
}

// FilterOrders returns the orders placed inside w, preserving their order.
func FilterOrders(orders []pos.Order, w Window) []pos.Order {
	var filtered []pos.Order
	for _, o := range orders {
		at := o.At()
		if at.IsZero() {
			continue
		}
		if w.Contains(at) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
