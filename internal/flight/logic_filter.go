package flight

import (
	"strings"
	"time"
)

type TimeWindow struct {
	From string `json:"from" example:"06:00"`
	To   string `json:"to" example:"12:00"`
}

type FilterOptions struct {
	Airlines      []string    `json:"airlines,omitempty"`
	MaxPrice      *float64    `json:"max_price,omitempty"`
	DirectOnly    bool        `json:"direct_only,omitempty"`
	MaxStops      *int        `json:"max_stops,omitempty"`
	MaxDuration   *int        `json:"max_duration,omitempty"`
	DepartureTime *TimeWindow `json:"departure_time,omitempty"`
	ArrivalTime   *TimeWindow `json:"arrival_time,omitempty"`
}

// filterContext holds the parsed windows so the loop doesn't re-parse them
type filterContext struct {
	opts    FilterOptions
	depFrom int
	depTo   int
	arrFrom int
	arrTo   int
}

func newFilterContext(opts FilterOptions) *filterContext {
	fc := &filterContext{opts: opts}

	if opts.DepartureTime != nil {
		fc.depFrom = parseClockMinutes(opts.DepartureTime.From, 0)
		fc.depTo = parseClockMinutes(opts.DepartureTime.To, 24*60-1)
	}
	if opts.ArrivalTime != nil {
		fc.arrFrom = parseClockMinutes(opts.ArrivalTime.From, 0)
		fc.arrTo = parseClockMinutes(opts.ArrivalTime.To, 24*60-1)
	}
	return fc
}

// ApplyFilters returns the flights passing every active filter, in input order.
func ApplyFilters(flights []Flight, opts FilterOptions) []Flight {
	fc := newFilterContext(opts)

	filtered := make([]Flight, 0, len(flights))
	for _, f := range flights {
		if fc.matches(f) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

func (fc *filterContext) matches(f Flight) bool {
	if fc.opts.MaxPrice != nil && f.Price.Amount > *fc.opts.MaxPrice {
		return false
	}

	if fc.opts.DirectOnly && f.Stops > 0 {
		return false
	}

	if fc.opts.MaxStops != nil && f.Stops > *fc.opts.MaxStops {
		return false
	}

	if fc.opts.MaxDuration != nil && f.DurationMinutes > *fc.opts.MaxDuration {
		return false
	}

	if fc.opts.DepartureTime != nil {
		dep := parseClockMinutes(f.DepartureTime, -1)
		if dep < fc.depFrom || dep > fc.depTo {
			return false
		}
	}

	if fc.opts.ArrivalTime != nil {
		arr := parseClockMinutes(f.ArrivalTime, -1)
		if arr < fc.arrFrom || arr > fc.arrTo {
			return false
		}
	}

	// string comparison is heaviest, do last
	if len(fc.opts.Airlines) > 0 {
		for _, airline := range fc.opts.Airlines {
			if strings.EqualFold(f.Airline.Code, airline) || strings.EqualFold(f.Airline.Name, airline) {
				return true
			}
		}
		return false
	}

	return true
}

// parseClockMinutes converts "HH:MM" to minutes after midnight, returning fallback
// when the value does not parse.
func parseClockMinutes(clock string, fallback int) int {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return fallback
	}
	return t.Hour()*60 + t.Minute()
}
