package flight

import (
	"math"
	"sort"
)

const (
	priceWeight    = 0.45
	durationWeight = 0.35
	stopsWeight    = 0.20
)

const (
	SortByPrice         = "price"
	SortByDuration      = "duration"
	SortByDepartureTime = "departure_time"
	SortByArrivalTime   = "arrival_time"
	SortByBestValue     = "best_value"
)

type SortOptions struct {
	By    string `json:"by" example:"price"` // price, duration, departure_time, arrival_time, best_value
	Order string `json:"order" example:"asc"` // asc, desc
}

func (o SortOptions) valid() bool {
	switch o.By {
	case SortByPrice, SortByDuration, SortByDepartureTime, SortByArrivalTime, SortByBestValue:
	default:
		return false
	}
	return o.Order == "" || o.Order == "asc" || o.Order == "desc"
}

// ApplySorting returns a sorted copy. Equal keys keep their input order.
func ApplySorting(flights []Flight, opts SortOptions) []Flight {
	sorted := make([]Flight, len(flights))
	copy(sorted, flights)
	if len(sorted) <= 1 {
		return sorted
	}

	desc := opts.Order == "desc"
	switch opts.By {
	case SortByPrice:
		sortByKey(sorted, desc, func(f Flight) float64 { return f.Price.Amount })
	case SortByDuration:
		sortByKey(sorted, desc, func(f Flight) float64 { return float64(f.DurationMinutes) })
	case SortByDepartureTime:
		sortByKey(sorted, desc, func(f Flight) float64 { return float64(legTime(f, true)) })
	case SortByArrivalTime:
		sortByKey(sorted, desc, func(f Flight) float64 { return float64(legTime(f, false)) })
	case SortByBestValue:
		sortByBestValue(sorted, desc)
	}

	return sorted
}

func sortByKey(flights []Flight, desc bool, key func(Flight) float64) {
	sort.SliceStable(flights, func(i, j int) bool {
		if desc {
			return key(flights[i]) > key(flights[j])
		}
		return key(flights[i]) < key(flights[j])
	})
}

func legTime(f Flight, departure bool) int64 {
	if len(f.Legs) == 0 {
		return 0
	}
	if departure {
		return f.Legs[0].DepartingAt.Unix()
	}
	return f.Legs[len(f.Legs)-1].ArrivingAt.Unix()
}

// sortByBestValue orders by a weighted score of price, duration and stops.
// Ascending puts the best value first.
func sortByBestValue(flights []Flight, desc bool) {
	scores := bestValueScores(flights)
	order := make([]int, len(flights))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if desc {
			return sa < sb
		}
		return sa > sb
	})

	ranked := make([]Flight, len(flights))
	for i, idx := range order {
		ranked[i] = flights[idx]
	}
	copy(flights, ranked)
}

func bestValueScores(flights []Flight) []float64 {
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	minDuration, maxDuration := math.Inf(1), math.Inf(-1)
	minStops, maxStops := math.Inf(1), math.Inf(-1)

	for _, f := range flights {
		minPrice, maxPrice = math.Min(minPrice, f.Price.Amount), math.Max(maxPrice, f.Price.Amount)
		d := float64(f.DurationMinutes)
		minDuration, maxDuration = math.Min(minDuration, d), math.Max(maxDuration, d)
		s := float64(f.Stops)
		minStops, maxStops = math.Min(minStops, s), math.Max(maxStops, s)
	}

	scores := make([]float64, len(flights))
	for i, f := range flights {
		scores[i] = priceWeight*normalizeScore(f.Price.Amount, minPrice, maxPrice) +
			durationWeight*normalizeScore(float64(f.DurationMinutes), minDuration, maxDuration) +
			stopsWeight*normalizeScore(float64(f.Stops), minStops, maxStops)
	}
	return scores
}

// normalizeScore maps lower values to higher scores in [0, 1].
func normalizeScore(val, min, max float64) float64 {
	if max > min {
		return 1.0 - (val-min)/(max-min)
	}
	return 1.0
}
