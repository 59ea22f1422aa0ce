package flight

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"travel/pkg/logger"
)

const (
	CalendarStepDays = 3
	MaxCalendarDates = 10

	// calendarDateTimeout bounds one date's search; it sits above the supplier hint
	// so the upstream gets to answer first.
	calendarDateTimeout = CalendarSupplierTimeout + 4*time.Second

	instrumentationName = "travel/internal/flight"
)

// SampleDates walks [start, end] in CalendarStepDays steps, keeping at most
// MaxCalendarDates dates and skipping those before today.
func SampleDates(start, end, today time.Time) []time.Time {
	today = truncateDay(today)
	dates := make([]time.Time, 0, MaxCalendarDates)
	for d := truncateDay(start); !d.After(end) && len(dates) < MaxCalendarDates; d = d.AddDate(0, 0, CalendarStepDays) {
		if d.Before(today) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

type CalendarSampler struct {
	searcher    OfferSearcher
	logger      logger.Client
	now         func() time.Time
	dateTimeout time.Duration
	tracer      trace.Tracer
	outcomes    metric.Int64Counter
}

func NewCalendarSampler(searcher OfferSearcher, logger logger.Client) *CalendarSampler {
	outcomes, err := otel.Meter(instrumentationName).Int64Counter(
		"flight.calendar.dates",
		metric.WithDescription("Sampled calendar dates by outcome"),
	)
	if err != nil {
		outcomes, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("flight.calendar.dates")
	}

	return &CalendarSampler{
		searcher:    searcher,
		logger:      logger,
		now:         time.Now,
		dateTimeout: calendarDateTimeout,
		tracer:      otel.Tracer(instrumentationName),
		outcomes:    outcomes,
	}
}

type dateResult struct {
	offers []RawOffer
	err    error
}

// Sample searches every sampled date concurrently and waits for all of them.
// A failing date becomes HasNoFlights; cancelling ctx fails the whole calendar.
func (s *CalendarSampler) Sample(ctx context.Context, q CalendarQuery) (*PriceCalendar, error) {
	dates := SampleDates(q.Start, q.End, s.now())
	if len(dates) == 0 {
		return &PriceCalendar{Entries: []CalendarEntry{}}, nil
	}

	results := make([]dateResult, len(dates))

	var g errgroup.Group
	g.SetLimit(MaxCalendarDates)
	for i, d := range dates {
		i, d := i, d
		g.Go(func() error {
			results[i] = s.sampleDate(ctx, q, d.Format(dateLayout))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, classifyError("price calendar", err)
	}

	return s.reduce(dates, results), nil
}

func (s *CalendarSampler) sampleDate(ctx context.Context, q CalendarQuery, date string) dateResult {
	ctx, span := s.tracer.Start(ctx, "calendar.sample_date", trace.WithAttributes(
		attribute.String("flight.date", date),
		attribute.String("flight.route", q.Origin+"-"+q.Destination),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.dateTimeout)
	defer cancel()

	offers, err := s.searcher.SearchOffers(ctx, OfferQuery{
		Origin:          q.Origin,
		Destination:     q.Destination,
		Date:            date,
		Passengers:      q.Passengers,
		Currency:        q.Currency,
		SupplierTimeout: CalendarSupplierTimeout,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return dateResult{offers: offers, err: err}
}

func (s *CalendarSampler) reduce(dates []time.Time, results []dateResult) *PriceCalendar {
	entries := make([]CalendarEntry, len(dates))
	lowest := math.Inf(1)
	degraded := false

	for i, d := range dates {
		date := d.Format(dateLayout)
		entries[i].Date = date

		res := results[i]
		if res.err != nil {
			s.logger.Warn("calendar date search failed",
				logger.Field{Key: "date", Value: date},
				logger.Field{Key: "error", Value: res.err},
			)
			s.record("failed")
			entries[i].HasNoFlights = true
			degraded = true
			continue
		}

		price, ok := cheapestPrice(res.offers)
		if !ok {
			s.record("no_flights")
			entries[i].HasNoFlights = true
			continue
		}

		s.record("priced")
		entries[i].Price = &price
		lowest = math.Min(lowest, price)
	}

	for i := range entries {
		if entries[i].Price != nil && *entries[i].Price == lowest {
			entries[i].IsLowestPrice = true
		}
	}

	return &PriceCalendar{Entries: entries, Degraded: degraded}
}

func (s *CalendarSampler) record(outcome string) {
	s.outcomes.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// cheapestPrice returns the minimum parseable total_amount across offers.
func cheapestPrice(offers []RawOffer) (float64, bool) {
	lowest, found := math.Inf(1), false
	for _, raw := range offers {
		var offer struct {
			TotalAmount json.RawMessage `json:"total_amount"`
		}
		if err := json.Unmarshal(raw, &offer); err != nil {
			continue
		}
		price, ok := parseAmount(offer.TotalAmount)
		if !ok {
			continue
		}
		if price < lowest {
			lowest, found = price, true
		}
	}
	return lowest, found
}

// parseAmount accepts a JSON string or number holding a finite amount.
func parseAmount(raw json.RawMessage) (float64, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
