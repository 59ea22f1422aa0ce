package flight

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"travel/pkg/cache"
	"travel/pkg/logger"
	"travel/pkg/refdata"
)

const (
	DefaultSearchTTL   = 5 * time.Minute
	DefaultCalendarTTL = 10 * time.Minute
)

// BookingNotifier is told about every confirmed order.
type BookingNotifier interface {
	BookingConfirmed(ctx context.Context, n BookingNotification) error
}

// Dependencies wires a Service. Upstream and Logger are required; everything
// else is optional.
type Dependencies struct {
	Upstream   UpstreamClient
	Normalizer OfferNormalizer
	RefData    refdata.Provider
	Notifier   BookingNotifier
	Cache      cache.Cache
	// A zero TTL disables caching for that operation.
	SearchTTL   time.Duration
	CalendarTTL time.Duration
	Logger      logger.Client
}

type Service struct {
	upstream    UpstreamClient
	offers      OfferSearcher
	normalizer  OfferNormalizer
	sampler     *CalendarSampler
	validator   *BookingValidator
	refdata     refdata.Provider
	notifier    BookingNotifier
	cache       cache.Cache
	searchTTL   time.Duration
	calendarTTL time.Duration
	logger      logger.Client
	tracer      trace.Tracer
}

func NewService(deps Dependencies) *Service {
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = NewDuffelNormalizer()
	}
	offers := NewOfferSearcher(deps.Upstream)

	return &Service{
		upstream:    deps.Upstream,
		offers:      offers,
		normalizer:  normalizer,
		sampler:     NewCalendarSampler(offers, deps.Logger),
		validator:   NewBookingValidator(),
		refdata:     deps.RefData,
		notifier:    deps.Notifier,
		cache:       deps.Cache,
		searchTTL:   deps.SearchTTL,
		calendarTTL: deps.CalendarTTL,
		logger:      deps.Logger,
		tracer:      otel.Tracer(instrumentationName),
	}
}

// SearchFlights runs one search and returns every normalizable offer in upstream
// order, with the cheapest ones flagged IsBest.
func (s *Service) SearchFlights(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "flight.SearchFlights")
	defer span.End()

	if err := s.upstream.CheckCredentials(); err != nil {
		return nil, fail(span, err)
	}
	q, err := req.Query()
	if err != nil {
		return nil, fail(span, err)
	}

	key := cacheKey("search", q.Origin, q.Destination, q.Date, strconv.Itoa(q.Passengers), q.Currency)
	var result SearchResult
	if s.cacheGet(ctx, key, &result) {
		return &result, nil
	}

	offers, err := s.offers.SearchOffers(ctx, OfferQuery{
		Origin:          q.Origin,
		Destination:     q.Destination,
		Date:            q.Date,
		Passengers:      q.Passengers,
		Currency:        q.Currency,
		SupplierTimeout: SearchSupplierTimeout,
	})
	if err != nil {
		return nil, fail(span, classifyError("flight search", err))
	}

	result = SearchResult{
		Flights:    s.normalizeAll(offers),
		TotalFound: len(offers),
	}
	s.cacheSet(ctx, key, result, s.searchTTL)

	return &result, nil
}

// GetPriceCalendar samples the requested range and reports the cheapest price per date.
func (s *Service) GetPriceCalendar(ctx context.Context, req CalendarRequest) (*PriceCalendar, error) {
	ctx, span := s.tracer.Start(ctx, "flight.GetPriceCalendar")
	defer span.End()

	if err := s.upstream.CheckCredentials(); err != nil {
		return nil, fail(span, err)
	}
	q, err := req.Query()
	if err != nil {
		return nil, fail(span, err)
	}

	key := cacheKey("calendar", q.Origin, q.Destination, q.Start.Format(dateLayout), q.End.Format(dateLayout),
		strconv.Itoa(q.Passengers), q.Currency)
	var calendar PriceCalendar
	if s.cacheGet(ctx, key, &calendar) {
		return &calendar, nil
	}

	result, err := s.sampler.Sample(ctx, q)
	if err != nil {
		return nil, fail(span, err)
	}

	// a calendar with failed dates is served but not kept
	if !result.Degraded {
		s.cacheSet(ctx, key, result, s.calendarTTL)
	}
	return result, nil
}

// GetOffer fetches one offer for the booking-options view.
func (s *Service) GetOffer(ctx context.Context, req OfferRequest) (*OfferDetail, error) {
	ctx, span := s.tracer.Start(ctx, "flight.GetOffer")
	defer span.End()

	if err := s.upstream.CheckCredentials(); err != nil {
		return nil, fail(span, err)
	}
	if err := req.validate(); err != nil {
		return nil, fail(span, err)
	}

	resp, raw, err := s.fetchOffer(ctx, req.OfferID)
	if err != nil {
		return nil, fail(span, err)
	}
	if !resp.OK() {
		return nil, fail(span, NewUpstreamError(resp.Status, fmt.Sprintf("Failed to fetch offer details: %d", resp.Status)))
	}

	detail := &OfferDetail{Offer: raw}
	if f, err := s.normalizer.Normalize(raw); err != nil {
		s.logger.Warn("offer detail not normalizable",
			logger.Field{Key: "offer_id", Value: req.OfferID},
			logger.Field{Key: "error", Value: err},
		)
	} else {
		s.enrich(&f)
		detail.Flight = &f
	}

	if req.DepartureID != "" && req.ArrivalID != "" && req.OutboundDate != "" {
		detail.GoogleFlightsURL = GoogleFlightsURL(req.DepartureID, req.ArrivalID, req.OutboundDate, req.Currency)
	}

	return detail, nil
}

// CreateBooking validates the passengers, binds them to the offer's slots and
// places a pay-later order. Nothing reaches the upstream while input is invalid.
func (s *Service) CreateBooking(ctx context.Context, req BookRequest) (*BookingConfirmation, error) {
	ctx, span := s.tracer.Start(ctx, "flight.CreateBooking")
	defer span.End()

	if err := s.upstream.CheckCredentials(); err != nil {
		return nil, fail(span, err)
	}
	if strings.TrimSpace(req.OfferID) == "" {
		return nil, fail(span, NewValidationError("offer_id", "Missing offer_id"))
	}
	if len(req.Passengers) == 0 {
		return nil, fail(span, NewValidationError("passengers", "Missing or empty passengers array"))
	}
	for i, p := range req.Passengers {
		if err := s.validator.ValidatePassenger(i, p); err != nil {
			return nil, fail(span, err)
		}
	}

	resp, raw, err := s.fetchOffer(ctx, req.OfferID)
	if err != nil {
		return nil, fail(span, err)
	}
	if !resp.OK() {
		return nil, fail(span, NewOfferNotFoundError(resp.Status))
	}

	flight, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, fail(span, err)
	}
	slots, err := offerPassengers(raw)
	if err != nil {
		return nil, fail(span, err)
	}

	booking, err := BuildBookingRequest(req.OfferID, slots, req.Passengers)
	if err != nil {
		return nil, fail(span, err)
	}

	orderResp, err := s.upstream.Post(ctx, "/orders", newOrderPayload(booking))
	if err != nil {
		return nil, fail(span, classifyError("order creation", err))
	}
	if !orderResp.OK() {
		return nil, fail(span, NewUpstreamError(orderResp.Status, orderResp.ErrorMessage()))
	}

	var order struct {
		Data struct {
			ID               string `json:"id"`
			BookingReference string `json:"booking_reference"`
			Status           string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(orderResp.Body, &order); err != nil || order.Data.ID == "" {
		return nil, fail(span, NewUpstreamError(orderResp.Status, "malformed order response"))
	}

	confirmation := &BookingConfirmation{
		OrderID:          order.Data.ID,
		BookingReference: order.Data.BookingReference,
		Status:           order.Data.Status,
	}
	s.logger.Info("order created",
		logger.Field{Key: "order_id", Value: confirmation.OrderID},
		logger.Field{Key: "offer_id", Value: req.OfferID},
		logger.Field{Key: "passengers", Value: len(booking.Passengers)},
	)

	s.enrich(&flight)
	s.notify(ctx, BookingNotification{
		BookingConfirmation: *confirmation,
		OfferID:             req.OfferID,
		ContactEmail:        booking.Passengers[0].Email,
		Flight:              &flight,
	})

	return confirmation, nil
}

// FilterFlights narrows and orders the results of a search. It reuses the cached
// result set when one exists and searches again otherwise.
func (s *Service) FilterFlights(ctx context.Context, req FilterRequest) (*SearchResult, error) {
	if req.Sort != nil && !req.Sort.valid() {
		return nil, NewValidationError("sort", "Invalid sort: by must be one of price, duration, departure_time, arrival_time, best_value")
	}

	result, err := s.SearchFlights(ctx, req.SearchRequest)
	if err != nil {
		return nil, err
	}

	flights := result.Flights
	if req.Filters != nil {
		flights = ApplyFilters(flights, *req.Filters)
	}
	if req.Sort != nil {
		flights = ApplySorting(flights, *req.Sort)
	}

	return &SearchResult{Flights: flights, TotalFound: len(flights)}, nil
}

type FilterRequest struct {
	SearchRequest
	Filters *FilterOptions `json:"filters,omitempty"`
	Sort    *SortOptions   `json:"sort,omitempty"`
}

func (r OfferRequest) validate() error {
	if strings.TrimSpace(r.OfferID) == "" {
		return NewValidationError("offer_id", "Missing offer_id")
	}
	if r.DepartureID != "" {
		if err := validateIATA("departure_id", r.DepartureID); err != nil {
			return err
		}
	}
	if r.ArrivalID != "" {
		if err := validateIATA("arrival_id", r.ArrivalID); err != nil {
			return err
		}
	}
	if r.OutboundDate != "" {
		if _, err := parseDate("outbound_date", r.OutboundDate); err != nil {
			return err
		}
	}
	return nil
}

// GoogleFlightsURL builds a deep link to the same one-way search on Google Flights.
func GoogleFlightsURL(origin, destination, date, currency string) string {
	return fmt.Sprintf("https://www.google.com/travel/flights?q=Flights+from+%s+to+%s+on+%s&curr=%s",
		url.QueryEscape(origin), url.QueryEscape(destination), url.QueryEscape(date), NormalizeCurrency(currency))
}

func (s *Service) fetchOffer(ctx context.Context, offerID string) (*UpstreamResponse, RawOffer, error) {
	resp, err := s.upstream.Get(ctx, "/offers/"+url.PathEscape(offerID))
	if err != nil {
		return nil, nil, classifyError("offer lookup", err)
	}
	if !resp.OK() {
		return resp, nil, nil
	}

	var body struct {
		Data RawOffer `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, nil, NewNormalizationError("data", err)
	}
	if len(body.Data) == 0 || string(body.Data) == "null" {
		return nil, nil, NewNormalizationError("data", errors.New("offer missing from response"))
	}
	return resp, body.Data, nil
}

// normalizeAll keeps every offer that normalizes and flags the cheapest.
func (s *Service) normalizeAll(offers []RawOffer) []Flight {
	flights := make([]Flight, 0, len(offers))
	for i, raw := range offers {
		f, err := s.normalizer.Normalize(raw)
		if err != nil {
			fields := []logger.Field{
				{Key: "index", Value: i},
				{Key: "error", Value: err},
			}
			var appErr *AppError
			if errors.As(err, &appErr) && appErr.Field != "" {
				fields = append(fields, logger.Field{Key: "field", Value: appErr.Field})
			}
			s.logger.Warn("dropping offer", fields...)
			continue
		}
		s.enrich(&f)
		flights = append(flights, f)
	}
	MarkBest(flights)
	return flights
}

// enrich fills city, country and website from reference data. Unknown codes are left alone.
func (s *Service) enrich(f *Flight) {
	if s.refdata == nil {
		return
	}

	airport := func(a *Airport) {
		if ref, ok := s.refdata.LookupAirport(a.Code); ok {
			a.City, a.Country = ref.City, ref.Country
			if a.Name == "" {
				a.Name = ref.Name
			}
		}
	}
	carrier := func(c *Carrier) {
		if ref, ok := s.refdata.LookupAirline(c.Code); ok {
			c.Website = ref.Website
			if c.Name == "" {
				c.Name = ref.Name
			}
		}
	}

	airport(&f.Origin)
	airport(&f.Destination)
	carrier(&f.Airline)
	for i := range f.Legs {
		airport(&f.Legs[i].Origin)
		airport(&f.Legs[i].Destination)
		carrier(&f.Legs[i].Carrier)
	}
	for i := range f.Layovers {
		airport(&f.Layovers[i].Airport)
	}
}

func (s *Service) notify(ctx context.Context, n BookingNotification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.BookingConfirmed(context.WithoutCancel(ctx), n); err != nil {
		s.logger.Error("booking notification failed",
			logger.Field{Key: "order_id", Value: n.OrderID},
			logger.Field{Key: "error", Value: err},
		)
	}
}

// cacheKey creates a deterministic key from the query parameters
func cacheKey(kind string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("flight:%s:%x", kind, hash[:16])
}

func (s *Service) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Error("cache read failed", logger.Field{Key: "cache_key", Value: key}, logger.Field{Key: "error", Value: err})
		}
		s.logger.Debug("cache miss", logger.Field{Key: "cache_key", Value: key})
		return false
	}

	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		s.logger.Error("failed to unmarshal cached data", logger.Field{Key: "cache_key", Value: key}, logger.Field{Key: "error", Value: err})
		return false
	}
	s.logger.Debug("cache hit", logger.Field{Key: "cache_key", Value: key})
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to marshal response for caching", logger.Field{Key: "error", Value: err})
		return
	}
	if err := s.cache.Set(ctx, key, string(data), ttl); err != nil {
		s.logger.Error("failed to cache response", logger.Field{Key: "cache_key", Value: key}, logger.Field{Key: "error", Value: err})
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
