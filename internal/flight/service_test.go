package flight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travel/pkg/cache"
	"travel/pkg/logger"
	"travel/pkg/refdata"
)

const searchPath = "/offer_requests?return_offers=true"

type serviceFixture struct {
	upstream *MockUpstream
	notifier *MockNotifier
	service  *Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	ref, err := refdata.Default()
	require.NoError(t, err)

	upstream := new(MockUpstream)
	notifier := new(MockNotifier)
	svc := NewService(Dependencies{
		Upstream:    upstream,
		RefData:     ref,
		Notifier:    notifier,
		Cache:       cache.NewMemoryCache(),
		SearchTTL:   DefaultSearchTTL,
		CalendarTTL: DefaultCalendarTTL,
		Logger:      logger.NewNop(),
	})
	return &serviceFixture{upstream: upstream, notifier: notifier, service: svc}
}

func offersResponse(offers ...RawOffer) *UpstreamResponse {
	return okResponse(map[string]any{"data": map[string]any{"offers": offers}})
}

func requireAppError(t *testing.T, err error, code ErrorCode) *AppError {
	t.Helper()
	var appErr *AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func damDXBRequest() SearchRequest {
	return SearchRequest{DepartureID: "DAM", ArrivalID: "DXB", OutboundDate: "2026-03-15", Adults: 1, Currency: "USD"}
}

func TestService_SearchFlights(t *testing.T) {
	f := newServiceFixture(t)

	connecting := []segSpec{
		{from: "DAM", to: "AMM", dep: "2026-03-15T10:00:00", arr: "2026-03-15T11:00:00", carrier: "RJ"},
		{from: "AMM", to: "DXB", dep: "2026-03-15T12:30:00", arr: "2026-03-15T16:00:00", carrier: "RJ"},
	}
	broken := offerMap("off_broken", "99", directDAMDXB)
	broken["slices"] = []any{}

	f.upstream.On("CheckCredentials").Return(nil)
	f.upstream.On("Post", mock.Anything, searchPath, mock.MatchedBy(func(p offerRequestPayload) bool {
		return p.Data.SupplierTimeout == 25000 &&
			len(p.Data.Passengers) == 1 &&
			p.Data.Slices[0].Origin == "DAM" &&
			p.Data.Slices[0].DepartureDate == "2026-03-15" &&
			p.Data.Currency == "USD"
	})).Return(offersResponse(
		offerJSON("off_direct", "310.00", directDAMDXB),
		rawJSON(broken),
		offerJSON("off_connect", "245.00", connecting...),
	), nil).Once()

	result, err := f.service.SearchFlights(context.Background(), damDXBRequest())
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalFound)
	require.Len(t, result.Flights, 2)
	assert.Equal(t, []string{"off_direct", "off_connect"}, offerIDs(result.Flights))

	cheapest := result.Flights[1]
	assert.True(t, cheapest.IsBest)
	assert.False(t, result.Flights[0].IsBest)
	for _, fl := range result.Flights {
		assert.Equal(t, len(fl.Legs)-1, fl.Stops)
	}

	assert.Equal(t, "Damascus", cheapest.Origin.City)
	assert.Equal(t, "Dubai", cheapest.Destination.City)
	assert.Equal(t, 90, cheapest.Layovers[0].DurationMinutes)
	assert.Equal(t, "Amman", cheapest.Layovers[0].Airport.City)

	// served from cache
	again, err := f.service.SearchFlights(context.Background(), damDXBRequest())
	require.NoError(t, err)
	assert.Equal(t, offerIDs(result.Flights), offerIDs(again.Flights))
	f.upstream.AssertNumberOfCalls(t, "Post", 1)
}

func TestService_SearchFlights_Rejections(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		f := newServiceFixture(t)
		f.upstream.On("CheckCredentials").Return(NewConfigurationError("Server misconfiguration: missing API token"))

		_, err := f.service.SearchFlights(context.Background(), damDXBRequest())

		appErr := requireAppError(t, err, ErrorCodeConfiguration)
		assert.Equal(t, 500, appErr.Status)
		f.upstream.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid route", func(t *testing.T) {
		f := newServiceFixture(t)
		f.upstream.On("CheckCredentials").Return(nil)

		req := damDXBRequest()
		req.ArrivalID = "Dubai"
		_, err := f.service.SearchFlights(context.Background(), req)

		appErr := requireAppError(t, err, ErrorCodeValidation)
		assert.Equal(t, "arrival_id", appErr.Field)
		f.upstream.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_SearchFlights_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name       string
		resp       *UpstreamResponse
		err        error
		wantCode   ErrorCode
		wantStatus int
	}{
		{
			name:       "non-2xx",
			resp:       &UpstreamResponse{Status: 422, Body: []byte(`{"errors":[{"message":"bad slice"}]}`)},
			wantCode:   ErrorCodeUpstream,
			wantStatus: 502,
		},
		{
			name:       "deadline",
			err:        context.DeadlineExceeded,
			wantCode:   ErrorCodeTimeout,
			wantStatus: 504,
		},
		{
			name:       "transport",
			err:        errors.New("connection reset"),
			wantCode:   ErrorCodeInternalFailure,
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			f.upstream.On("CheckCredentials").Return(nil)
			f.upstream.On("Post", mock.Anything, searchPath, mock.Anything).Return(tt.resp, tt.err)

			_, err := f.service.SearchFlights(context.Background(), damDXBRequest())

			appErr := requireAppError(t, err, tt.wantCode)
			assert.Equal(t, tt.wantStatus, appErr.Status)
			if tt.resp != nil {
				assert.Equal(t, tt.resp.Status, appErr.UpstreamStatus)
			}
		})
	}
}

func TestService_GetPriceCalendar(t *testing.T) {
	f := newServiceFixture(t)
	f.service.sampler.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }

	f.upstream.On("CheckCredentials").Return(nil)
	f.upstream.On("Post", mock.Anything, searchPath, mock.MatchedBy(func(p offerRequestPayload) bool {
		return p.Data.Slices[0].DepartureDate == "2026-03-07"
	})).Return(&UpstreamResponse{Status: 500, Body: []byte(`{}`)}, nil)
	f.upstream.On("Post", mock.Anything, searchPath, mock.MatchedBy(func(p offerRequestPayload) bool {
		return p.Data.SupplierTimeout == 8000 && p.Data.Slices[0].DepartureDate != "2026-03-07"
	})).Return(offersResponse(offerJSON("off", "199", directDAMDXB)), nil)

	cal, err := f.service.GetPriceCalendar(context.Background(), CalendarRequest{
		DepartureID: "DAM", ArrivalID: "DXB",
		OutboundDate: "2026-03-01", OutboundDateStart: "2026-03-01", OutboundDateEnd: "2026-03-10",
	})
	require.NoError(t, err)

	require.Len(t, cal.Entries, 4)
	assert.Equal(t, "2026-03-07", cal.Entries[2].Date)
	assert.True(t, cal.Entries[2].HasNoFlights)
	assert.Nil(t, cal.Entries[2].Price)
	for _, i := range []int{0, 1, 3} {
		assert.True(t, cal.Entries[i].IsLowestPrice)
	}
	f.upstream.AssertNumberOfCalls(t, "Post", 4)
}

func TestService_GetOffer(t *testing.T) {
	t.Run("with deep link", func(t *testing.T) {
		f := newServiceFixture(t)
		f.upstream.On("CheckCredentials").Return(nil)
		f.upstream.On("Get", mock.Anything, "/offers/off_1").
			Return(okResponse(map[string]any{"data": offerMap("off_1", "245.00", directDAMDXB)}), nil)

		detail, err := f.service.GetOffer(context.Background(), OfferRequest{
			OfferID: "off_1", DepartureID: "DAM", ArrivalID: "DXB", OutboundDate: "2026-03-15", Currency: "AED",
		})
		require.NoError(t, err)

		assert.Equal(t, "https://www.google.com/travel/flights?q=Flights+from+DAM+to+DXB+on+2026-03-15&curr=AED", detail.GoogleFlightsURL)
		require.NotNil(t, detail.Flight)
		assert.Equal(t, 245.0, detail.Flight.Price.Amount)
		assert.Contains(t, string(detail.Offer), `"id":"off_1"`)
	})

	t.Run("upstream failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.upstream.On("CheckCredentials").Return(nil)
		f.upstream.On("Get", mock.Anything, "/offers/off_1").Return(&UpstreamResponse{Status: 500}, nil)

		_, err := f.service.GetOffer(context.Background(), OfferRequest{OfferID: "off_1"})

		appErr := requireAppError(t, err, ErrorCodeUpstream)
		assert.Equal(t, "Failed to fetch offer details: 500", appErr.Message)
	})

	t.Run("missing offer id", func(t *testing.T) {
		f := newServiceFixture(t)
		f.upstream.On("CheckCredentials").Return(nil)

		_, err := f.service.GetOffer(context.Background(), OfferRequest{})

		requireAppError(t, err, ErrorCodeValidation)
		f.upstream.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func bookRequest(passengers ...BookingPassenger) BookRequest {
	return BookRequest{OfferID: "off_1", Passengers: passengers}
}

func TestService_CreateBooking(t *testing.T) {
	f := newServiceFixture(t)
	f.upstream.On("CheckCredentials").Return(nil)
	f.upstream.On("Get", mock.Anything, "/offers/off_1").
		Return(okResponse(map[string]any{"data": offerMap("off_1", "245.00", directDAMDXB)}), nil)
	f.upstream.On("Post", mock.Anything, "/orders", mock.MatchedBy(func(p orderPayload) bool {
		return p.Data.Type == "pay_later" &&
			p.Data.SelectedOffers[0] == "off_1" &&
			p.Data.Passengers[0].ID == "pas_1" &&
			p.Data.Passengers[0].GivenName == "Layla"
	})).Return(okResponse(map[string]any{"data": map[string]any{
		"id": "ord_1", "booking_reference": "RZPNX8", "status": "confirmed",
	}}), nil)
	f.notifier.On("BookingConfirmed", mock.Anything, mock.MatchedBy(func(n BookingNotification) bool {
		return n.OrderID == "ord_1" && n.ContactEmail == "layla@example.com" && n.Flight.Origin.City == "Damascus"
	})).Return(nil)

	confirmation, err := f.service.CreateBooking(context.Background(), bookRequest(validPassenger()))
	require.NoError(t, err)

	assert.Equal(t, &BookingConfirmation{OrderID: "ord_1", BookingReference: "RZPNX8", Status: "confirmed"}, confirmation)
	f.upstream.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestService_CreateBooking_InvalidPassengerNeverReachesUpstream(t *testing.T) {
	f := newServiceFixture(t)
	f.upstream.On("CheckCredentials").Return(nil)

	p := validPassenger()
	p.Email = "bad-email"
	_, err := f.service.CreateBooking(context.Background(), bookRequest(p))

	appErr := requireAppError(t, err, ErrorCodeValidation)
	assert.Contains(t, appErr.Message, "Passenger 1")
	f.upstream.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	f.upstream.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateBooking_Failures(t *testing.T) {
	offerOK := okResponse(map[string]any{"data": offerMap("off_1", "245.00", directDAMDXB)})

	tests := []struct {
		name       string
		req        BookRequest
		offer      *UpstreamResponse
		order      *UpstreamResponse
		wantCode   ErrorCode
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "empty passengers",
			req:        BookRequest{OfferID: "off_1"},
			wantCode:   ErrorCodeValidation,
			wantStatus: 400,
			wantMsg:    "Missing or empty passengers array",
		},
		{
			name:       "offer expired",
			req:        bookRequest(validPassenger()),
			offer:      &UpstreamResponse{Status: 404, Body: []byte(`{"errors":[{"message":"not found"}]}`)},
			wantCode:   ErrorCodeOfferNotFound,
			wantStatus: 404,
			wantMsg:    "Offer not found or expired",
		},
		{
			name:       "count mismatch",
			req:        bookRequest(validPassenger(), validPassenger()),
			offer:      offerOK,
			wantCode:   ErrorCodePassengerMismatch,
			wantStatus: 400,
			wantMsg:    "Passenger count mismatch: offer expects 1, got 2",
		},
		{
			name:       "order rejected with message",
			req:        bookRequest(validPassenger()),
			offer:      offerOK,
			order:      &UpstreamResponse{Status: 422, Body: []byte(`{"errors":[{"message":"Offer no longer available"}]}`)},
			wantCode:   ErrorCodeUpstream,
			wantStatus: 502,
			wantMsg:    "Offer no longer available",
		},
		{
			name:       "order rejected without body",
			req:        bookRequest(validPassenger()),
			offer:      offerOK,
			order:      &UpstreamResponse{Status: 503, Body: []byte(`<html>`)},
			wantCode:   ErrorCodeUpstream,
			wantStatus: 502,
			wantMsg:    "request failed: 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			f.upstream.On("CheckCredentials").Return(nil)
			if tt.offer != nil {
				f.upstream.On("Get", mock.Anything, "/offers/off_1").Return(tt.offer, nil)
			}
			if tt.order != nil {
				f.upstream.On("Post", mock.Anything, "/orders", mock.Anything).Return(tt.order, nil)
			}

			_, err := f.service.CreateBooking(context.Background(), tt.req)

			appErr := requireAppError(t, err, tt.wantCode)
			assert.Equal(t, tt.wantStatus, appErr.Status)
			assert.Equal(t, tt.wantMsg, appErr.Message)
			if tt.order == nil {
				f.upstream.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
			}
			f.notifier.AssertNotCalled(t, "BookingConfirmed", mock.Anything, mock.Anything)
		})
	}
}

func TestService_CreateBooking_NotifierFailureIsNotFatal(t *testing.T) {
	f := newServiceFixture(t)
	f.upstream.On("CheckCredentials").Return(nil)
	f.upstream.On("Get", mock.Anything, "/offers/off_1").
		Return(okResponse(map[string]any{"data": offerMap("off_1", "245.00", directDAMDXB)}), nil)
	f.upstream.On("Post", mock.Anything, "/orders", mock.Anything).
		Return(okResponse(map[string]any{"data": map[string]any{"id": "ord_1", "status": "confirmed"}}), nil)
	f.notifier.On("BookingConfirmed", mock.Anything, mock.Anything).Return(errors.New("queue unavailable"))

	confirmation, err := f.service.CreateBooking(context.Background(), bookRequest(validPassenger()))
	require.NoError(t, err)
	assert.Equal(t, "ord_1", confirmation.OrderID)
}

func TestService_FilterFlights(t *testing.T) {
	f := newServiceFixture(t)
	f.upstream.On("CheckCredentials").Return(nil)
	f.upstream.On("Post", mock.Anything, searchPath, mock.Anything).Return(offersResponse(
		offerJSON("off_a", "310.00", directDAMDXB),
		offerJSON("off_b", "180.00", segSpec{from: "DAM", to: "DXB", dep: "2026-03-15T18:00:00", arr: "2026-03-15T21:00:00", carrier: "G9"}),
		offerJSON("off_c", "240.00", directDAMDXB),
	), nil).Once()

	maxPrice := 300.0
	result, err := f.service.FilterFlights(context.Background(), FilterRequest{
		SearchRequest: damDXBRequest(),
		Filters:       &FilterOptions{MaxPrice: &maxPrice},
		Sort:          &SortOptions{By: SortByPrice, Order: "desc"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"off_c", "off_b"}, offerIDs(result.Flights))
	assert.Equal(t, 2, result.TotalFound)

	_, err = f.service.FilterFlights(context.Background(), FilterRequest{
		SearchRequest: damDXBRequest(),
		Sort:          &SortOptions{By: "cheapest"},
	})
	requireAppError(t, err, ErrorCodeValidation)
}
