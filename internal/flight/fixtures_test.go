package flight

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

type segSpec struct {
	from, to string
	dep, arr string
	carrier  string
	number   string
}

func segment(s segSpec) map[string]any {
	carrier := s.carrier
	if carrier == "" {
		carrier = "FZ"
	}
	number := s.number
	if number == "" {
		number = "302"
	}
	return map[string]any{
		"origin":                          map[string]any{"iata_code": s.from, "name": s.from + " Airport"},
		"destination":                     map[string]any{"iata_code": s.to, "name": s.to + " Airport"},
		"departing_at":                    s.dep,
		"arriving_at":                     s.arr,
		"marketing_carrier":               map[string]any{"iata_code": carrier, "name": carrier + " Air", "logo_symbol_url": "https://logo/" + carrier + ".svg"},
		"operating_carrier":               map[string]any{"iata_code": carrier, "name": carrier + " Air"},
		"marketing_carrier_flight_number": number,
		"aircraft":                        map[string]any{"name": "Boeing 737"},
		"passengers":                      []any{map[string]any{"cabin_class_marketing_name": "Economy"}},
	}
}

func offerMap(id, amount string, segs ...segSpec) map[string]any {
	segments := make([]any, len(segs))
	for i, s := range segs {
		segments[i] = segment(s)
	}
	return map[string]any{
		"id":             id,
		"total_amount":   amount,
		"total_currency": "USD",
		"passengers":     []any{map[string]any{"id": "pas_1", "type": "adult"}},
		"slices": []any{map[string]any{
			"duration":        "PT3H",
			"fare_brand_name": "Basic",
			"segments":        segments,
		}},
	}
}

func rawJSON(v any) RawOffer {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func offerJSON(id, amount string, segs ...segSpec) RawOffer {
	return rawJSON(offerMap(id, amount, segs...))
}

var directDAMDXB = segSpec{from: "DAM", to: "DXB", dep: "2026-03-15T10:00:00", arr: "2026-03-15T13:00:00"}

func validPassenger() BookingPassenger {
	return BookingPassenger{
		GivenName:   "Layla",
		FamilyName:  "Haddad",
		BornOn:      "1990-04-12",
		Email:       "layla@example.com",
		PhoneNumber: "+971 50 123 4567",
		Gender:      "f",
		Title:       "ms",
	}
}

type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) Get(ctx context.Context, path string) (*UpstreamResponse, error) {
	args := m.Called(ctx, path)
	resp, _ := args.Get(0).(*UpstreamResponse)
	return resp, args.Error(1)
}

func (m *MockUpstream) Post(ctx context.Context, path string, body any) (*UpstreamResponse, error) {
	args := m.Called(ctx, path, body)
	resp, _ := args.Get(0).(*UpstreamResponse)
	return resp, args.Error(1)
}

func (m *MockUpstream) CheckCredentials() error {
	return m.Called().Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingConfirmed(ctx context.Context, n BookingNotification) error {
	return m.Called(ctx, n).Error(0)
}

func okResponse(v any) *UpstreamResponse {
	return &UpstreamResponse{Status: 200, Body: rawJSON(v)}
}
