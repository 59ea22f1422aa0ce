package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

type Place struct {
	IATACode string `json:"iata_code"`
	Name     string `json:"name"`
}

type Carrier struct {
	Name          string `json:"name"`
	IATACode      string `json:"iata_code"`
	LogoSymbolURL string `json:"logo_symbol_url,omitempty"`
}

type SegmentPassenger struct {
	CabinClassMarketingName string `json:"cabin_class_marketing_name"`
}

type Segment struct {
	Origin                       Place              `json:"origin"`
	Destination                  Place              `json:"destination"`
	DepartingAt                  string             `json:"departing_at"`
	ArrivingAt                   string             `json:"arriving_at"`
	OperatingCarrier             Carrier            `json:"operating_carrier"`
	MarketingCarrier             Carrier            `json:"marketing_carrier"`
	MarketingCarrierFlightNumber string             `json:"marketing_carrier_flight_number"`
	Aircraft                     *Aircraft          `json:"aircraft,omitempty"`
	Passengers                   []SegmentPassenger `json:"passengers"`
}

type Aircraft struct {
	Name string `json:"name"`
}

type Slice struct {
	Duration      string    `json:"duration"`
	FareBrandName string    `json:"fare_brand_name,omitempty"`
	Segments      []Segment `json:"segments"`
}

type OfferPassenger struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type Condition struct {
	Allowed         bool   `json:"allowed"`
	PenaltyAmount   string `json:"penalty_amount,omitempty"`
	PenaltyCurrency string `json:"penalty_currency,omitempty"`
}

type Conditions struct {
	RefundBeforeDeparture *Condition `json:"refund_before_departure"`
	ChangeBeforeDeparture *Condition `json:"change_before_departure"`
}

type Offer struct {
	ID               string           `json:"id"`
	TotalAmount      string           `json:"total_amount"`
	TotalCurrency    string           `json:"total_currency"`
	TotalEmissionsKg string           `json:"total_emissions_kg,omitempty"`
	Conditions       Conditions       `json:"conditions"`
	Passengers       []OfferPassenger `json:"passengers"`
	Slices           []Slice          `json:"slices"`
}

type OfferRequestBody struct {
	Data struct {
		Slices []struct {
			Origin        string `json:"origin"`
			Destination   string `json:"destination"`
			DepartureDate string `json:"departure_date"`
		} `json:"slices"`
		Passengers []struct {
			Type string `json:"type"`
		} `json:"passengers"`
		CabinClass      string `json:"cabin_class"`
		Currency        string `json:"currency"`
		SupplierTimeout int    `json:"supplier_timeout"`
	} `json:"data"`
}

type OrderRequestBody struct {
	Data struct {
		Type           string   `json:"type"`
		SelectedOffers []string `json:"selected_offers"`
		Passengers     []struct {
			ID         string `json:"id"`
			Type       string `json:"type"`
			GivenName  string `json:"given_name"`
			FamilyName string `json:"family_name"`
		} `json:"passengers"`
	} `json:"data"`
}

type Order struct {
	ID               string `json:"id"`
	BookingReference string `json:"booking_reference"`
	Status           string `json:"status"`
}

type envelope struct {
	Data any `json:"data"`
}

type errorItem struct {
	Message string `json:"message"`
}

type errorBody struct {
	Errors []errorItem `json:"errors"`
}

// RequireToken rejects calls that lack a bearer token, like the real API.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
			writeError(w, http.StatusUnauthorized, "The provided access token is not valid")
			return
		}
		if r.Header.Get("Duffel-Version") == "" {
			writeError(w, http.StatusBadRequest, "Duffel-Version header is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Errors: []errorItem{{Message: message}}})
}

func simulateLatency() {
	delay := 50 + rand.Intn(51) // 50 to 100ms
	time.Sleep(time.Duration(delay) * time.Millisecond)
}
