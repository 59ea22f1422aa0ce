package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newMux(store *OfferStore) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /air/offer_requests", RequireToken(OfferRequestHandler(store)))
	mux.Handle("GET /air/offers/{id}", RequireToken(OfferHandler(store)))
	mux.Handle("POST /air/orders", RequireToken(OrderHandler(store)))
	return mux
}

func call(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test")
	req.Header.Set("Duffel-Version", "v2")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSearchFetchAndBook(t *testing.T) {
	store := NewOfferStore()
	mux := newMux(store)

	rec := call(mux, http.MethodPost, "/air/offer_requests?return_offers=true",
		`{"data":{"slices":[{"origin":"DAM","destination":"DXB","departure_date":"2026-11-15"}],"passengers":[{"type":"adult"},{"type":"adult"}],"currency":"AED"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("search status = %d, body %s", rec.Code, rec.Body)
	}

	var search struct {
		Data struct {
			Offers []Offer `json:"offers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &search); err != nil {
		t.Fatal(err)
	}
	if len(search.Data.Offers) == 0 {
		t.Fatal("expected at least one offer")
	}
	offer := search.Data.Offers[0]
	if offer.TotalCurrency != "AED" || len(offer.Passengers) != 2 {
		t.Fatalf("unexpected offer %+v", offer)
	}

	rec = call(mux, http.MethodGet, "/air/offers/"+offer.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("offer status = %d", rec.Code)
	}

	order := `{"data":{"type":"pay_later","selected_offers":["` + offer.ID + `"],"passengers":[{"id":"` +
		offer.Passengers[0].ID + `"},{"id":"` + offer.Passengers[1].ID + `"}]}}`
	rec = call(mux, http.MethodPost, "/air/orders", order)
	if rec.Code != http.StatusCreated {
		t.Fatalf("order status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"booking_reference"`) {
		t.Fatalf("missing booking reference: %s", rec.Body)
	}
}

func TestOrderRejectsPassengerMismatch(t *testing.T) {
	store := NewOfferStore()
	store.Put(Offer{ID: "off_1", Passengers: []OfferPassenger{{ID: "pas_1", Type: "adult"}}})

	rec := call(newMux(store), http.MethodPost, "/air/orders",
		`{"data":{"type":"pay_later","selected_offers":["off_1"],"passengers":[]}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUnknownOffer(t *testing.T) {
	rec := call(newMux(NewOfferStore()), http.MethodGet, "/air/offers/off_missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"errors":[{"message":"Offer not found"}]`) {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestRequireToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/air/offers/off_1", nil)
	rec := httptest.NewRecorder()
	newMux(NewOfferStore()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestISODuration(t *testing.T) {
	cases := map[int]string{45: "PT45M", 120: "PT2H", 195: "PT3H15M"}
	for in, want := range cases {
		if got := isoDuration(in); got != want {
			t.Errorf("isoDuration(%d) = %q, want %q", in, got, want)
		}
	}
}
