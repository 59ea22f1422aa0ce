package main

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"sync"
	"time"
)

type route struct {
	carrier  Carrier
	number   string
	depart   string // HH:MM local
	legs     []int  // block minutes per segment
	via      *Place
	baseUSD  float64
	brand    string
	aircraft string
	refund   bool
}

var catalog = []route{
	{
		carrier:  Carrier{Name: "flydubai", IATACode: "FZ", LogoSymbolURL: "https://assets.duffel.com/img/airlines/for-light-background/full-color-logo/FZ.svg"},
		number:   "1234",
		depart:   "09:30",
		legs:     []int{195},
		baseUSD:  240,
		brand:    "Value",
		aircraft: "Boeing 737 MAX 8",
	},
	{
		carrier:  Carrier{Name: "Emirates", IATACode: "EK", LogoSymbolURL: "https://assets.duffel.com/img/airlines/for-light-background/full-color-logo/EK.svg"},
		number:   "912",
		depart:   "14:10",
		legs:     []int{185},
		baseUSD:  410,
		brand:    "Flex",
		aircraft: "Boeing 777-300ER",
		refund:   true,
	},
	{
		carrier: Carrier{Name: "Royal Jordanian", IATACode: "RJ"},
		number:  "442",
		depart:  "06:05",
		legs:    []int{60, 190},
		via:     &Place{IATACode: "AMM", Name: "Queen Alia International Airport"},
		baseUSD: 215,
		brand:   "Economy Saver",
	},
}

var currencyRate = map[string]float64{
	"USD": 1,
	"AED": 3.6725,
	"SAR": 3.75,
}

// OfferStore keeps every offer handed out so it can be fetched and booked later.
type OfferStore struct {
	mu     sync.RWMutex
	offers map[string]Offer
}

func NewOfferStore() *OfferStore {
	return &OfferStore{offers: make(map[string]Offer)}
}

func (s *OfferStore) Put(o Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[o.ID] = o
}

func (s *OfferStore) Get(id string) (Offer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offers[id]
	return o, ok
}

func OfferRequestHandler(store *OfferStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OfferRequestBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Malformed JSON body")
			return
		}
		if len(req.Data.Slices) == 0 || len(req.Data.Passengers) == 0 {
			writeError(w, http.StatusUnprocessableEntity, "slices and passengers are required")
			return
		}

		slice := req.Data.Slices[0]
		date, err := time.Parse("2006-01-02", slice.DepartureDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "departure_date must be a date")
			return
		}
		currency := strings.ToUpper(req.Data.Currency)
		if _, ok := currencyRate[currency]; !ok {
			currency = "USD"
		}

		origin := Place{IATACode: strings.ToUpper(slice.Origin), Name: slice.Origin}
		destination := Place{IATACode: strings.ToUpper(slice.Destination), Name: slice.Destination}

		offers := make([]Offer, 0, len(catalog))
		for i, rt := range catalog {
			// some dates have no availability for some carriers
			if seed(origin.IATACode, destination.IATACode, slice.DepartureDate, i)%5 == 0 {
				continue
			}
			o := buildOffer(rt, i, origin, destination, date, len(req.Data.Passengers), currency)
			store.Put(o)
			offers = append(offers, o)
		}

		simulateLatency()
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":     fmt.Sprintf("orq_%08x", seed(origin.IATACode, destination.IATACode, slice.DepartureDate, -1)),
			"offers": offers,
		})
	}
}

func OfferHandler(store *OfferStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offer, ok := store.Get(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Offer not found")
			return
		}
		simulateLatency()
		writeJSON(w, http.StatusOK, offer)
	}
}

func buildOffer(rt route, idx int, origin, destination Place, date time.Time, passengers int, currency string) Offer {
	day := date.Format("2006-01-02")
	h := seed(origin.IATACode, destination.IATACode, day, idx)

	// fares drift by up to +/-15% per day
	drift := 0.85 + float64(h%31)/100
	total := rt.baseUSD * drift * float64(passengers) * currencyRate[currency]

	departAt, _ := time.Parse("2006-01-02 15:04", day+" "+rt.depart)
	points := []Place{origin}
	if rt.via != nil {
		points = append(points, *rt.via)
	}
	points = append(points, destination)

	segments := make([]Segment, 0, len(rt.legs))
	cursor := departAt
	elapsed := 0
	for i, minutes := range rt.legs {
		if i > 0 {
			cursor = cursor.Add(95 * time.Minute)
			elapsed += 95
		}
		arrive := cursor.Add(time.Duration(minutes) * time.Minute)
		seg := Segment{
			Origin:                       points[i],
			Destination:                  points[i+1],
			DepartingAt:                  cursor.Format("2006-01-02T15:04:05"),
			ArrivingAt:                   arrive.Format("2006-01-02T15:04:05"),
			OperatingCarrier:             rt.carrier,
			MarketingCarrier:             rt.carrier,
			MarketingCarrierFlightNumber: fmt.Sprintf("%d", atoi(rt.number)+i),
			Passengers:                   []SegmentPassenger{{CabinClassMarketingName: "Economy"}},
		}
		if rt.aircraft != "" {
			seg.Aircraft = &Aircraft{Name: rt.aircraft}
		}
		segments = append(segments, seg)
		cursor = arrive
		elapsed += minutes
	}

	pax := make([]OfferPassenger, passengers)
	for i := range pax {
		pax[i] = OfferPassenger{ID: fmt.Sprintf("pas_%08x_%d", h, i), Type: "adult"}
	}

	refund := &Condition{Allowed: false}
	if rt.refund {
		refund = &Condition{Allowed: true, PenaltyAmount: fmt.Sprintf("%.2f", 50*currencyRate[currency]), PenaltyCurrency: currency}
	}

	return Offer{
		ID:               fmt.Sprintf("off_%s%s%s_%s", origin.IATACode, destination.IATACode, date.Format("20060102"), rt.carrier.IATACode),
		TotalAmount:      fmt.Sprintf("%.2f", total),
		TotalCurrency:    currency,
		TotalEmissionsKg: fmt.Sprintf("%d", 90+elapsed/3),
		Conditions: Conditions{
			RefundBeforeDeparture: refund,
			ChangeBeforeDeparture: &Condition{Allowed: true, PenaltyAmount: fmt.Sprintf("%.2f", 25*currencyRate[currency]), PenaltyCurrency: currency},
		},
		Passengers: pax,
		Slices: []Slice{{
			Duration:      isoDuration(elapsed),
			FareBrandName: rt.brand,
			Segments:      segments,
		}},
	}
}

func isoDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("PT%dM", m)
	case m == 0:
		return fmt.Sprintf("PT%dH", h)
	}
	return fmt.Sprintf("PT%dH%dM", h, m)
}

func seed(origin, destination, day string, idx int) uint32 {
	f := fnv.New32a()
	fmt.Fprintf(f, "%s|%s|%s|%d", origin, destination, day, idx)
	return f.Sum32()
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
