package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func OrderHandler(store *OfferStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrderRequestBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Malformed JSON body")
			return
		}
		if req.Data.Type != "pay_later" {
			writeError(w, http.StatusUnprocessableEntity, "Only pay_later orders are supported")
			return
		}
		if len(req.Data.SelectedOffers) != 1 {
			writeError(w, http.StatusUnprocessableEntity, "Exactly one selected offer is required")
			return
		}

		offer, ok := store.Get(req.Data.SelectedOffers[0])
		if !ok {
			writeError(w, http.StatusNotFound, "Offer not found")
			return
		}
		if len(req.Data.Passengers) != len(offer.Passengers) {
			writeError(w, http.StatusUnprocessableEntity, "Passenger count does not match the offer")
			return
		}
		known := make(map[string]bool, len(offer.Passengers))
		for _, p := range offer.Passengers {
			known[p.ID] = true
		}
		for _, p := range req.Data.Passengers {
			if !known[p.ID] {
				writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Unknown passenger id %s", p.ID))
				return
			}
		}

		simulateLatency()
		writeJSON(w, http.StatusCreated, Order{
			ID:               fmt.Sprintf("ord_%016x", rand.Uint64()),
			BookingReference: bookingReference(),
			Status:           "confirmed",
		})
	}
}

func bookingReference() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = referenceAlphabet[rand.Intn(len(referenceAlphabet))]
	}
	return string(b)
}
