package flight

import "strings"

// BuildBookingRequest binds passengers to the offer's slots by position: the
// i-th passenger takes the i-th slot's id and type.
func BuildBookingRequest(offerID string, slots []PassengerSlot, passengers []BookingPassenger) (BookingRequest, error) {
	if len(slots) != len(passengers) {
		return BookingRequest{}, NewPassengerCountMismatchError(len(slots), len(passengers))
	}

	records := make([]BookingPassengerRecord, len(passengers))
	for i, p := range passengers {
		records[i] = BookingPassengerRecord{
			ID:          slots[i].ID,
			Type:        slots[i].Type,
			GivenName:   strings.TrimSpace(p.GivenName),
			FamilyName:  strings.TrimSpace(p.FamilyName),
			BornOn:      p.BornOn,
			Email:       strings.TrimSpace(p.Email),
			PhoneNumber: strings.TrimSpace(p.PhoneNumber),
			Gender:      p.Gender,
			Title:       p.Title,
		}
	}

	return BookingRequest{OfferID: offerID, Passengers: records}, nil
}

type orderPayload struct {
	Data struct {
		Type           string                   `json:"type"`
		SelectedOffers []string                 `json:"selected_offers"`
		Passengers     []BookingPassengerRecord `json:"passengers"`
	} `json:"data"`
}

// newOrderPayload wraps a booking request as a hold (pay later) order.
func newOrderPayload(req BookingRequest) orderPayload {
	var p orderPayload
	p.Data.Type = "pay_later"
	p.Data.SelectedOffers = []string{req.OfferID}
	p.Data.Passengers = req.Passengers
	return p
}
