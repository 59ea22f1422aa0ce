package flight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBookingRequest_Positional(t *testing.T) {
	first := validPassenger()
	first.GivenName = "  Layla "
	first.Email = " layla@example.com "
	second := validPassenger()
	second.GivenName = "Omar"
	second.Gender = "m"
	second.Title = "mr"

	slots := []PassengerSlot{{ID: "pas_a", Type: "adult"}, {ID: "pas_b", Type: "adult"}}

	req, err := BuildBookingRequest("off_1", slots, []BookingPassenger{first, second})
	require.NoError(t, err)

	assert.Equal(t, "off_1", req.OfferID)
	require.Len(t, req.Passengers, 2)
	assert.Equal(t, "pas_a", req.Passengers[0].ID)
	assert.Equal(t, "Layla", req.Passengers[0].GivenName)
	assert.Equal(t, "layla@example.com", req.Passengers[0].Email)
	assert.Equal(t, "pas_b", req.Passengers[1].ID)
	assert.Equal(t, "Omar", req.Passengers[1].GivenName)
	assert.Equal(t, "mr", req.Passengers[1].Title)
}

func TestBuildBookingRequest_CountMismatch(t *testing.T) {
	req, err := BuildBookingRequest("off_1",
		[]PassengerSlot{{ID: "pas_a", Type: "adult"}},
		[]BookingPassenger{validPassenger(), validPassenger()},
	)

	assert.Empty(t, req.Passengers)
	assert.Empty(t, req.OfferID)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrorCodePassengerMismatch, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Passenger count mismatch: offer expects 1, got 2", appErr.Message)
}

func TestNewOrderPayload(t *testing.T) {
	req, err := BuildBookingRequest("off_1", []PassengerSlot{{ID: "pas_a", Type: "adult"}}, []BookingPassenger{validPassenger()})
	require.NoError(t, err)

	assert.JSONEq(t, `{"data":{
		"type":"pay_later",
		"selected_offers":["off_1"],
		"passengers":[{"id":"pas_a","type":"adult","given_name":"Layla","family_name":"Haddad",
			"born_on":"1990-04-12","email":"layla@example.com","phone_number":"+971 50 123 4567",
			"gender":"f","title":"ms"}]
	}}`, string(rawJSON(newOrderPayload(req))))
}
