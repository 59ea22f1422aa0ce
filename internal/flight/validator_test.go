package flight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingValidator_Valid(t *testing.T) {
	v := NewBookingValidator()

	p := validPassenger()
	p.PhoneNumber = "(050) 123-4567"
	assert.Empty(t, v.Validate([]BookingPassenger{validPassenger(), p}))
}

func TestBookingValidator_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *BookingPassenger)
		wantMsg string
	}{
		{"blank given name", func(p *BookingPassenger) { p.GivenName = "   " }, "Passenger 1: missing given_name"},
		{"blank family name", func(p *BookingPassenger) { p.FamilyName = "" }, "Passenger 1: missing family_name"},
		{"birth date shape", func(p *BookingPassenger) { p.BornOn = "12/04/1990" }, "Passenger 1: invalid born_on"},
		{"bad email", func(p *BookingPassenger) { p.Email = "bad-email" }, "Passenger 1: invalid email"},
		{"email without tld", func(p *BookingPassenger) { p.Email = "a@b" }, "Passenger 1: invalid email"},
		{"short phone", func(p *BookingPassenger) { p.PhoneNumber = "+12345" }, "Passenger 1: invalid phone_number"},
		{"phone letters", func(p *BookingPassenger) { p.PhoneNumber = "call me maybe" }, "Passenger 1: invalid phone_number"},
		{"gender", func(p *BookingPassenger) { p.Gender = "x" }, "Passenger 1: invalid gender"},
		{"title", func(p *BookingPassenger) { p.Title = "dr" }, "Passenger 1: invalid title"},
	}

	v := NewBookingValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPassenger()
			tt.mutate(&p)

			errs := v.Validate([]BookingPassenger{p})
			require.Len(t, errs, 1)

			var appErr *AppError
			require.True(t, errors.As(errs[0], &appErr))
			assert.Equal(t, ErrorCodeValidation, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestBookingValidator_FirstFailingRuleWins(t *testing.T) {
	p := validPassenger()
	p.Email = "bad-email"
	p.Title = "dr"
	p.BornOn = ""

	err := NewBookingValidator().ValidatePassenger(1, p)
	require.Error(t, err)
	assert.Equal(t, "Passenger 2: invalid born_on", err.Error())
}

func TestBookingValidator_OneErrorPerInvalidPassenger(t *testing.T) {
	bad := validPassenger()
	bad.Gender = "F"

	errs := NewBookingValidator().Validate([]BookingPassenger{validPassenger(), bad, bad})
	require.Len(t, errs, 2)
	assert.EqualError(t, errs[0], "Passenger 2: invalid gender")
	assert.EqualError(t, errs[1], "Passenger 3: invalid gender")
}
