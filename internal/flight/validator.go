package flight

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{7,}$`)
)

type passengerRule struct {
	field   string
	tag     string
	value   func(p BookingPassenger) string
	message string
}

// passengerRules are checked in order; the first failure is the one reported.
var passengerRules = []passengerRule{
	{"given_name", "required", func(p BookingPassenger) string { return strings.TrimSpace(p.GivenName) }, "missing given_name"},
	{"family_name", "required", func(p BookingPassenger) string { return strings.TrimSpace(p.FamilyName) }, "missing family_name"},
	{"born_on", "required,isodate", func(p BookingPassenger) string { return p.BornOn }, "invalid born_on"},
	{"email", "required,contact_email", func(p BookingPassenger) string { return strings.TrimSpace(p.Email) }, "invalid email"},
	{"phone_number", "required,contact_phone", func(p BookingPassenger) string { return strings.TrimSpace(p.PhoneNumber) }, "invalid phone_number"},
	{"gender", "required,oneof=m f", func(p BookingPassenger) string { return p.Gender }, "invalid gender"},
	{"title", "required,oneof=mr ms mrs", func(p BookingPassenger) string { return p.Title }, "invalid title"},
}

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	v := validator.New()
	mustRegister(v, "isodate", datePattern)
	mustRegister(v, "contact_email", emailPattern)
	mustRegister(v, "contact_phone", phonePattern)
	return &BookingValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("flight: register %s validation: %v", tag, err))
	}
}

// Validate returns one ValidationError per invalid passenger, holding that
// passenger's first failing rule. An empty result means every passenger is valid.
func (v *BookingValidator) Validate(passengers []BookingPassenger) []error {
	var errs []error
	for i, p := range passengers {
		if err := v.ValidatePassenger(i, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ValidatePassenger checks one passenger; index is zero-based and reported 1-based.
func (v *BookingValidator) ValidatePassenger(index int, p BookingPassenger) error {
	for _, rule := range passengerRules {
		if err := v.validate.Var(rule.value(p), rule.tag); err != nil {
			return NewValidationError(
				fmt.Sprintf("passengers[%d].%s", index, rule.field),
				fmt.Sprintf("Passenger %d: %s", index+1, rule.message),
			)
		}
	}
	return nil
}
