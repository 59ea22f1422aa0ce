package flight

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"

	MinPassengers   = 1
	MaxPassengers   = 9
	DefaultCurrency = "USD"
)

var (
	iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	AllowedCurrencies = []string{"USD", "AED", "SAR"}
)

type SearchRequest struct {
	DepartureID  string  `json:"departure_id" example:"DAM"`
	ArrivalID    string  `json:"arrival_id" example:"DXB"`
	OutboundDate string  `json:"outbound_date" example:"2026-11-15"`
	Adults       float64 `json:"adults" example:"1"`
	Currency     string  `json:"currency" example:"USD"`
}

type CalendarRequest struct {
	DepartureID       string  `json:"departure_id" example:"DAM"`
	ArrivalID         string  `json:"arrival_id" example:"DXB"`
	OutboundDate      string  `json:"outbound_date" example:"2026-11-01"`
	OutboundDateStart string  `json:"outbound_date_start" example:"2026-11-01"`
	OutboundDateEnd   string  `json:"outbound_date_end" example:"2026-11-30"`
	Adults            float64 `json:"adults" example:"1"`
	Currency          string  `json:"currency" example:"USD"`
}

type OfferRequest struct {
	OfferID      string `json:"offer_id"`
	DepartureID  string `json:"departure_id,omitempty"`
	ArrivalID    string `json:"arrival_id,omitempty"`
	OutboundDate string `json:"outbound_date,omitempty"`
	Currency     string `json:"currency,omitempty"`
}

type BookRequest struct {
	OfferID    string             `json:"offer_id"`
	Passengers []BookingPassenger `json:"passengers"`
}

// SearchQuery is a validated one-way search.
type SearchQuery struct {
	Origin      string
	Destination string
	Date        string
	Passengers  int
	Currency    string
}

type CalendarQuery struct {
	Origin      string
	Destination string
	Start       time.Time
	End         time.Time
	Passengers  int
	Currency    string
}

// ClampPassengers floors n and clamps it into [MinPassengers, MaxPassengers].
// Zero, negative and NaN all fall back to one adult.
func ClampPassengers(n float64) int {
	if math.IsNaN(n) {
		return MinPassengers
	}
	v := math.Floor(n)
	if v < MinPassengers {
		return MinPassengers
	}
	if v > MaxPassengers {
		return MaxPassengers
	}
	return int(v)
}

// NormalizeCurrency returns c when it is an allowed currency, DefaultCurrency otherwise.
func NormalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if slices.Contains(AllowedCurrencies, c) {
		return c
	}
	return DefaultCurrency
}

func validateIATA(field, code string) error {
	if !iataPattern.MatchString(code) {
		return NewValidationError(field, "Invalid "+field+": must be 3 uppercase letters")
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	if !datePattern.MatchString(value) {
		return time.Time{}, NewValidationError(field, "Invalid "+field+": must be YYYY-MM-DD")
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, NewValidationError(field, "Invalid "+field+": not a calendar date")
	}
	return t, nil
}

func validateRoute(origin, destination string) error {
	if err := validateIATA("departure_id", origin); err != nil {
		return err
	}
	if err := validateIATA("arrival_id", destination); err != nil {
		return err
	}
	return nil
}

func (r SearchRequest) Query() (SearchQuery, error) {
	if err := validateRoute(r.DepartureID, r.ArrivalID); err != nil {
		return SearchQuery{}, err
	}
	if _, err := parseDate("outbound_date", r.OutboundDate); err != nil {
		return SearchQuery{}, err
	}
	return SearchQuery{
		Origin:      r.DepartureID,
		Destination: r.ArrivalID,
		Date:        r.OutboundDate,
		Passengers:  ClampPassengers(r.Adults),
		Currency:    NormalizeCurrency(r.Currency),
	}, nil
}

// Query validates the request. outbound_date is required; the range bounds
// default to it, so a bare request samples that single day.
func (r CalendarRequest) Query() (CalendarQuery, error) {
	if err := validateRoute(r.DepartureID, r.ArrivalID); err != nil {
		return CalendarQuery{}, err
	}
	anchor, err := parseDate("outbound_date", r.OutboundDate)
	if err != nil {
		return CalendarQuery{}, err
	}

	start, end := anchor, anchor
	if r.OutboundDateStart != "" {
		if start, err = parseDate("outbound_date_start", r.OutboundDateStart); err != nil {
			return CalendarQuery{}, err
		}
	}
	if r.OutboundDateEnd != "" {
		if end, err = parseDate("outbound_date_end", r.OutboundDateEnd); err != nil {
			return CalendarQuery{}, err
		}
	}

	return CalendarQuery{
		Origin:      r.DepartureID,
		Destination: r.ArrivalID,
		Start:       start,
		End:         end,
		Passengers:  ClampPassengers(r.Adults),
		Currency:    NormalizeCurrency(r.Currency),
	}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
