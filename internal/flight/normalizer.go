package flight

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// RawOffer is one upstream offer exactly as received.
type RawOffer = json.RawMessage

// OfferNormalizer turns one upstream offer into a canonical Flight. Swapping
// upstream providers means supplying another implementation.
type OfferNormalizer interface {
	Normalize(raw RawOffer) (Flight, error)
}

var (
	ErrMalformedDuration  = errors.New("malformed duration")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDuration converts an ISO-8601 duration token ("PT2H30M") to whole minutes.
// Seconds of 30 or more round the minute up.
func ParseDuration(token string) (int, error) {
	token = strings.TrimSpace(token)
	m := durationPattern.FindStringSubmatch(token)
	if m == nil || token == "P" || strings.HasSuffix(token, "T") {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, token)
	}

	part := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}

	minutes := part(m[1])*24*60 + part(m[2])*60 + part(m[3])
	if part(m[4]) >= 30 {
		minutes++
	}
	return minutes, nil
}

// ExtractClock returns the HH:MM portion following the date/time separator.
func ExtractClock(ts string) string {
	i := strings.IndexAny(ts, "T ")
	if i < 0 {
		return ts
	}
	rest := ts[i+1:]
	if len(rest) > 5 {
		rest = rest[:5]
	}
	return rest
}

func parseTimestamp(ts string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
}

// MarkBest flags every flight whose price equals the minimum. A NaN price is
// never best.
func MarkBest(flights []Flight) {
	lowest := math.Inf(1)
	for _, f := range flights {
		if f.Price.Amount < lowest {
			lowest = f.Price.Amount
		}
	}
	for i := range flights {
		flights[i].IsBest = flights[i].Price.Amount == lowest
	}
}

type duffelPlace struct {
	IATACode string `json:"iata_code"`
	Name     string `json:"name"`
}

type duffelCarrier struct {
	Name          string `json:"name"`
	IATACode      string `json:"iata_code"`
	LogoSymbolURL string `json:"logo_symbol_url"`
}

type duffelSegment struct {
	Origin                       duffelPlace    `json:"origin"`
	Destination                  duffelPlace    `json:"destination"`
	DepartingAt                  string         `json:"departing_at"`
	ArrivingAt                   string         `json:"arriving_at"`
	OperatingCarrier             *duffelCarrier `json:"operating_carrier"`
	MarketingCarrier             duffelCarrier  `json:"marketing_carrier"`
	MarketingCarrierFlightNumber string         `json:"marketing_carrier_flight_number"`
	Aircraft                     *struct {
		Name string `json:"name"`
	} `json:"aircraft"`
	Passengers []struct {
		CabinClass              string `json:"cabin_class"`
		CabinClassMarketingName string `json:"cabin_class_marketing_name"`
	} `json:"passengers"`
}

type duffelSlice struct {
	Duration      string          `json:"duration"`
	FareBrandName string          `json:"fare_brand_name"`
	Segments      []duffelSegment `json:"segments"`
}

type duffelCondition struct {
	Allowed         bool    `json:"allowed"`
	PenaltyAmount   *string `json:"penalty_amount"`
	PenaltyCurrency *string `json:"penalty_currency"`
}

type duffelOffer struct {
	ID               string          `json:"id"`
	TotalAmount      string          `json:"total_amount"`
	TotalCurrency    string          `json:"total_currency"`
	TotalEmissionsKg *string         `json:"total_emissions_kg"`
	Passengers       []PassengerSlot `json:"passengers"`
	Slices           []duffelSlice   `json:"slices"`
	Conditions       struct {
		RefundBeforeDeparture *duffelCondition `json:"refund_before_departure"`
		ChangeBeforeDeparture *duffelCondition `json:"change_before_departure"`
	} `json:"conditions"`
}

const offerSchemaJSON = `{
  "type": "object",
  "required": ["id", "total_amount", "total_currency", "slices"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "total_amount": {"type": "string", "minLength": 1},
    "total_currency": {"type": "string"},
    "passengers": {
      "type": "array",
      "items": {"type": "object", "required": ["id"], "properties": {"id": {"type": "string"}}}
    },
    "slices": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["segments"],
        "properties": {
          "duration": {"type": ["string", "null"]},
          "segments": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["origin", "destination", "departing_at", "arriving_at", "marketing_carrier"],
              "properties": {
                "origin": {"$ref": "#/definitions/place"},
                "destination": {"$ref": "#/definitions/place"},
                "departing_at": {"type": "string"},
                "arriving_at": {"type": "string"},
                "marketing_carrier": {"type": "object", "required": ["iata_code"]}
              }
            }
          }
        }
      }
    }
  },
  "definitions": {
    "place": {
      "type": "object",
      "required": ["iata_code"],
      "properties": {"iata_code": {"type": "string"}}
    }
  }
}`

var offerSchema = mustSchema(offerSchemaJSON)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("flight: invalid offer schema: %v", err))
	}
	return schema
}

// DuffelNormalizer normalizes Duffel v2 offers. Only the first slice is read.
type DuffelNormalizer struct{}

func NewDuffelNormalizer() *DuffelNormalizer {
	return &DuffelNormalizer{}
}

func (n *DuffelNormalizer) Normalize(raw RawOffer) (Flight, error) {
	if err := checkOfferShape(raw); err != nil {
		return Flight{}, err
	}

	var offer duffelOffer
	if err := json.Unmarshal(raw, &offer); err != nil {
		return Flight{}, NewNormalizationError("offer", err)
	}

	amount, err := strconv.ParseFloat(offer.TotalAmount, 64)
	if err != nil {
		return Flight{}, NewNormalizationError("total_amount", err)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Flight{}, NewNormalizationError("total_amount", fmt.Errorf("not a finite amount: %q", offer.TotalAmount))
	}

	slice := offer.Slices[0]
	legs := make([]Leg, 0, len(slice.Segments))
	for i, seg := range slice.Segments {
		leg, err := normalizeSegment(seg)
		if err != nil {
			return Flight{}, NewNormalizationError(fmt.Sprintf("slices.0.segments.%d", i), err)
		}
		legs = append(legs, leg)
	}

	first, last := legs[0], legs[len(legs)-1]

	var duration int
	if slice.Duration != "" {
		if duration, err = ParseDuration(slice.Duration); err != nil {
			return Flight{}, NewNormalizationError("slices.0.duration", err)
		}
	} else {
		duration = int(math.Round(last.ArrivingAt.Sub(first.DepartingAt).Minutes()))
	}

	flight := Flight{
		OfferID:         offer.ID,
		Origin:          first.Origin,
		Destination:     last.Destination,
		DepartureTime:   first.DepartureTime,
		ArrivalTime:     last.ArrivalTime,
		Airline:         first.Carrier,
		FlightNumber:    first.FlightNumber,
		Legs:            legs,
		Layovers:        computeLayovers(legs),
		DurationMinutes: duration,
		Stops:           len(legs) - 1,
		Price:           Price{Amount: amount, Currency: offer.TotalCurrency},
		FareBrand:       slice.FareBrandName,
		Conditions:      convertConditions(offer.Conditions.RefundBeforeDeparture, offer.Conditions.ChangeBeforeDeparture),
	}

	if offer.TotalEmissionsKg != nil {
		if kg, err := strconv.ParseFloat(*offer.TotalEmissionsKg, 64); err == nil {
			flight.EmissionsKg = &kg
		}
	}

	return flight, nil
}

// checkOfferShape validates the raw offer against offerSchema and names the
// first offending field.
func checkOfferShape(raw RawOffer) error {
	result, err := offerSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return NewNormalizationError("offer", err)
	}
	if result.Valid() {
		return nil
	}

	resErr := result.Errors()[0]
	field := resErr.Field()
	if prop, ok := resErr.Details()["property"].(string); ok && resErr.Type() == "required" {
		if field == "(root)" {
			field = prop
		} else {
			field = field + "." + prop
		}
	}
	return NewNormalizationError(field, errors.New(resErr.Description()))
}

func normalizeSegment(seg duffelSegment) (Leg, error) {
	departing, err := parseTimestamp(seg.DepartingAt)
	if err != nil {
		return Leg{}, err
	}
	arriving, err := parseTimestamp(seg.ArrivingAt)
	if err != nil {
		return Leg{}, err
	}

	carrier := seg.MarketingCarrier
	if op := seg.OperatingCarrier; op != nil {
		carrier.Name = firstNonEmpty(op.Name, carrier.Name)
		carrier.IATACode = firstNonEmpty(op.IATACode, carrier.IATACode)
		carrier.LogoSymbolURL = firstNonEmpty(op.LogoSymbolURL, carrier.LogoSymbolURL)
	}

	leg := Leg{
		Origin:        Airport{Code: seg.Origin.IATACode, Name: seg.Origin.Name},
		Destination:   Airport{Code: seg.Destination.IATACode, Name: seg.Destination.Name},
		DepartingAt:   departing,
		ArrivingAt:    arriving,
		DepartureTime: ExtractClock(seg.DepartingAt),
		ArrivalTime:   ExtractClock(seg.ArrivingAt),
		Carrier:       Carrier{Name: carrier.Name, Code: carrier.IATACode, LogoURL: carrier.LogoSymbolURL},
		FlightNumber:  strings.TrimSpace(seg.MarketingCarrier.IATACode + " " + seg.MarketingCarrierFlightNumber),
		CabinClass:    "Economy",
	}
	if seg.Aircraft != nil {
		leg.Aircraft = seg.Aircraft.Name
	}
	if len(seg.Passengers) > 0 {
		switch {
		case seg.Passengers[0].CabinClassMarketingName != "":
			leg.CabinClass = seg.Passengers[0].CabinClassMarketingName
		case seg.Passengers[0].CabinClass != "":
			leg.CabinClass = seg.Passengers[0].CabinClass
		}
	}
	return leg, nil
}

// computeLayovers records the ground time between consecutive legs at the
// connecting airport. Zero or negative gaps are not layovers.
func computeLayovers(legs []Leg) []Layover {
	layovers := make([]Layover, 0, len(legs))
	for i := 1; i < len(legs); i++ {
		gap := int(math.Round(legs[i].DepartingAt.Sub(legs[i-1].ArrivingAt).Minutes()))
		if gap <= 0 {
			continue
		}
		layovers = append(layovers, Layover{
			Airport:         legs[i-1].Destination,
			DurationMinutes: gap,
		})
	}
	return layovers
}

func convertConditions(refund, change *duffelCondition) *Conditions {
	if refund == nil && change == nil {
		return nil
	}
	convert := func(c *duffelCondition) *Condition {
		if c == nil {
			return nil
		}
		out := &Condition{Allowed: c.Allowed}
		if c.PenaltyAmount != nil {
			out.PenaltyAmount = *c.PenaltyAmount
		}
		if c.PenaltyCurrency != nil {
			out.PenaltyCurrency = *c.PenaltyCurrency
		}
		return out
	}
	return &Conditions{
		RefundBeforeDeparture: convert(refund),
		ChangeBeforeDeparture: convert(change),
	}
}

// offerPassengers extracts the passenger slots of an already-validated offer.
func offerPassengers(raw RawOffer) ([]PassengerSlot, error) {
	var offer struct {
		Passengers []PassengerSlot `json:"passengers"`
	}
	if err := json.Unmarshal(raw, &offer); err != nil {
		return nil, NewNormalizationError("passengers", err)
	}
	return offer.Passengers, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
