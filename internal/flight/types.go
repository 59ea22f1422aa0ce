package flight

import "time"

type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

type Carrier struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	LogoURL string `json:"logo_url,omitempty"`
	Website string `json:"website,omitempty"`
}

// Leg is one flown segment. Timestamps keep the upstream wall-clock value;
// DepartureTime/ArrivalTime are the HH:MM display portions.
type Leg struct {
	Origin        Airport   `json:"origin"`
	Destination   Airport   `json:"destination"`
	DepartingAt   time.Time `json:"departing_at"`
	ArrivingAt    time.Time `json:"arriving_at"`
	DepartureTime string    `json:"departure_time"`
	ArrivalTime   string    `json:"arrival_time"`
	Carrier       Carrier   `json:"carrier"`
	FlightNumber  string    `json:"flight_number"`
	CabinClass    string    `json:"cabin_class"`
	Aircraft      string    `json:"aircraft,omitempty"`
}

type Layover struct {
	Airport         Airport `json:"airport"`
	DurationMinutes int     `json:"duration_minutes"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Condition struct {
	Allowed         bool   `json:"allowed"`
	PenaltyAmount   string `json:"penalty_amount,omitempty"`
	PenaltyCurrency string `json:"penalty_currency,omitempty"`
}

type Conditions struct {
	RefundBeforeDeparture *Condition `json:"refund_before_departure,omitempty"`
	ChangeBeforeDeparture *Condition `json:"change_before_departure,omitempty"`
}

// Flight is the canonical itinerary built from one upstream offer.
// Stops is always len(Legs)-1 and Layovers only holds positive gaps.
type Flight struct {
	OfferID         string      `json:"offer_id"`
	Origin          Airport     `json:"origin"`
	Destination     Airport     `json:"destination"`
	DepartureTime   string      `json:"departure_time"`
	ArrivalTime     string      `json:"arrival_time"`
	Airline         Carrier     `json:"airline"`
	FlightNumber    string      `json:"flight_number"`
	Legs            []Leg       `json:"legs"`
	Layovers        []Layover   `json:"layovers"`
	DurationMinutes int         `json:"duration_minutes"`
	Stops           int         `json:"stops"`
	Price           Price       `json:"price"`
	IsBest          bool        `json:"is_best"`
	FareBrand       string      `json:"fare_brand,omitempty"`
	Conditions      *Conditions `json:"conditions,omitempty"`
	EmissionsKg     *float64    `json:"total_emissions_kg,omitempty"`
}

type SearchResult struct {
	Flights    []Flight `json:"flights"`
	TotalFound int      `json:"total_found"`
}

// CalendarEntry holds either a cheapest price or HasNoFlights, never both.
type CalendarEntry struct {
	Date          string   `json:"departure"`
	Price         *float64 `json:"price,omitempty"`
	HasNoFlights  bool     `json:"has_no_flights,omitempty"`
	IsLowestPrice bool     `json:"is_lowest_price,omitempty"`
}

type PriceCalendar struct {
	Entries []CalendarEntry `json:"calendar"`
	// Degraded is set when at least one date's search failed.
	Degraded bool `json:"-"`
}

type BookingPassenger struct {
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	BornOn      string `json:"born_on"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	Title       string `json:"title"`
}

// PassengerSlot is the upstream-assigned passenger placeholder on an offer.
type PassengerSlot struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type BookingPassengerRecord struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	BornOn      string `json:"born_on"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	Title       string `json:"title"`
}

type BookingRequest struct {
	OfferID    string                   `json:"offer_id"`
	Passengers []BookingPassengerRecord `json:"passengers"`
}

type BookingConfirmation struct {
	OrderID          string `json:"order_id"`
	BookingReference string `json:"booking_reference"`
	Status           string `json:"status"`
}

// OfferDetail is the booking-options view of one offer: the raw upstream blob plus
// its canonical form when it could be normalized.
type OfferDetail struct {
	Offer            RawOffer `json:"offer"`
	Flight           *Flight  `json:"flight,omitempty"`
	GoogleFlightsURL string   `json:"google_flights_url,omitempty"`
}

// BookingNotification is handed to a BookingNotifier after an order is created.
type BookingNotification struct {
	BookingConfirmation
	OfferID      string  `json:"offer_id"`
	ContactEmail string  `json:"contact_email"`
	Flight       *Flight `json:"flight,omitempty"`
}
