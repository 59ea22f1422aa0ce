package flight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	SearchSupplierTimeout   = 25 * time.Second
	CalendarSupplierTimeout = 8 * time.Second
)

// UpstreamResponse is the raw status and body of one upstream call.
type UpstreamResponse struct {
	Status int
	Body   []byte
}

func (r *UpstreamResponse) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// ErrorMessage returns the first upstream error message, or a generic
// "request failed: <status>" when the body carries none.
func (r *UpstreamResponse) ErrorMessage() string {
	var body struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(r.Body, &body); err == nil && len(body.Errors) > 0 && body.Errors[0].Message != "" {
		return body.Errors[0].Message
	}
	return fmt.Sprintf("request failed: %d", r.Status)
}

// UpstreamClient performs authenticated calls against the flight-distribution API.
type UpstreamClient interface {
	Get(ctx context.Context, path string) (*UpstreamResponse, error)
	Post(ctx context.Context, path string, body any) (*UpstreamResponse, error)
	// CheckCredentials reports a ConfigurationError when no credential is configured.
	CheckCredentials() error
}

type OfferQuery struct {
	Origin          string
	Destination     string
	Date            string
	Passengers      int
	Currency        string
	SupplierTimeout time.Duration
}

// OfferSearcher runs one offer search and returns the raw offers in upstream order.
type OfferSearcher interface {
	SearchOffers(ctx context.Context, q OfferQuery) ([]RawOffer, error)
}

// OfferSearcherFunc adapts a function to OfferSearcher.
type OfferSearcherFunc func(ctx context.Context, q OfferQuery) ([]RawOffer, error)

func (f OfferSearcherFunc) SearchOffers(ctx context.Context, q OfferQuery) ([]RawOffer, error) {
	return f(ctx, q)
}

type offerRequestSlice struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type offerRequestPassenger struct {
	Type string `json:"type"`
}

type offerRequestPayload struct {
	Data struct {
		Slices          []offerRequestSlice     `json:"slices"`
		Passengers      []offerRequestPassenger `json:"passengers"`
		CabinClass      string                  `json:"cabin_class"`
		Currency        string                  `json:"currency"`
		SupplierTimeout int64                   `json:"supplier_timeout"`
	} `json:"data"`
}

func newOfferRequestPayload(q OfferQuery) offerRequestPayload {
	var p offerRequestPayload
	p.Data.Slices = []offerRequestSlice{{
		Origin:        q.Origin,
		Destination:   q.Destination,
		DepartureDate: q.Date,
	}}
	p.Data.Passengers = make([]offerRequestPassenger, q.Passengers)
	for i := range p.Data.Passengers {
		p.Data.Passengers[i] = offerRequestPassenger{Type: "adult"}
	}
	p.Data.CabinClass = "economy"
	p.Data.Currency = q.Currency
	p.Data.SupplierTimeout = q.SupplierTimeout.Milliseconds()
	return p
}

type upstreamOfferSearcher struct {
	client UpstreamClient
}

// NewOfferSearcher returns an OfferSearcher backed by the offer_requests endpoint.
func NewOfferSearcher(client UpstreamClient) OfferSearcher {
	return &upstreamOfferSearcher{client: client}
}

func (u *upstreamOfferSearcher) SearchOffers(ctx context.Context, q OfferQuery) ([]RawOffer, error) {
	resp, err := u.client.Post(ctx, "/offer_requests?return_offers=true", newOfferRequestPayload(q))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, NewSearchFailedError(resp.Status)
	}

	var out struct {
		Data struct {
			Offers []RawOffer `json:"offers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, NewUpstreamError(resp.Status, "malformed offer search response")
	}
	return out.Data.Offers, nil
}
