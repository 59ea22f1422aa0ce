package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"travel/internal/flight"
)

type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

type route func(ctx context.Context, svc flight.FlightService, body []byte) (any, error)

var routes = map[string]route{
	"/api/flights": func(ctx context.Context, svc flight.FlightService, body []byte) (any, error) {
		var req flight.SearchRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		return svc.SearchFlights(ctx, req)
	},
	"/api/flights/filter": func(ctx context.Context, svc flight.FlightService, body []byte) (any, error) {
		var req flight.FilterRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		return svc.FilterFlights(ctx, req)
	},
	"/api/calendar": func(ctx context.Context, svc flight.FlightService, body []byte) (any, error) {
		var req flight.CalendarRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		return svc.GetPriceCalendar(ctx, req)
	},
	"/api/booking-options": func(ctx context.Context, svc flight.FlightService, body []byte) (any, error) {
		var req flight.OfferRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		return svc.GetOffer(ctx, req)
	},
	"/api/book": func(ctx context.Context, svc flight.FlightService, body []byte) (any, error) {
		var req flight.BookRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		return svc.CreateBooking(ctx, req)
	},
}

// Adapter serves the flight API from API Gateway proxy events.
func Adapter(svc flight.FlightService) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if req.HTTPMethod == http.MethodOptions {
			return respond(http.StatusNoContent, ""), nil
		}

		handle, ok := routes[strings.TrimRight(req.Path, "/")]
		if !ok {
			return errorResponse(http.StatusNotFound, flight.ErrorResponse{
				Error: "Not Found",
				Code:  flight.ErrorCodeValidation,
			}), nil
		}
		if req.HTTPMethod != http.MethodPost {
			return errorResponse(http.StatusMethodNotAllowed, flight.ErrorResponse{
				Error: "Method Not Allowed",
				Code:  flight.ErrorCodeValidation,
			}), nil
		}

		result, err := handle(ctx, svc, []byte(req.Body))
		if err != nil {
			return errorResponse(flight.ErrorBody(err)), nil
		}

		body, err := json.Marshal(result)
		if err != nil {
			return errorResponse(flight.ErrorBody(err)), nil
		}
		return respond(http.StatusOK, string(body)), nil
	}
}

func decode(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return flight.NewValidationError("", "Invalid JSON body")
	}
	return nil
}

func respond(statusCode int, body string) events.APIGatewayProxyResponse {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	for k, v := range corsHeaders {
		headers[k] = v
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       body,
	}
}

func errorResponse(statusCode int, body flight.ErrorResponse) events.APIGatewayProxyResponse {
	responseBytes, _ := json.Marshal(body)
	return respond(statusCode, string(responseBytes))
}
