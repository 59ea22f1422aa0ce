package flight

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FlightService is the facade surface exposed over HTTP and Lambda.
type FlightService interface {
	SearchFlights(ctx context.Context, req SearchRequest) (*SearchResult, error)
	GetPriceCalendar(ctx context.Context, req CalendarRequest) (*PriceCalendar, error)
	GetOffer(ctx context.Context, req OfferRequest) (*OfferDetail, error)
	CreateBooking(ctx context.Context, req BookRequest) (*BookingConfirmation, error)
	FilterFlights(ctx context.Context, req FilterRequest) (*SearchResult, error)
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code"`
	Field string    `json:"field,omitempty"`
}

type FlightHandler struct {
	service FlightService
}

func NewFlightHandler(s FlightService) *FlightHandler {
	return &FlightHandler{
		service: s,
	}
}

func (h *FlightHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api")
	api.POST("/flights", h.SearchFlightsHandler)
	api.POST("/flights/filter", h.FilterFlightsHandler)
	api.POST("/calendar", h.PriceCalendarHandler)
	api.POST("/booking-options", h.BookingOptionsHandler)
	api.POST("/book", h.BookHandler)
}

// SearchFlightsHandler godoc
// @Summary      Search one-way flights
// @Description  Searches offers for a route and date and flags the cheapest as best
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request body SearchRequest true "Search criteria"
// @Success      200 {object} SearchResult
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/flights [post]
func (h *FlightHandler) SearchFlightsHandler(c *gin.Context) {
	var req SearchRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.SearchFlights(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// FilterFlightsHandler godoc
// @Summary      Filter and sort flight results
// @Description  Applies airline, price, stop and time filters plus a sort key to a search
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request body FilterRequest true "Search criteria with filters"
// @Success      200 {object} SearchResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/flights/filter [post]
func (h *FlightHandler) FilterFlightsHandler(c *gin.Context) {
	var req FilterRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.FilterFlights(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// PriceCalendarHandler godoc
// @Summary      Price calendar
// @Description  Cheapest price per sampled date across a range
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request body CalendarRequest true "Route and date range"
// @Success      200 {object} PriceCalendar
// @Failure      400 {object} ErrorResponse
// @Router       /api/calendar [post]
func (h *FlightHandler) PriceCalendarHandler(c *gin.Context) {
	var req CalendarRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.GetPriceCalendar(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// BookingOptionsHandler godoc
// @Summary      Offer details
// @Description  Fetches one offer and a Google Flights link for the same search
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body OfferRequest true "Offer id and optional route"
// @Success      200 {object} OfferDetail
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/booking-options [post]
func (h *FlightHandler) BookingOptionsHandler(c *gin.Context) {
	var req OfferRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.GetOffer(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// BookHandler godoc
// @Summary      Book an offer
// @Description  Creates a pay-later order for the given offer and passengers
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body BookRequest true "Offer id and passengers"
// @Success      200 {object} BookingConfirmation
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/book [post]
func (h *FlightHandler) BookHandler(c *gin.Context) {
	var req BookRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid JSON body",
			Code:  ErrorCodeValidation,
		})
		return false
	}
	return true
}

func sendError(c *gin.Context, err error) {
	status, body := ErrorBody(err)
	_ = c.Error(err)
	c.JSON(status, body)
}

// ErrorBody maps any error to its HTTP status and response body.
func ErrorBody(err error) (int, ErrorResponse) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
			Field: appErr.Field,
		}
	}

	// Default to 500 for unknown errors
	return http.StatusInternalServerError, ErrorResponse{
		Error: "Internal Server Error",
		Code:  ErrorCodeInternalFailure,
	}
}
