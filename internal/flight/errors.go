package flight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrorCodePassengerMismatch ErrorCode = "PASSENGER_COUNT_MISMATCH"
	ErrorCodeOfferNotFound     ErrorCode = "OFFER_NOT_FOUND"
	ErrorCodeUpstream          ErrorCode = "UPSTREAM_ERROR"
	ErrorCodeNormalization     ErrorCode = "NORMALIZATION_ERROR"
	ErrorCodeConfiguration     ErrorCode = "CONFIGURATION_ERROR"
	ErrorCodeTimeout           ErrorCode = "TIMEOUT"
	ErrorCodeCancelled         ErrorCode = "CANCELLED"
	ErrorCodeInternalFailure   ErrorCode = "INTERNAL_FAILURE"
)

// StatusClientClosedRequest is reported when the caller went away mid-request.
const StatusClientClosedRequest = 499

// AppError is the single error type crossing the service boundary. Status is the
// HTTP-style class the exposing layer should answer with.
type AppError struct {
	Status  int
	Code    ErrorCode
	Message string
	// Field names the offending input or payload field, when there is one.
	Field string
	// UpstreamStatus is the upstream HTTP status, when the failure came from upstream.
	UpstreamStatus int
	Err            error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(field, message string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    ErrorCodeValidation,
		Message: message,
		Field:   field,
	}
}

func NewPassengerCountMismatchError(expected, got int) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    ErrorCodePassengerMismatch,
		Message: fmt.Sprintf("Passenger count mismatch: offer expects %d, got %d", expected, got),
		Field:   "passengers",
	}
}

func NewOfferNotFoundError(upstreamStatus int) *AppError {
	return &AppError{
		Status:         http.StatusNotFound,
		Code:           ErrorCodeOfferNotFound,
		Message:        "Offer not found or expired",
		UpstreamStatus: upstreamStatus,
	}
}

// NewSearchFailedError reports a non-2xx answer to an offer search.
func NewSearchFailedError(upstreamStatus int) *AppError {
	return &AppError{
		Status:         http.StatusBadGateway,
		Code:           ErrorCodeUpstream,
		Message:        fmt.Sprintf("Flight search failed: %d", upstreamStatus),
		UpstreamStatus: upstreamStatus,
	}
}

func NewUpstreamError(upstreamStatus int, message string) *AppError {
	return &AppError{
		Status:         http.StatusBadGateway,
		Code:           ErrorCodeUpstream,
		Message:        message,
		UpstreamStatus: upstreamStatus,
	}
}

func NewNormalizationError(field string, cause error) *AppError {
	return &AppError{
		Status:  http.StatusBadGateway,
		Code:    ErrorCodeNormalization,
		Message: "invalid offer field " + field,
		Field:   field,
		Err:     cause,
	}
}

func NewConfigurationError(message string) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    ErrorCodeConfiguration,
		Message: message,
	}
}

func NewTimeoutError(op string, err error) *AppError {
	return &AppError{
		Status:  http.StatusGatewayTimeout,
		Code:    ErrorCodeTimeout,
		Message: op + " timed out",
		Err:     err,
	}
}

func NewCancelledError(op string, err error) *AppError {
	return &AppError{
		Status:  StatusClientClosedRequest,
		Code:    ErrorCodeCancelled,
		Message: op + " cancelled",
		Err:     err,
	}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    ErrorCodeInternalFailure,
		Message: message,
		Err:     err,
	}
}

// classifyError passes AppErrors through and turns context and transport
// failures into their taxonomy kind.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var netErr interface{ Timeout() bool }
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return NewTimeoutError(op, err)
	case errors.Is(err, context.Canceled):
		return NewCancelledError(op, err)
	default:
		return NewInternalError(op+" failed", err)
	}
}
