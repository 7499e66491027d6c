// Package errs defines the domain error taxonomy and its HTTP mapping.
// Handlers funnel every failure through Write so wire responses stay
// uniform: {"message": "..."} with the matching status code.
package errs

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"souq/utils"
)

var (
	ErrEmptyCart       = New(http.StatusBadRequest, "Cart is empty")
	ErrNotFound        = New(http.StatusNotFound, "Not found")
	ErrUnauthenticated = New(http.StatusUnauthorized, "Not authenticated")
	ErrForbidden       = New(http.StatusForbidden, "Access denied")
	ErrInvalidStatus   = New(http.StatusBadRequest, "Invalid order status")
)

// Error is a user-facing failure with a fixed HTTP status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Conflict(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// ProductNotFound reports an unknown product id during cart or checkout flows.
func ProductNotFound(productID string) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf("Product %s not found", productID))
}

// InsufficientStock names the product so the caller knows which line failed.
func InsufficientStock(name string) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", name))
}

// Write sends err as a JSON error body. Unexpected errors are logged and
// surface as a generic 500 so internal detail never reaches the caller.
func Write(w http.ResponseWriter, err error) {
	var e *Error
	if errors.As(err, &e) {
		utils.RespondWithError(w, e.Status, e.Message)
		return
	}
	log.Printf("internal error: %v", err)
	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}
