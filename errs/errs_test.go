package errs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestWriteDomainErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
		{ErrUnauthenticated, http.StatusUnauthorized, "Not authenticated"},
		{ErrForbidden, http.StatusForbidden, "Access denied"},
		{ErrInvalidStatus, http.StatusBadRequest, "Invalid order status"},
		{NotFound("Order not found"), http.StatusNotFound, "Order not found"},
		{ProductNotFound("p42"), http.StatusBadRequest, "Product p42 not found"},
		{InsufficientStock("Whey"), http.StatusBadRequest, "Insufficient stock for Whey"},
		{Validation("Quantity must be at least 1"), http.StatusBadRequest, "Quantity must be at least 1"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Write(rec, tc.err)

		assert.Equal(t, tc.status, rec.Code, tc.message)
		assert.Equal(t, tc.message, body(t, rec)["message"])
	}
}

func TestWriteWrappedDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.Wrap(ErrEmptyCart, "place order"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cart is empty", body(t, rec)["message"])
}

func TestWriteUnexpectedError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body(t, rec)["message"])
}
