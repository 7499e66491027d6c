package middleware

import (
	"testing"

	"souq/errs"
	"souq/models"
	"souq/session"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	s := &session.Session{SID: "s1", UserID: "u1"}
	customer := &models.User{UserID: "u1"}
	admin := &models.User{UserID: "u2", IsAdmin: true}

	assert.NoError(t, authorize(s, customer, false))
	assert.NoError(t, authorize(s, admin, true))

	// no session at all
	assert.ErrorIs(t, authorize(nil, nil, false), errs.ErrUnauthenticated)

	// session outlived its account (customer deleted by an admin)
	assert.ErrorIs(t, authorize(s, nil, false), errs.ErrUnauthenticated)
	assert.ErrorIs(t, authorize(s, nil, true), errs.ErrUnauthenticated)

	// live account without the admin flag
	assert.ErrorIs(t, authorize(s, customer, true), errs.ErrForbidden)
}
