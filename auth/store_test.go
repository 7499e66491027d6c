package auth

import (
	"context"
	"testing"

	"souq/errs"
	"souq/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func stubLookup(t *testing.T, fn func(bson.M) *models.User) {
	t.Helper()
	orig := lookupUser
	lookupUser = func(_ context.Context, filter bson.M) (*models.User, error) {
		return fn(filter), nil
	}
	t.Cleanup(func() { lookupUser = orig })
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	stubLookup(t, func(filter bson.M) *models.User {
		if _, ok := filter["email"]; ok {
			return &models.User{UserID: "u1", Email: "taken@souq.local"}
		}
		return nil
	})

	err := CreateUser(context.Background(), &models.User{Username: "fresh", Email: "taken@souq.local"})
	var domainErr *errs.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.Status)
	assert.Equal(t, "Email already in use", domainErr.Message)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	stubLookup(t, func(filter bson.M) *models.User {
		if _, ok := filter["username"]; ok {
			return &models.User{UserID: "u1", Username: "taken"}
		}
		return nil
	})

	err := CreateUser(context.Background(), &models.User{Username: "taken", Email: "fresh@souq.local"})
	var domainErr *errs.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.Status)
	assert.Equal(t, "Username already taken", domainErr.Message)
}

func TestInsertErrMapsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}

	var domainErr *errs.Error
	require.ErrorAs(t, insertErr(dup), &domainErr)
	assert.Equal(t, 400, domainErr.Status)
	assert.Equal(t, "Username or email already in use", domainErr.Message)
}

func TestInsertErrPassesThroughOtherErrors(t *testing.T) {
	err := insertErr(errors.New("connection reset"))
	var domainErr *errs.Error
	assert.False(t, errors.As(err, &domainErr))
	assert.Contains(t, err.Error(), "insert user")
}
