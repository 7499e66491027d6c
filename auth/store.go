package auth

import (
	"context"

	"souq/db"
	"souq/errs"
	"souq/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := db.UserCollection.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &u, nil
}

// lookupUser is indirect so the uniqueness checks can run without a live mongo.
var lookupUser = findUser

func UserByID(ctx context.Context, id string) (*models.User, error) {
	return findUser(ctx, bson.M{"userid": id})
}

func UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return findUser(ctx, bson.M{"username": username})
}

func UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findUser(ctx, bson.M{"email": email})
}

// CreateUser inserts a new account after checking username and email
// uniqueness. The unique indexes back this up against races; a duplicate-key
// insert maps to the same conflict errors.
func CreateUser(ctx context.Context, u *models.User) error {
	if existing, err := lookupUser(ctx, bson.M{"username": u.Username}); err != nil {
		return err
	} else if existing != nil {
		return errs.Conflict("Username already taken")
	}

	if existing, err := lookupUser(ctx, bson.M{"email": u.Email}); err != nil {
		return err
	} else if existing != nil {
		return errs.Conflict("Email already in use")
	}

	if _, err := db.UserCollection.InsertOne(ctx, u); err != nil {
		return insertErr(err)
	}
	return nil
}

// insertErr maps a racing duplicate-key insert to the same conflict the
// pre-insert checks produce.
func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return errs.Conflict("Username or email already in use")
	}
	return errors.Wrap(err, "insert user")
}
