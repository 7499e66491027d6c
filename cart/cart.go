// Package cart resolves the caller's pending cart lines. Authenticated carts
// are mongo rows, one per (user, product); guest carts live inside the redis
// session. Both sit behind the same interface so checkout never cares which
// kind it is draining.
package cart

import (
	"context"
	"net/http"
	"time"

	"souq/db"
	"souq/middleware"
	"souq/models"
	"souq/session"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Cart is the unified view over persisted and session carts.
type Cart interface {
	// Items returns productID -> quantity for the caller.
	Items(ctx context.Context) (map[string]int, error)
	// Add merges quantity into the existing line by summation.
	Add(ctx context.Context, productID string, quantity int) error
	// Remove deletes the line; absent lines are not an error.
	Remove(ctx context.Context, productID string) error
	// Clear drops every line.
	Clear(ctx context.Context) error
}

// For resolves the cart for the current request. Guests without a session
// get one created on the spot so the cookie rides back on this response.
func For(w http.ResponseWriter, r *http.Request) (Cart, error) {
	s := middleware.SessionFromContext(r.Context())
	if s == nil {
		var err error
		s, err = session.New(w)
		if err != nil {
			return nil, errors.Wrap(err, "create guest session")
		}
	}
	if s.Authenticated() {
		return &userCart{userID: s.UserID}, nil
	}
	return &guestCart{s: s, save: s.Save}, nil
}

// ForUser returns the persisted cart of an authenticated user.
func ForUser(userID string) Cart {
	return &userCart{userID: userID}
}

type userCart struct {
	userID string
}

func (c *userCart) Items(ctx context.Context) (map[string]int, error) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userid": c.userID})
	if err != nil {
		return nil, errors.Wrap(err, "find cart lines")
	}
	defer cursor.Close(ctx)

	var lines []models.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, errors.Wrap(err, "decode cart lines")
	}

	items := make(map[string]int, len(lines))
	for _, line := range lines {
		items[line.ProductID] = line.Quantity
	}
	return items, nil
}

func (c *userCart) Add(ctx context.Context, productID string, quantity int) error {
	filter := bson.M{"userid": c.userID, "productid": productID}
	update := bson.M{
		"$inc":         bson.M{"quantity": quantity},
		"$setOnInsert": bson.M{"addedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := db.CartCollection.UpdateOne(ctx, filter, update, opts)
	return errors.Wrap(err, "upsert cart line")
}

func (c *userCart) Remove(ctx context.Context, productID string) error {
	_, err := db.CartCollection.DeleteOne(ctx, bson.M{"userid": c.userID, "productid": productID})
	return errors.Wrap(err, "delete cart line")
}

func (c *userCart) Clear(ctx context.Context) error {
	_, err := db.CartCollection.DeleteMany(ctx, bson.M{"userid": c.userID})
	return errors.Wrap(err, "clear cart")
}

type guestCart struct {
	s    *session.Session
	save func() error
}

func (c *guestCart) Items(context.Context) (map[string]int, error) {
	items := make(map[string]int, len(c.s.Cart))
	for id, qty := range c.s.Cart {
		items[id] = qty
	}
	return items, nil
}

func (c *guestCart) Add(_ context.Context, productID string, quantity int) error {
	c.s.Cart[productID] += quantity
	return c.save()
}

func (c *guestCart) Remove(_ context.Context, productID string) error {
	delete(c.s.Cart, productID)
	return c.save()
}

func (c *guestCart) Clear(context.Context) error {
	c.s.Cart = map[string]int{}
	return c.save()
}
