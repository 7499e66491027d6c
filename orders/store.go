package orders

import (
	"context"

	"souq/db"
	"souq/errs"
	"souq/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("Order not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}
	return &o, nil
}

func ItemsByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	cursor, err := db.OrderItemsCollection.Find(ctx, bson.M{"orderid": orderID})
	if err != nil {
		return nil, errors.Wrap(err, "find order items")
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode order items")
	}
	if len(items) == 0 {
		items = []models.OrderItem{}
	}
	return items, nil
}

func listOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	if len(out) == 0 {
		out = []models.Order{}
	}
	return out, nil
}

// ByUser lists a user's orders, newest first.
func ByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return listOrders(ctx, bson.M{"userid": userID})
}

// All lists every order, newest first (admin view).
func All(ctx context.Context) ([]models.Order, error) {
	return listOrders(ctx, bson.M{})
}
