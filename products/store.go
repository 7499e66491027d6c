package products

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

// ByID looks up a single product. Missing ids surface as a 404 domain error.
func ByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("Product not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "find product")
	}
	return &p, nil
}

func find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.ProductCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	if len(items) == 0 {
		items = []models.Product{}
	}
	return items, nil
}

func All(ctx context.Context) ([]models.Product, error) {
	return find(ctx, bson.M{})
}

func ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return find(ctx, bson.M{"category": category})
}

func BySubcategory(ctx context.Context, subcategory string) ([]models.Product, error) {
	return find(ctx, bson.M{"subcategory": subcategory})
}

func Featured(ctx context.Context) ([]models.Product, error) {
	return find(ctx, bson.M{"featured": true})
}

func Insert(ctx context.Context, p *models.Product) error {
	_, err := db.ProductCollection.InsertOne(ctx, p)
	return errors.Wrap(err, "insert product")
}

// Update applies a partial update and returns the new document.
func Update(ctx context.Context, id string, set bson.M) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Product
	err := db.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"productid": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("Product not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	return &p, nil
}

func Delete(ctx context.Context, id string) error {
	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{"productid": id})
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("Product not found")
	}
	return nil
}

// AdjustStock applies a stock delta as one conditional update. A negative
// delta only matches while the remaining stock covers it, so stock can never
// go below zero — concurrent decrements race on the guard, not on a read.
func AdjustStock(ctx context.Context, id string, delta int) error {
	filter := bson.M{"productid": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}

	res, err := db.ProductCollection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": delta}})
	if err != nil {
		return errors.Wrap(err, "adjust stock")
	}
	if res.MatchedCount == 0 {
		p, lookupErr := ByID(ctx, id)
		if lookupErr != nil {
			return lookupErr
		}
		return errs.InsufficientStock(p.Name)
	}
	return nil
}
