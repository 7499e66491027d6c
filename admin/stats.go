package admin

import (
	"context"
	"net/http"

	"souq/db"
	"souq/errs"
	"souq/models"
	"souq/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetStats handles GET /api/admin/stats.
func GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := collectStats(r.Context())
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func collectStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{
		SalesByMonth:    map[string]int{},
		PopularProducts: []models.PopularProduct{},
	}

	// Total sales and order count in one pass.
	cursor, err := db.OrdersCollection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"totalSales":  bson.M{"$sum": "$totalAmount"},
			"totalOrders": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "aggregate sales totals")
	}
	var totals []struct {
		TotalSales  int `bson:"totalSales"`
		TotalOrders int `bson:"totalOrders"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, errors.Wrap(err, "decode sales totals")
	}
	if len(totals) > 0 {
		stats.TotalSales = totals[0].TotalSales
		stats.TotalOrders = totals[0].TotalOrders
	}

	customers, err := db.UserCollection.CountDocuments(ctx, bson.M{"isAdmin": false})
	if err != nil {
		return nil, errors.Wrap(err, "count customers")
	}
	stats.TotalCustomers = int(customers)

	// Sales grouped by calendar month, most recent 12.
	cursor, err = db.OrdersCollection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$createdAt"}},
			"amount": bson.M{"$sum": "$totalAmount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": -1}}},
		bson.D{{Key: "$limit", Value: 12}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "aggregate monthly sales")
	}
	var months []struct {
		Month  string `bson:"_id"`
		Amount int    `bson:"amount"`
	}
	if err := cursor.All(ctx, &months); err != nil {
		return nil, errors.Wrap(err, "decode monthly sales")
	}
	for _, m := range months {
		stats.SalesByMonth[m.Month] = m.Amount
	}

	// Top 5 products by cumulative ordered quantity, joined for the name.
	cursor, err = db.OrderItemsCollection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$productid",
			"sales": bson.M{"$sum": "$quantity"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"sales": -1}}},
		bson.D{{Key: "$limit", Value: 5}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "_id",
			"foreignField": "productid",
			"as":           "product",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$product",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"sales": 1,
			"name":  "$product.name",
		}}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "aggregate popular products")
	}
	if err := cursor.All(ctx, &stats.PopularProducts); err != nil {
		return nil, errors.Wrap(err, "decode popular products")
	}

	return stats, nil
}
