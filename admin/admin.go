package admin

import (
	"encoding/json"
	"net/http"

	"souq/cart"
	"souq/db"
	"souq/errs"
	"souq/models"
	"souq/orders"
	"souq/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAllOrders handles GET /api/admin/orders.
func GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	out, err := orders.All(r.Context())
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// UpdateOrderStatus handles PATCH /api/admin/orders/:id.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Status == "" {
		errs.Write(w, errs.Validation("A status value is required"))
		return
	}

	order, err := orders.UpdateStatus(r.Context(), ps.ByName("id"), input.Status)
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GetCustomers handles GET /api/admin/customers. Admin accounts are not
// customers and are excluded; password hashes never serialize.
func GetCustomers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.UserCollection.Find(r.Context(), bson.M{"isAdmin": false}, opts)
	if err != nil {
		errs.Write(w, errors.Wrap(err, "find customers"))
		return
	}
	defer cursor.Close(r.Context())

	var customers []models.User
	if err := cursor.All(r.Context(), &customers); err != nil {
		errs.Write(w, errors.Wrap(err, "decode customers"))
		return
	}
	if len(customers) == 0 {
		customers = []models.User{}
	}
	utils.RespondWithJSON(w, http.StatusOK, customers)
}

// DeleteCustomer handles DELETE /api/admin/customers/:id. The customer's
// persisted cart rows go with the account.
func DeleteCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	res, err := db.UserCollection.DeleteOne(r.Context(), bson.M{"userid": id, "isAdmin": false})
	if err != nil {
		errs.Write(w, errors.Wrap(err, "delete customer"))
		return
	}
	if res.DeletedCount == 0 {
		errs.Write(w, errs.NotFound("Customer not found"))
		return
	}

	if err := cart.ForUser(id).Clear(r.Context()); err != nil {
		errs.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
