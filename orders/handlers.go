package orders

import (
	"encoding/json"
	"net/http"

	"souq/cart"
	"souq/errs"
	"souq/middleware"
	"souq/utils"

	"github.com/julienschmidt/httprouter"
)

// CreateOrder handles POST /api/orders for both guests and logged-in users.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var customer CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		errs.Write(w, errs.Validation("Invalid JSON payload"))
		return
	}

	userID := ""
	if s := middleware.SessionFromContext(r.Context()); s != nil {
		userID = s.UserID
	}

	c, err := cart.For(w, r)
	if err != nil {
		errs.Write(w, err)
		return
	}

	order, err := PlaceOrder(r.Context(), customer, userID, c)
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetMyOrders handles GET /api/orders.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s := middleware.SessionFromContext(r.Context())
	out, err := ByUser(r.Context(), s.UserID)
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GetOrder handles GET /api/orders/:id. Callers see their own orders;
// admins see any.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s := middleware.SessionFromContext(r.Context())

	order, err := ByID(r.Context(), ps.ByName("id"))
	if err != nil {
		errs.Write(w, err)
		return
	}
	if order.UserID != s.UserID && !s.IsAdmin {
		errs.Write(w, errs.ErrForbidden)
		return
	}

	items, err := ItemsByOrder(r.Context(), order.OrderID)
	if err != nil {
		errs.Write(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"order": order,
		"items": items,
	})
}
