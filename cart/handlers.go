package cart

import (
	"context"
	"encoding/json"
	"net/http"

	"souq/errs"
	"souq/models"
	"souq/products"
	"souq/utils"

	"github.com/julienschmidt/httprouter"
)

// entries joins cart lines with product details for the response body.
// Lines whose product has since been deleted are silently skipped.
func entries(ctx context.Context, c Cart) ([]models.CartEntry, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.CartEntry, 0, len(items))
	for productID, quantity := range items {
		p, err := products.ByID(ctx, productID)
		if err != nil {
			continue
		}
		out = append(out, models.CartEntry{Product: *p, Quantity: quantity})
	}
	return out, nil
}

// GetCart handles GET /api/cart for both guests and logged-in users.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c, err := For(w, r)
	if err != nil {
		errs.Write(w, err)
		return
	}

	out, err := entries(r.Context(), c)
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// AddToCart handles POST /api/cart. Quantities merge by summation: adding
// 2 then 3 of the same product leaves a single line of 5.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errs.Write(w, errs.Validation("Invalid JSON payload"))
		return
	}
	if input.ProductID == "" || input.Quantity < 1 {
		errs.Write(w, errs.Validation("productId and a quantity of at least 1 are required"))
		return
	}

	p, err := products.ByID(r.Context(), input.ProductID)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if p.Stock < input.Quantity {
		errs.Write(w, errs.InsufficientStock(p.Name))
		return
	}

	c, err := For(w, r)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if err := c.Add(r.Context(), input.ProductID, input.Quantity); err != nil {
		errs.Write(w, err)
		return
	}

	out, err := entries(r.Context(), c)
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// RemoveFromCart handles DELETE /api/cart/:productId. Removing an absent
// line succeeds.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, err := For(w, r)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if err := c.Remove(r.Context(), ps.ByName("productId")); err != nil {
		errs.Write(w, err)
		return
	}

	out, err := entries(r.Context(), c)
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ClearCart handles DELETE /api/cart.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c, err := For(w, r)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if err := c.Clear(r.Context()); err != nil {
		errs.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
