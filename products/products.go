package products

import (
	"encoding/json"
	"net/http"
	"time"

	"souq/errs"
	"souq/models"
	"souq/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	items, err := All(r.Context())
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// GetProductResource handles GET /api/products/:id. The "featured" segment
// doubles as the featured listing because the router cannot register a
// static sibling next to :id.
func GetProductResource(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") == "featured" {
		items, err := Featured(r.Context())
		if err != nil {
			errs.Write(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, items)
		return
	}

	p, err := ByID(r.Context(), ps.ByName("id"))
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// GetProductListing handles GET /api/products/category/:category and
// GET /api/products/subcategory/:subcategory.
func GetProductListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var (
		items []models.Product
		err   error
	)
	switch ps.ByName("id") {
	case "category":
		items, err = ByCategory(r.Context(), ps.ByName("value"))
	case "subcategory":
		items, err = BySubcategory(r.Context(), ps.ByName("value"))
	default:
		errs.Write(w, errs.NotFound("Not found"))
		return
	}
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

type productInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Stock       int    `json:"stock"`
	Featured    bool   `json:"featured"`
	Discount    int    `json:"discount"`
}

func (in *productInput) validate() error {
	switch {
	case in.Name == "", in.Description == "", in.ImageURL == "",
		in.Category == "", in.Subcategory == "":
		return errs.Validation("Missing required product fields")
	case in.Price <= 0:
		return errs.Validation("Price must be positive")
	case in.Stock < 0:
		return errs.Validation("Stock cannot be negative")
	case in.Discount < 0 || in.Discount > 100:
		return errs.Validation("Discount must be between 0 and 100")
	}
	return nil
}

// CreateProduct handles POST /api/products (admin only).
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errs.Write(w, errs.Validation("Invalid JSON payload"))
		return
	}
	if err := in.validate(); err != nil {
		errs.Write(w, err)
		return
	}

	p := models.Product{
		ProductID:   "p" + utils.GenerateID(12),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Subcategory: in.Subcategory,
		Stock:       in.Stock,
		Featured:    in.Featured,
		Discount:    in.Discount,
		CreatedAt:   time.Now(),
	}

	if err := Insert(r.Context(), &p); err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

type productPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int    `json:"price"`
	ImageURL    *string `json:"imageUrl"`
	Category    *string `json:"category"`
	Subcategory *string `json:"subcategory"`
	Stock       *int    `json:"stock"`
	Featured    *bool   `json:"featured"`
	Discount    *int    `json:"discount"`
}

// UpdateProduct handles PATCH /api/products/:id (admin only). Only the
// fields present in the body are touched.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var patch productPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		errs.Write(w, errs.Validation("Invalid JSON payload"))
		return
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			errs.Write(w, errs.Validation("Price must be positive"))
			return
		}
		set["price"] = *patch.Price
	}
	if patch.ImageURL != nil {
		set["imageUrl"] = *patch.ImageURL
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Subcategory != nil {
		set["subcategory"] = *patch.Subcategory
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			errs.Write(w, errs.Validation("Stock cannot be negative"))
			return
		}
		set["stock"] = *patch.Stock
	}
	if patch.Featured != nil {
		set["featured"] = *patch.Featured
	}
	if patch.Discount != nil {
		if *patch.Discount < 0 || *patch.Discount > 100 {
			errs.Write(w, errs.Validation("Discount must be between 0 and 100"))
			return
		}
		set["discount"] = *patch.Discount
	}
	if len(set) == 0 {
		errs.Write(w, errs.Validation("No fields to update"))
		return
	}

	p, err := Update(r.Context(), ps.ByName("id"), set)
	if err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/products/:id (admin only).
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := Delete(r.Context(), ps.ByName("id")); err != nil {
		errs.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
