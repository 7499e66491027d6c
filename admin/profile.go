package admin

import (
	"encoding/json"
	"net/http"

	"souq/auth"
	"souq/db"
	"souq/errs"
	"souq/middleware"
	"souq/models"
	"souq/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateProfile handles PUT /api/admin/profile. Only the logged-in admin's
// own account is touched; a password change requires the current password.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email           string `json:"email"`
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		CurrentPassword string `json:"currentPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errs.Write(w, errs.Validation("Invalid JSON payload"))
		return
	}

	if input.Password != "" && input.Password != input.ConfirmPassword {
		errs.Write(w, errs.Validation("Passwords do not match"))
		return
	}

	s := middleware.SessionFromContext(r.Context())
	account, err := auth.UserByID(r.Context(), s.UserID)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if account == nil || !account.IsAdmin {
		errs.Write(w, errs.ErrForbidden)
		return
	}

	set := bson.M{}

	if input.Email != "" && input.Email != account.Email {
		existing, err := auth.UserByEmail(r.Context(), input.Email)
		if err != nil {
			errs.Write(w, err)
			return
		}
		if existing != nil && existing.UserID != account.UserID {
			errs.Write(w, errs.Conflict("Email already in use"))
			return
		}
		set["email"] = input.Email
	}

	if input.Username != "" && input.Username != account.Username {
		existing, err := auth.UserByUsername(r.Context(), input.Username)
		if err != nil {
			errs.Write(w, err)
			return
		}
		if existing != nil && existing.UserID != account.UserID {
			errs.Write(w, errs.Conflict("Username already taken"))
			return
		}
		set["username"] = input.Username
	}

	if input.Password != "" {
		if input.CurrentPassword == "" {
			errs.Write(w, errs.Validation("Current password is required"))
			return
		}
		if !auth.ComparePasswords(input.CurrentPassword, account.Password) {
			errs.Write(w, errs.Validation("Current password is incorrect"))
			return
		}
		hashed, err := auth.HashPassword(input.Password)
		if err != nil {
			errs.Write(w, err)
			return
		}
		set["password"] = hashed
	}

	if len(set) == 0 {
		errs.Write(w, errs.Validation("No changes to save"))
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err = db.UserCollection.FindOneAndUpdate(r.Context(),
		bson.M{"userid": account.UserID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		errs.Write(w, errors.Wrap(err, "update admin profile"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}
