package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"souq/cart"
	"souq/errs"
	"souq/middleware"
	"souq/models"
	"souq/session"
	"souq/utils"

	"github.com/julienschmidt/httprouter"
)

// establishSession logs a user into the caller's session. A guest session is
// upgraded in place and anything in its cart moves into the user's persisted
// cart, merging by summation, so nothing picked before login is lost.
func establishSession(w http.ResponseWriter, r *http.Request, u *models.User) error {
	s, _ := session.FromRequest(r)
	if s == nil {
		var err error
		s, err = session.New(w)
		if err != nil {
			return err
		}
	}

	if len(s.Cart) > 0 {
		if err := mergeGuestCart(r.Context(), s, cart.ForUser(u.UserID)); err != nil {
			return err
		}
	}

	s.UserID = u.UserID
	s.IsAdmin = u.IsAdmin
	return s.Save()
}

// mergeGuestCart drains the session map into the persisted cart.
func mergeGuestCart(ctx context.Context, s *session.Session, into cart.Cart) error {
	for productID, quantity := range s.Cart {
		if err := into.Add(ctx, productID, quantity); err != nil {
			return err
		}
	}
	s.Cart = map[string]int{}
	return nil
}

// Register handles POST /api/auth/register. The new user is logged in
// immediately, matching the storefront flow.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		Email       string `json:"email"`
		FullName    string `json:"fullName"`
		PhoneNumber string `json:"phoneNumber"`
		Address     string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errs.Write(w, errs.Validation("Invalid JSON payload"))
		return
	}
	if input.Username == "" || input.Password == "" || input.Email == "" || input.FullName == "" {
		errs.Write(w, errs.Validation("All required fields must be filled"))
		return
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		errs.Write(w, err)
		return
	}

	user := models.User{
		UserID:      "u" + utils.GenerateID(10),
		Username:    input.Username,
		Password:    hashed,
		Email:       input.Email,
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		IsAdmin:     false,
		CreatedAt:   time.Now(),
	}

	if err := CreateUser(r.Context(), &user); err != nil {
		errs.Write(w, err)
		return
	}

	if err := establishSession(w, r, &user); err != nil {
		log.Printf("register: session setup failed for %s: %v", user.UserID, err)
		errs.Write(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login. The identifier may be a username or
// an email address.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errs.Write(w, errs.Validation("Invalid JSON payload"))
		return
	}
	if input.Username == "" || input.Password == "" {
		errs.Write(w, errs.Validation("Username and password are required"))
		return
	}

	user, err := UserByUsername(r.Context(), input.Username)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if user == nil {
		user, err = UserByEmail(r.Context(), input.Username)
		if err != nil {
			errs.Write(w, err)
			return
		}
	}

	if user == nil || !ComparePasswords(input.Password, user.Password) {
		errs.Write(w, errs.New(http.StatusUnauthorized, "Invalid username or password"))
		return
	}

	if err := establishSession(w, r, user); err != nil {
		errs.Write(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout. The redis record dies with the
// cookie, so the session cannot be replayed.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s := middleware.SessionFromContext(r.Context())
	if err := session.Destroy(w, s); err != nil {
		errs.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/auth/me.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s := middleware.SessionFromContext(r.Context())
	user, err := UserByID(r.Context(), s.UserID)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if user == nil {
		errs.Write(w, errs.ErrUnauthenticated)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
