package middleware

import (
	"context"
	"net/http"

	"souq/db"
	"souq/errs"
	"souq/globals"
	"souq/models"
	"souq/session"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// resolveAccount loads the account backing a session; indirect for tests.
var resolveAccount = func(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "resolve account")
	}
	return &u, nil
}

// sessionUser resolves the caller's session and, for logged-in sessions, the
// backing account. A session whose account no longer exists counts as
// anonymous: deleting a customer logs them out on their next request. The
// admin flag is refreshed from the account record, not trusted from the
// session.
func sessionUser(r *http.Request) (*session.Session, *models.User) {
	s, _ := session.FromRequest(r)
	if s == nil || !s.Authenticated() {
		return s, nil
	}
	u, err := resolveAccount(r.Context(), s.UserID)
	if err != nil || u == nil {
		return nil, nil
	}
	s.IsAdmin = u.IsAdmin
	return s, u
}

// authorize is the access decision shared by Authenticate and AdminOnly.
func authorize(s *session.Session, u *models.User, admin bool) error {
	if s == nil || u == nil {
		return errs.ErrUnauthenticated
	}
	if admin && !u.IsAdmin {
		return errs.ErrForbidden
	}
	return nil
}

// LoadSession resolves the caller's session, if any, and stores it in the
// request context. Handlers that serve both guests and logged-in users wrap
// with this and create a session lazily when they need one.
func LoadSession(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if s, _ := sessionUser(r); s != nil {
			ctx := context.WithValue(r.Context(), globals.SessionKey, s)
			r = r.WithContext(ctx)
		}
		next(w, r, ps)
	}
}

// Authenticate rejects callers without a logged-in session backed by a live
// account.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, u := sessionUser(r)
		if err := authorize(s, u, false); err != nil {
			errs.Write(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), globals.SessionKey, s)
		next(w, r.WithContext(ctx), ps)
	}
}

// AdminOnly rejects non-admin callers. 401 without a live account, 403
// without the admin flag.
func AdminOnly(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, u := sessionUser(r)
		if err := authorize(s, u, true); err != nil {
			errs.Write(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), globals.SessionKey, s)
		next(w, r.WithContext(ctx), ps)
	}
}

// SessionFromContext returns the session attached by the middleware, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(globals.SessionKey).(*session.Session)
	return s
}
