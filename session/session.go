// Package session implements cookie sessions backed by redis. The cookie
// carries only a signed token with the session id; all state (logged-in user,
// guest cart) lives server-side under a TTL, so logout really kills the
// session even if the cookie is replayed.
package session

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"souq/globals"
	"souq/rdx"
	"souq/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type Session struct {
	SID     string         `json:"sid"`
	UserID  string         `json:"userId,omitempty"`
	IsAdmin bool           `json:"isAdmin,omitempty"`
	Cart    map[string]int `json:"cart"` // guest cart: product id -> quantity
}

func (s *Session) Authenticated() bool { return s.UserID != "" }

// MaxAge is the session lifetime, shared by the cookie and the redis TTL.
func MaxAge() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("SESSION_MAX_AGE_HOURS"))
	if err != nil || hours <= 0 {
		hours = 24 * 7
	}
	return time.Duration(hours) * time.Hour
}

func redisKey(sid string) string { return "session:" + sid }

// New creates a fresh anonymous session, persists it and sets the cookie.
func New(w http.ResponseWriter) (*Session, error) {
	s := &Session{
		SID:  utils.GetUUID(),
		Cart: map[string]int{},
	}
	if err := s.Save(); err != nil {
		return nil, err
	}
	if err := setCookie(w, s.SID); err != nil {
		return nil, err
	}
	return s, nil
}

// FromRequest resolves the caller's session from the request cookie.
// Returns nil without error when no (valid) session exists.
func FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(globals.SessionCookie)
	if err != nil {
		return nil, nil
	}

	sid, err := parseToken(cookie.Value)
	if err != nil {
		return nil, nil // tampered or expired cookie, treat as anonymous
	}

	raw, err := rdx.RdxGet(redisKey(sid))
	if err != nil {
		return nil, nil // expired or destroyed server-side
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	if s.Cart == nil {
		s.Cart = map[string]int{}
	}
	return &s, nil
}

// Save writes the session back to redis and refreshes its TTL.
func (s *Session) Save() error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return rdx.RdxSet(redisKey(s.SID), string(data), MaxAge())
}

// Destroy removes the server-side record and expires the cookie.
func Destroy(w http.ResponseWriter, s *Session) error {
	if err := rdx.RdxDel(redisKey(s.SID)); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     globals.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return nil
}

func setCookie(w http.ResponseWriter, sid string) error {
	token, err := signToken(sid)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     globals.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(MaxAge().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	})
	return nil
}

func signToken(sid string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sid,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(MaxAge())),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.SessionSecret)
}

func parseToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return globals.SessionSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}
