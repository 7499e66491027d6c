package globals

import (
	"context"
	"os"
)

var (
	// SessionSecret signs the session cookie tokens. Override via env in production.
	SessionSecret = []byte(Getenv("SESSION_SECRET", "souq-dev-secret"))
)

// Context keys
type ContextKey string

const SessionKey ContextKey = "session"

// Name of the cookie carrying the signed session token.
const SessionCookie = "souq_session"

var Ctx = context.Background()

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
