package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := signToken("sid-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sid, err := parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-123", sid)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	token, err := signToken("sid-123")
	require.NoError(t, err)

	// corrupt the signature segment
	tampered := token + "x"
	_, err = parseToken(tampered)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := parseToken(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestMaxAgeDefault(t *testing.T) {
	t.Setenv("SESSION_MAX_AGE_HOURS", "")
	assert.Equal(t, 7*24*time.Hour, MaxAge())

	t.Setenv("SESSION_MAX_AGE_HOURS", "48")
	assert.Equal(t, 48*time.Hour, MaxAge())

	t.Setenv("SESSION_MAX_AGE_HOURS", "-3")
	assert.Equal(t, 7*24*time.Hour, MaxAge())
}
