package uploads

import (
	"crypto/sha1"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignParamsSortsKeys(t *testing.T) {
	params := map[string]string{
		"timestamp":     "1700000000",
		"folder":        "souq",
		"upload_preset": "souq_uploads",
	}

	want := fmt.Sprintf("%x", sha1.Sum([]byte("folder=souq&timestamp=1700000000&upload_preset=souq_uploads"+"secret")))
	assert.Equal(t, want, signParams(params, "secret"))
}

func TestSignParamsDiffersBySecret(t *testing.T) {
	params := map[string]string{"timestamp": "1700000000"}
	assert.NotEqual(t, signParams(params, "a"), signParams(params, "b"))
}
