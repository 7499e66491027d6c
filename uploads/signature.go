package uploads

import (
	"crypto/sha1"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"souq/utils"

	"github.com/julienschmidt/httprouter"
)

const (
	uploadFolder = "souq"
	uploadPreset = "souq_uploads"
)

// signParams builds the Cloudinary request signature: parameters sorted by
// key, serialized as key=value pairs joined with &, with the API secret
// appended, hashed with SHA-1.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	payload := strings.Join(pairs, "&") + secret
	return fmt.Sprintf("%x", sha1.Sum([]byte(payload)))
}

// GetSignature handles GET /api/uploads/signature. The signature lets the
// frontend upload directly to the image host; nothing here blocks or joins
// any order transaction.
func GetSignature(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	timestamp := time.Now().Unix()
	params := map[string]string{
		"timestamp":     fmt.Sprintf("%d", timestamp),
		"folder":        uploadFolder,
		"upload_preset": uploadPreset,
	}

	signature := signParams(params, os.Getenv("CLOUDINARY_API_SECRET"))

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"signature": signature,
		"timestamp": timestamp,
		"folder":    uploadFolder,
		"cloudName": os.Getenv("CLOUDINARY_CLOUD_NAME"),
		"apiKey":    os.Getenv("CLOUDINARY_API_KEY"),
	})
}
