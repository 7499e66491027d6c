package uploads

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"souq/errs"
	"souq/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

const thumbWidth = 200

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./static/uploads"
}

// UploadProductImage handles POST /api/uploads/products (admin only): saves
// the image locally and writes a thumbnail next to it.
func UploadProductImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		errs.Write(w, errs.Validation("Invalid multipart payload"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		errs.Write(w, errs.Validation("An image file is required"))
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(header) {
		errs.Write(w, errs.Validation("Unsupported image type"))
		return
	}

	dir := uploadDir()
	if err := utils.EnsureDir(dir); err != nil {
		errs.Write(w, err)
		return
	}

	name := utils.GenerateID(12) + filepath.Ext(utils.SanitizeFilename(header.Filename))
	dst := filepath.Join(dir, name)

	out, err := os.Create(dst)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		errs.Write(w, err)
		return
	}
	out.Close()

	// Thumbnail generation is best effort; the original is already saved.
	thumb := filepath.Join(dir, "thumb_"+name)
	if img, err := imaging.Open(dst); err == nil {
		resized := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
		if err := imaging.Save(resized, thumb); err != nil {
			log.Println("uploads: thumbnail save failed:", err)
		}
	} else {
		log.Println("uploads: thumbnail decode failed:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"imageUrl": "/uploads/" + name,
		"thumbUrl": "/uploads/thumb_" + name,
	})
}
