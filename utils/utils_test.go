package utils

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID(12)
	b := GenerateID(12)

	assert.Len(t, a, 12)
	assert.Len(t, b, 12)
	assert.NotEqual(t, a, b)
}

func TestValidateImageFileType(t *testing.T) {
	header := func(ct string) *multipart.FileHeader {
		return &multipart.FileHeader{Header: textproto.MIMEHeader{"Content-Type": {ct}}}
	}

	assert.True(t, ValidateImageFileType(header("image/jpeg")))
	assert.True(t, ValidateImageFileType(header("image/png")))
	assert.True(t, ValidateImageFileType(header("image/webp")))
	assert.False(t, ValidateImageFileType(header("image/gif")))
	assert.False(t, ValidateImageFileType(header("application/pdf")))
	assert.False(t, ValidateImageFileType(header("")))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "photo.jpg", SanitizeFilename("photo.jpg"))
	assert.Equal(t, "my_photo.jpg", SanitizeFilename("my photo.jpg"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "weird.png", SanitizeFilename("we$ird!.png"))
}
