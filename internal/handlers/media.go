package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/infra/storage"
)

// receiveImage reads the multipart "image" field and stores it. It writes the
// error response itself and reports ok=false on failure.
func receiveImage(c *gin.Context, images *storage.Images, prefix, ownerID string) (string, bool) {
	if !images.Enabled() {
		httperr.Unavailable(c, "uploads_disabled", "Image uploads are not configured.")
		return "", false
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.Validation(c, httperr.ValidationError{Fields: []string{"image"}})
		return "", false
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Could not read the uploaded file.")
		return "", false
	}
	defer f.Close()

	url, err := images.Upload(c.Request.Context(), prefix, ownerID, f)
	switch {
	case err == nil:
		return url, true
	case errors.Is(err, storage.ErrTooLarge):
		httperr.Write(c, http.StatusRequestEntityTooLarge, "image_too_large", "Images must be 5 MB or smaller.")
	case errors.Is(err, storage.ErrUnsupported):
		httperr.BadRequest(c, "unsupported_image", "Upload a JPEG, PNG or WebP image.")
	default:
		_ = c.Error(err)
		httperr.Write(c, http.StatusBadGateway, "upload_failed", "The image could not be stored.")
	}
	return "", false
}
