package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jhs/backend/internal/service"
	"jhs/backend/internal/storage"
)

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 64 << 10

func (h HandlerSet) UploadImage(c *gin.Context) {
	maxBytes := h.cfg.Uploads.MaxBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	image, err := h.deps.Uploads.Upload(c.Request.Context(), service.UploadInput{File: file, Header: header})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"filename": image.Filename})
	case errors.Is(err, service.ErrNoFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
	case errors.Is(err, service.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
	case errors.Is(err, service.ErrUnsupportedImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
	default:
		h.serverError(c, err, "Upload failed")
	}
}

// ServeUpload streams a stored image from whichever backend holds it.
func (h HandlerSet) ServeUpload(c *gin.Context) {
	rc, info, err := h.deps.Uploads.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidName) {
			c.Status(http.StatusNotFound)
			return
		}
		h.serverError(c, err, "Failed to read file")
		return
	}
	defer rc.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := c.Writer.Header()
	header.Set("Content-Type", contentType)
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("Cache-Control", "public, max-age=86400")
	if info.Size > 0 {
		header.Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if info.ContentType == "image/svg+xml" {
		header.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn().Err(err).Str("filename", c.Param("filename")).Msg("stream upload interrupted")
	}
}
