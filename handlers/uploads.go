package handlers

import (
	"net/http"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/storage"
	"github.com/gin-gonic/gin"
)

// UploadHandler accepts image and PDF uploads and resolves stored names to URLs.
type UploadHandler struct {
	uploader *storage.Uploader
}

func NewUploadHandler(u *storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

// Register mounts /upload routes on an authenticated group.
func (h *UploadHandler) Register(rg gin.IRouter) {
	u := rg.Group("/upload")
	u.POST("/image", h.save(storage.Image))
	u.POST("/pdf", h.save(storage.PDF))
	u.GET("/url", h.URL)
}

func (h *UploadHandler) save(kind storage.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		// multipart overhead is small; the Uploader enforces the exact cap
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploader.MaxBytes()+1<<20)
		fh, err := c.FormFile(kind.Field)
		if err != nil {
			apperr.Respond(c, apperr.Validation("multipart field %q is required", kind.Field))
			return
		}
		f, err := fh.Open()
		if err != nil {
			apperr.Respond(c, apperr.Internal(err))
			return
		}
		defer f.Close()

		up, err := h.uploader.Save(c.Request.Context(), kind, f)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": kind.Name + " uploaded", "filename": up.Filename, "data": up})
	}
}

// URL handles GET /upload/url?filename=.
func (h *UploadHandler) URL(c *gin.Context) {
	link, err := h.uploader.URL(c.Request.Context(), c.Query("filename"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}
