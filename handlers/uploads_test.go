package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizlink/bizlink-admin/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"

func newUploadRouter(t *testing.T, maxBytes int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	g := gin.New()
	NewUploadHandler(storage.NewUploader(store, maxBytes)).Register(g.Group("/api"))
	return g
}

func multipartRequest(t *testing.T, target, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImageAndResolve(t *testing.T) {
	g := newUploadRouter(t, 1<<20)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, multipartRequest(t, "/api/upload/image", "image", "logo.png", []byte(pngHeader)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Filename)
	require.NotEqual(t, "logo.png", res.Filename)

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/upload/url?filename="+res.Filename, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"/uploads/`+res.Filename+`"`)
}

func TestUploadRejections(t *testing.T) {
	g := newUploadRouter(t, 1<<20)

	// a PNG disguised as a PDF
	w := httptest.NewRecorder()
	g.ServeHTTP(w, multipartRequest(t, "/api/upload/pdf", "pdf", "brochure.pdf", []byte(pngHeader)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "unsupported type")

	// wrong field name
	w = httptest.NewRecorder()
	g.ServeHTTP(w, multipartRequest(t, "/api/upload/image", "file", "logo.png", []byte(pngHeader)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "image")
	require.Contains(t, w.Body.String(), "is required")

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/upload/url?filename=nope.png", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	g := newUploadRouter(t, 16)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, multipartRequest(t, "/api/upload/image", "image", "big.png", []byte(pngHeader)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "exceeds 16 bytes")
}
