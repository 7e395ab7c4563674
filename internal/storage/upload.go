package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/pkg/metrics"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Kind describes one upload endpoint: the multipart field it reads and the
// content types it accepts.
type Kind struct {
	Name    string
	Field   string
	Allowed []string
}

var (
	Image = Kind{Name: "image", Field: "image", Allowed: []string{"image/jpeg", "image/png", "image/gif", "image/webp"}}
	PDF   = Kind{Name: "pdf", Field: "pdf", Allowed: []string{"application/pdf"}}
)

// Upload is the stored result.
type Upload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Uploader validates files by their bytes and stores them under random names.
type Uploader struct {
	store    Store
	maxBytes int64
}

func NewUploader(store Store, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Uploader{store: store, maxBytes: maxBytes}
}

func (u *Uploader) Store() Store { return u.store }

func (u *Uploader) MaxBytes() int64 { return u.maxBytes }

// Save reads at most maxBytes from r, sniffs the content type and stores the
// file. The client-supplied name and type are ignored.
func (u *Uploader) Save(ctx context.Context, kind Kind, r io.Reader) (Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		metrics.Uploads.WithLabelValues(kind.Name, "error").Inc()
		return Upload{}, apperr.Wrap(apperr.KindValidation, err, "could not read upload")
	}
	if len(data) == 0 {
		metrics.Uploads.WithLabelValues(kind.Name, "rejected").Inc()
		return Upload{}, apperr.Validation("%s is empty", kind.Field)
	}
	if int64(len(data)) > u.maxBytes {
		metrics.Uploads.WithLabelValues(kind.Name, "rejected").Inc()
		return Upload{}, apperr.Validation("%s exceeds %d bytes", kind.Field, u.maxBytes)
	}

	mt := mimetype.Detect(data)
	if !accepts(kind, mt) {
		metrics.Uploads.WithLabelValues(kind.Name, "rejected").Inc()
		return Upload{}, apperr.Validation("%s has unsupported type %s", kind.Field, mt.String())
	}

	name := uuid.NewString() + mt.Extension()
	if err := u.store.Put(ctx, name, bytes.NewReader(data), int64(len(data)), mt.String()); err != nil {
		metrics.Uploads.WithLabelValues(kind.Name, "error").Inc()
		return Upload{}, apperr.Internal(err)
	}
	metrics.Uploads.WithLabelValues(kind.Name, "stored").Inc()
	return Upload{Filename: name, ContentType: mt.String(), Size: int64(len(data))}, nil
}

// URL resolves a stored filename to something a browser can fetch.
func (u *Uploader) URL(ctx context.Context, name string) (string, error) {
	if !ValidName(name) {
		return "", apperr.Validation("filename is invalid")
	}
	link, err := u.store.URL(ctx, name)
	if err == ErrNotFound {
		return "", apperr.NotFound("file not found")
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	return link, nil
}

func accepts(kind Kind, mt *mimetype.MIME) bool {
	for _, a := range kind.Allowed {
		if mt.Is(a) {
			return true
		}
	}
	return false
}
