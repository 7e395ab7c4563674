package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("file not found")

// Store is where uploaded files live. Names are flat keys produced by the
// Uploader.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	URL(ctx context.Context, name string) (string, error)
}

// LocalStore writes files below a directory served under PublicPrefix.
type LocalStore struct {
	dir    string
	prefix string
}

func NewLocalStore(dir, publicPrefix string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir missing")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &LocalStore{dir: dir, prefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

// Dir is the directory files are written to.
func (l *LocalStore) Dir() string { return l.dir }

// Prefix is the URL path the directory is served under.
func (l *LocalStore) Prefix() string { return l.prefix }

func (l *LocalStore) path(name string) (string, error) {
	if !ValidName(name) {
		return "", ErrNotFound
	}
	return filepath.Join(l.dir, name), nil
}

func (l *LocalStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	p, err := l.path(name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return err
	}
	return f.Close()
}

func (l *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	p, err := l.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (l *LocalStore) URL(ctx context.Context, name string) (string, error) {
	p, err := l.path(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return path.Join(l.prefix, name), nil
}

// ValidName accepts the flat names the Uploader generates and nothing that
// could escape the upload directory.
func ValidName(name string) bool {
	if name == "" || len(name) > 128 || strings.HasPrefix(name, ".") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
