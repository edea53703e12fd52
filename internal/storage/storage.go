package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// URLPrefix is the public path under which stored uploads are served.
const URLPrefix = "/uploads/"

// Store persists uploaded files and returns the public path of the stored file.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// ObjectName derives the stored name from the upload time and the original
// file name: "<unix millis>-<base name>".
func ObjectName(original string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

// SaveUpload stores a multipart file and returns its public path.
func SaveUpload(ctx context.Context, s Store, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	name := ObjectName(fh.Filename, time.Now())
	path, err := s.Put(ctx, name, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("store upload %s: %w", name, err)
	}
	return path, nil
}

// LocalStorage writes uploads into a directory served statically at URLPrefix.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates dir when missing.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Dir returns the directory files are written to.
func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return URLPrefix + name, nil
}
