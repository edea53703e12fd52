package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/portfolio-cms/portfolio-api/internal/config"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	require.Equal(t, "1700000000123-photo.png", ObjectName("photo.png", now))
	require.Equal(t, "1700000000123-evil.png", ObjectName("../../etc/evil.png", now))
	require.Equal(t, "1700000000123-shot.jpg", ObjectName(`C:\Users\me\shot.jpg`, now))
	require.Equal(t, "1700000000123-upload", ObjectName("", now))
}

func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestLocalStorage_SaveUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	require.DirExists(t, dir)

	fh := fileHeader(t, "image", "cover.png", []byte("png-bytes"))
	path, err := SaveUpload(context.Background(), s, fh)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, URLPrefix))
	require.True(t, strings.HasSuffix(path, "-cover.png"))

	b, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(path, URLPrefix)))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(b))
}

func TestNewMinIOStorage_RequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStorage(context.Background(), config.MinIOConfig{})
	require.Error(t, err)
}
