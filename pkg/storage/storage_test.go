package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocal(dir, "http://localhost:8000/uploads/")
	require.NoError(t, err)

	url, err := local.Upload(context.Background(), []byte("png-bytes"), "photo.PNG", "image/png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8000/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	key := strings.TrimPrefix(url, "http://localhost:8000/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalUploadRejectsEmpty(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	_, err = local.Upload(context.Background(), nil, "a.png", "image/png")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestRemoteUpload(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	uploader, err := New(Config{Driver: "remote", Endpoint: srv.URL, Bucket: "diary", Token: "secret", PublicURL: "https://cdn.example.com"})
	require.NoError(t, err)

	url, err := uploader.Upload(context.Background(), []byte("jpeg-bytes"), "a.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/diary/"))
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, "jpeg-bytes", gotBody)
	assert.Equal(t, "https://cdn.example.com/"+strings.TrimPrefix(gotPath, "/diary/"), url)
}

func TestRemoteUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	uploader, err := NewRemote(Config{Endpoint: srv.URL, Bucket: "diary"})
	require.NoError(t, err)

	_, err = uploader.Upload(context.Background(), []byte("x"), "a.jpg", "image/jpeg")
	assert.Error(t, err)
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "ftp"})
	assert.Error(t, err)
}
