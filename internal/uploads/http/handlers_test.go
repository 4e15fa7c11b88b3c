package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/uploads/service"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/uploads/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var gifBody = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00,")

func setupRouter(t *testing.T, max int64) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	r := gin.New()
	New(service.NewUploadService(store, max, zap.NewNop()), zap.NewNop()).Register(r.Group("/api/v1"))
	return r, dir
}

func multipartRequest(t *testing.T, field string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "picture.bin")
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	r, dir := setupRouter(t, 1024)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "image", gifBody))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}\.gif$`, resp["image"])

	stored, err := os.ReadFile(filepath.Join(dir, filepath.Base(resp["image"])))
	require.NoError(t, err)
	assert.Equal(t, gifBody, stored)
}

func TestUpload_Errors(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		r, _ := setupRouter(t, 1024)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "file", gifBody))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No image file provided"}`, w.Body.String())
	})

	t.Run("not an image", func(t *testing.T) {
		r, _ := setupRouter(t, 1024)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "image", []byte("just text")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "only jpeg")
	})

	t.Run("too large", func(t *testing.T) {
		r, _ := setupRouter(t, 8)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "image", gifBody))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
