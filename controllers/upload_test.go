package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbita/backend/config"
)

func uploadRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := config.Config{UploadDir: t.TempDir()}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", int64(42))
		c.Next()
	})
	r.POST("/users/me/upload-image", UploadUserImage(cfg))
	return r
}

func multipartFile(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadRejectsMissingFile(t *testing.T) {
	body, ctype := multipartFile(t, "attachment", "avatar.png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/users/me/upload-image", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	uploadRouter(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing file")
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	body, ctype := multipartFile(t, "file", "avatar.gif", []byte("gif89a"))
	req := httptest.NewRequest(http.MethodPost, "/users/me/upload-image", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	uploadRouter(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported image type")
}

func TestUploadRejectsOversizeFile(t *testing.T) {
	body, ctype := multipartFile(t, "file", "avatar.png", bytes.Repeat([]byte("a"), maxUploadBytes+1))
	req := httptest.NewRequest(http.MethodPost, "/users/me/upload-image", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	uploadRouter(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file too large")
}
