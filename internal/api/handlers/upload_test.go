package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/plant-storefront/internal/config"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"github.com/aaravmahajanofficial/plant-storefront/internal/storage/local"
	"github.com/aaravmahajanofficial/plant-storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
)

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := testutils.NewRequest(http.MethodPost, "/api/v1/upload", &body, nil)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, io.Reader) (string, error) {
	return "", errors.New("disk full")
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	store, err := local.New(&config.Upload{Dir: dir, PublicPath: "/uploads/"})
	require.NoError(t, err)

	uploadHandler := handlers.NewUploadHandler(store, 1024)

	decode := func(t *testing.T, rr *httptest.ResponseRecorder) models.UploadResponse {
		t.Helper()
		var resp models.UploadResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		return resp
	}

	t.Run("Accepted Types Are Stored Under A Generated Name", func(t *testing.T) {
		tests := []struct {
			name    string
			content []byte
			ext     string
		}{
			{"PNG", pngHeader, ".png"},
			{"JPEG", jpegHeader, ".jpg"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				// Arrange
				rr := httptest.NewRecorder()
				req := multipartRequest(t, "file", "../../etc/plant"+tc.ext, tc.content)

				// Act
				uploadHandler.Upload().ServeHTTP(rr, req)

				// Assert
				assert.Equal(t, http.StatusOK, rr.Code)
				resp := decode(t, rr)
				assert.True(t, resp.Success)
				assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"), resp.URL)
				assert.Equal(t, tc.ext, filepath.Ext(resp.URL))
				assert.NotContains(t, resp.URL, "plant")

				stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(resp.URL, "/uploads/")))
				require.NoError(t, err)
				assert.Equal(t, tc.content, stored)
			})
		}
	})

	t.Run("Type Detected From Content Not Name", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()
		req := multipartRequest(t, "file", "cute.png", gifHeader)

		// Act
		uploadHandler.Upload().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
		resp := decode(t, rr)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "Invalid file type")
	})

	t.Run("Too Large", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()
		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1024)...)
		req := multipartRequest(t, "file", "big.png", content)

		// Act
		uploadHandler.Upload().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.False(t, decode(t, rr).Success)
	})

	t.Run("Missing File Field", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()
		req := multipartRequest(t, "image", "plant.png", pngHeader)

		// Act
		uploadHandler.Upload().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "No file provided", decode(t, rr).Error)
	})

	t.Run("Not Multipart", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := testutils.NewRequest(http.MethodPost, "/api/v1/upload", strings.NewReader("{}"), nil)
		req.Header.Set("Content-Type", "application/json")

		uploadHandler.Upload().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Store Failure", func(t *testing.T) {
		rr := httptest.NewRecorder()

		handlers.NewUploadHandler(failingStore{}, 0).Upload().ServeHTTP(rr, multipartRequest(t, "file", "p.png", pngHeader))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.False(t, decode(t, rr).Success)
	})
}
