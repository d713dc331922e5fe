package testutils

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
)

// NewRequest builds a request carrying a discard logger and the given path
// values, as the router and logging middleware would.
func NewRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return req.WithContext(middleware.WithLogger(req.Context(), logger))
}

// AsAdmin returns req as if it had passed RequireAdmin.
func AsAdmin(req *http.Request) *http.Request {
	claims := &models.Claims{UserID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}

	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}
