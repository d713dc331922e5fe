package rates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/plant-storefront/internal/rates"
	"github.com/stretchr/testify/assert"
)

func TestFetchRate(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected float64
	}{
		{
			name:     "Success - Live Rate",
			status:   http.StatusOK,
			body:     `{"base":"USD","rates":{"PHP":58.12,"EUR":0.92}}`,
			expected: 58.12,
		},
		{
			name:     "Fallback - Server Error",
			status:   http.StatusInternalServerError,
			body:     `{"error":"boom"}`,
			expected: rates.FallbackRate,
		},
		{
			name:     "Fallback - Missing PHP",
			status:   http.StatusOK,
			body:     `{"rates":{"EUR":0.92}}`,
			expected: rates.FallbackRate,
		},
		{
			name:     "Fallback - Malformed Body",
			status:   http.StatusOK,
			body:     `{"rates":`,
			expected: rates.FallbackRate,
		},
		{
			name:     "Fallback - Non-positive Rate",
			status:   http.StatusOK,
			body:     `{"rates":{"PHP":0}}`,
			expected: rates.FallbackRate,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var hits int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits++
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			provider := rates.NewProvider(server.URL, server.Client())

			// Act
			rate := provider.FetchRate(context.Background())

			// Assert
			assert.Equal(t, tc.expected, rate)
			assert.Equal(t, 1, hits, "provider must not retry")
		})
	}
}

func TestFetchRate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	provider := rates.NewProvider(url, nil)

	assert.Equal(t, rates.FallbackRate, provider.FetchRate(context.Background()))
}

func TestStatic(t *testing.T) {
	assert.Equal(t, 42.0, rates.Static(42).FetchRate(context.Background()))
}
