// Package client talks to the storefront HTTP API. It is what the product
// form and plantctl use to reach the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"github.com/aaravmahajanofficial/plant-storefront/internal/utils/response"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 10 << 20

// APIError is a non-2xx answer. errors.Is matches it against ErrNotFound,
// ErrUnauthorized and ErrForbidden by status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront returned %d", e.StatusCode)
	}

	return fmt.Sprintf("storefront returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}

	return nil
}

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New returns a Client for baseURL (e.g. http://localhost:8080). token is
// sent as a bearer token when non-empty.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Count   *int `json:"count"`
	Data    T    `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}

	return nil
}

// decodeError understands both the { error: {code, message} } envelope and
// the upload endpoint's { error: "message" }.
func decodeError(status int, data []byte) error {
	apiErr := &APIError{StatusCode: status}

	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Error) == 0 {
		return apiErr
	}

	var message string
	if err := json.Unmarshal(body.Error, &message); err == nil {
		apiErr.Message = message
		return apiErr
	}

	var detail response.ErrorResponse
	if err := json.Unmarshal(body.Error, &detail); err == nil {
		apiErr.Code = detail.Code
		apiErr.Message = detail.Message
		apiErr.Fields = detail.Fields
	}

	return apiErr
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	return c.do(ctx, method, path, bytes.NewReader(data), "application/json", out)
}

func productPath(id int64) string {
	return "/api/v1/products/" + strconv.FormatInt(id, 10)
}

func (c *Client) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	var env envelope[*models.Product]
	if err := c.sendJSON(ctx, http.MethodPost, "/api/v1/products", req, &env); err != nil {
		return nil, err
	}

	return env.Data, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	var env envelope[*models.Product]
	if err := c.sendJSON(ctx, http.MethodPut, productPath(id), req, &env); err != nil {
		return nil, err
	}

	return env.Data, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var env envelope[*models.Product]
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, "", &env); err != nil {
		return nil, err
	}

	return env.Data, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) (*models.DeletedProduct, error) {
	var env envelope[*models.DeletedProduct]
	if err := c.do(ctx, http.MethodDelete, productPath(id), nil, "", &env); err != nil {
		return nil, err
	}

	return env.Data, nil
}

func (c *Client) ListProducts(ctx context.Context, filter models.ListProductsFilter) ([]models.Product, error) {
	q := url.Values{}
	if filter.Category != nil {
		q.Set("category", string(*filter.Category))
	}
	if filter.InStock != nil {
		q.Set("inStock", strconv.FormatBool(*filter.InStock))
	}
	if filter.Popular != nil {
		q.Set("popular", strconv.FormatBool(*filter.Popular))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	return c.list(ctx, "/api/v1/products", q)
}

// Catalog fetches the filtered, sorted shop grid. query uses the same keys
// as catalog.ParseFilter and catalog.ParseSort.
func (c *Client) Catalog(ctx context.Context, query url.Values) ([]models.Product, error) {
	return c.list(ctx, "/api/v1/catalog", query)
}

func (c *Client) list(ctx context.Context, path string, q url.Values) ([]models.Product, error) {
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var env envelope[[]models.Product]
	if err := c.do(ctx, http.MethodGet, path, nil, "", &env); err != nil {
		return nil, err
	}

	return env.Data, nil
}

func (c *Client) ExchangeRate(ctx context.Context) (*models.ExchangeRate, error) {
	var env envelope[*models.ExchangeRate]
	if err := c.do(ctx, http.MethodGet, "/api/v1/exchange-rate", nil, "", &env); err != nil {
		return nil, err
	}

	return env.Data, nil
}

// Upload sends r as the multipart "file" field and returns the public URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}

	var resp models.UploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/upload", &body, writer.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.URL == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: resp.Error}
	}

	return resp.URL, nil
}
