// Package productform drives the three-step "add product" flow: it holds
// what the admin typed, converts prices between entry currencies, validates
// and finally submits the product through the storefront API.
package productform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/aaravmahajanofficial/plant-storefront/internal/catalog"
	"github.com/aaravmahajanofficial/plant-storefront/internal/client"
	"github.com/aaravmahajanofficial/plant-storefront/internal/currency"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"github.com/aaravmahajanofficial/plant-storefront/internal/rates"
)

var ErrSubmitInProgress = errors.New("a submission is already in progress")

type Step int

const (
	BasicInfo Step = iota
	CareDetails
	Additional
)

func (s Step) String() string {
	switch s {
	case BasicInfo:
		return "Basic Info"
	case CareDetails:
		return "Care Details"
	case Additional:
		return "Additional"
	}

	return "Step(" + strconv.Itoa(int(s)) + ")"
}

// Fields is the raw form state. Prices are in the controller's current
// entry currency.
type Fields struct {
	Name             string
	ScientificName   string
	Price            string
	OriginalPrice    string
	Category         models.Category
	CareLevel        models.CareLevel
	LightRequirement models.LightRequirement
	WaterFrequency   models.WaterFrequency
	Size             models.Size
	Description      string
	ImageURL         string
	StockQuantity    string
	IsPopular        bool
	IsOnSale         bool
	Extras           catalog.CareExtras
}

// DefaultFields is what a fresh or reset form shows.
func DefaultFields() Fields {
	return Fields{
		CareLevel:        models.DefaultCareLevel,
		LightRequirement: models.DefaultLightRequirement,
		WaterFrequency:   models.DefaultWaterFrequency,
		Size:             models.DefaultSize,
	}
}

// ImageFile is a picked file that has not been uploaded yet.
type ImageFile struct {
	Name string
	Data io.Reader
}

type ProductCreator interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
}

type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ValidationError lists field -> message for every failed check.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d field(s) need attention", len(e.Fields))
}

// SubmitError is a failure after validation passed. Message is safe to show
// to the admin; Err keeps the cause for errors.Is.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

type Controller struct {
	creator  ProductCreator
	uploader Uploader
	logger   *slog.Logger

	mu         sync.Mutex
	submitting bool
	step       Step
	mode       currency.Currency
	rate       float64
	fields     Fields
	image      *ImageFile
}

// New fetches the exchange rate once and holds it for the life of the form.
// uploader may be nil when only image URLs are used.
func New(ctx context.Context, provider rates.Provider, creator ProductCreator, uploader Uploader) *Controller {
	return NewWithRate(provider.FetchRate(ctx), creator, uploader)
}

func NewWithRate(rate float64, creator ProductCreator, uploader Uploader) *Controller {
	return &Controller{
		creator:  creator,
		uploader: uploader,
		logger:   slog.Default().With(slog.String("component", "productform")),
		step:     BasicInfo,
		mode:     currency.USD,
		rate:     rate,
		fields:   DefaultFields(),
	}
}

func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.step
}

// Next and Prev move one step and stop at the ends. Steps never gate on
// validation.
func (c *Controller) Next() Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step < Additional {
		c.step++
	}

	return c.step
}

func (c *Controller) Prev() Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step > BasicInfo {
		c.step--
	}

	return c.step
}

func (c *Controller) GoTo(s Step) error {
	if s < BasicInfo || s > Additional {
		return fmt.Errorf("unknown step %d", s)
	}

	c.mu.Lock()
	c.step = s
	c.mu.Unlock()

	return nil
}

func (c *Controller) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rate
}

func (c *Controller) Mode() currency.Currency {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mode
}

func (c *Controller) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fields
}

// Edit applies fn to the form state.
func (c *Controller) Edit(fn func(*Fields)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.fields)
}

func (c *Controller) SelectImage(file ImageFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.image = &file
}

func (c *Controller) ClearImage() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.image = nil
}

func (c *Controller) HasImage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.image != nil
}

func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.submitting
}

// SetCurrency switches the entry currency, converting both price fields in
// place and rounding to cents. Each toggle rounds again, so repeated
// toggling can drift by a cent.
func (c *Controller) SetCurrency(mode currency.Currency) error {
	if !mode.Valid() {
		return fmt.Errorf("unsupported currency %q", mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if mode == c.mode {
		return nil
	}

	c.fields.Price = convertField(c.fields.Price, c.mode, mode, c.rate)
	c.fields.OriginalPrice = convertField(c.fields.OriginalPrice, c.mode, mode, c.rate)
	c.mode = mode

	return nil
}

// convertField leaves blank inputs blank.
func convertField(value string, from, to currency.Currency, rate float64) string {
	if strings.TrimSpace(value) == "" {
		return value
	}

	converted := currency.Convert(currency.ParseAmount(value), from, to, rate)

	return currency.FormatAmount(currency.Round2(converted))
}

// Validate returns field -> message; an empty map means the form may be
// submitted.
func (c *Controller) Validate() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return validate(c.fields)
}

func validate(f Fields) map[string]string {
	errs := make(map[string]string)

	required := []struct {
		key   string
		label string
		value string
	}{
		{"name", "Name", f.Name},
		{"description", "Description", f.Description},
		{"price", "Price", f.Price},
		{"category", "Category", string(f.Category)},
		{"stockQuantity", "Stock quantity", f.StockQuantity},
		{"careLevel", "Care level", string(f.CareLevel)},
		{"waterFrequency", "Watering frequency", string(f.WaterFrequency)},
		{"lightRequirement", "Light requirement", string(f.LightRequirement)},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.key] = r.label + " is required"
		}
	}

	if _, ok := errs["price"]; !ok && !isNumber(f.Price) {
		errs["price"] = "Price must be a valid number"
	}
	if strings.TrimSpace(f.OriginalPrice) != "" && !isNumber(f.OriginalPrice) {
		errs["originalPrice"] = "Original price must be a valid number"
	}
	if _, ok := errs["stockQuantity"]; !ok && !isNumber(f.StockQuantity) {
		errs["stockQuantity"] = "Stock quantity must be a valid number"
	}

	return errs
}

func isNumber(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)

	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Submit validates, converts prices to USD, uploads the selected image and
// creates the product. On success the form is reset to step one; on any
// failure the state is kept so the admin can retry.
func (c *Controller) Submit(ctx context.Context) (*models.Product, error) {

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	c.submitting = true
	fields, mode, rate, image := c.fields, c.mode, c.rate, c.image
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if errs := validate(fields); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	imageURL := strings.TrimSpace(fields.ImageURL)
	if image != nil {
		if c.uploader == nil {
			return nil, &SubmitError{Message: "Image upload is not available"}
		}

		url, err := c.uploader.Upload(ctx, image.Name, image.Data)
		if err != nil {
			c.logger.Warn("image upload failed", slog.String("file", image.Name), slog.Any("error", err))
			return nil, &SubmitError{Message: "Failed to upload image: " + userMessage(err), Err: err}
		}
		imageURL = url
	}

	req := &models.CreateProductRequest{
		Name:             strings.TrimSpace(fields.Name),
		ScientificName:   strings.TrimSpace(fields.ScientificName),
		Price:            models.FormValue(toCanonical(fields.Price, mode, rate)),
		OriginalPrice:    models.FormValue(toCanonical(fields.OriginalPrice, mode, rate)),
		Category:         fields.Category,
		CareLevel:        fields.CareLevel,
		LightRequirement: fields.LightRequirement,
		WaterFrequency:   fields.WaterFrequency,
		Size:             fields.Size,
		Description:      strings.TrimSpace(fields.Description),
		Image:            imageURL,
		StockQuantity:    models.FormValue(strings.TrimSpace(fields.StockQuantity)),
		Features:         catalog.BuildFeatures(fields.Extras),
		IsPopular:        fields.IsPopular,
		IsOnSale:         fields.IsOnSale,
	}

	product, err := c.creator.CreateProduct(ctx, req)
	if err != nil {
		c.logger.Warn("product submission failed", slog.String("name", req.Name), slog.Any("error", err))
		return nil, &SubmitError{Message: "Failed to add product: " + userMessage(err), Err: err}
	}

	c.mu.Lock()
	c.fields = DefaultFields()
	c.image = nil
	c.step = BasicInfo
	c.mode = currency.USD
	c.mu.Unlock()

	c.logger.Info("product submitted", slog.Int64("productId", product.ID))

	return product, nil
}

// toCanonical converts an entry-currency price to a USD string. Blank stays
// blank so the server stores NULL.
func toCanonical(value string, mode currency.Currency, rate float64) string {
	value = strings.TrimSpace(value)
	if value == "" || mode == currency.Canonical {
		return value
	}

	return convertField(value, mode, currency.Canonical, rate)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrForbidden):
		return "you are not authorized to manage products"
	case errors.Is(err, client.ErrNotFound):
		return "the storefront endpoint was not found"
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return "please check your connection and try again"
}
