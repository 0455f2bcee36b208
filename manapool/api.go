package manapool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://manapool.com/api/v1"
	DefaultRateLimit = 10

	headerToken = "X-ManaPool-Access-Token"
	headerEmail = "X-ManaPool-Email"
)

var (
	ErrMissingCredentials = errors.New("both MANAPOOL_API_TOKEN and MANAPOOL_API_EMAIL must be set")
	ErrInvalidCategory    = errors.New("invalid price category")
)

type LogCallbackFunc func(format string, a ...interface{})

// Config holds the static credentials and endpoint used by a Client.
type Config struct {
	Token   string `validate:"required"`
	Email   string `validate:"required,email"`
	BaseURL string `validate:"omitempty,url"`

	// Requests per second, zero means DefaultRateLimit
	RateLimit float64 `validate:"gte=0"`
}

var validate = validator.New()

// Validate checks the configuration once, before any request is made.
func (cfg Config) Validate() error {
	if cfg.Token == "" || cfg.Email == "" {
		return ErrMissingCredentials
	}
	err := validate.Struct(cfg)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			var fields []string
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	LogCallback LogCallbackFunc

	baseURL string
	client  *retryablehttp.Client
}

type authTransport struct {
	Parent  http.RoundTripper
	Token   string
	Email   string
	Limiter *rate.Limiter
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	err := t.Limiter.Wait(req.Context())
	if err != nil {
		return nil, err
	}

	req.Header.Set(headerToken, t.Token)
	req.Header.Set(headerEmail, t.Email)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return t.Parent.RoundTrip(req)
}

// NewClient validates cfg and returns a Client that sends the credential
// headers on every call. Requests are never retried.
func NewClient(cfg Config) (*Client, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	mp := Client{}
	mp.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if mp.baseURL == "" {
		mp.baseURL = DefaultBaseURL
	}

	limit := cfg.RateLimit
	if limit == 0 {
		limit = DefaultRateLimit
	}

	mp.client = retryablehttp.NewClient()
	mp.client.Logger = nil
	mp.client.RetryMax = 0
	mp.client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	mp.client.HTTPClient.Transport = &authTransport{
		Parent:  mp.client.HTTPClient.Transport,
		Token:   cfg.Token,
		Email:   cfg.Email,
		Limiter: rate.NewLimiter(rate.Limit(limit), 1),
	}
	return &mp, nil
}

func (mp *Client) printf(format string, a ...interface{}) {
	if mp.LogCallback != nil {
		mp.LogCallback("[MP] "+format, a...)
	}
}

func (mp *Client) do(ctx context.Context, method, path string, params url.Values, body interface{}) ([]byte, error) {
	link := mp.baseURL + path
	if len(params) > 0 {
		link += "?" + params.Encode()
	}

	var reqBody interface{}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, link, reqBody)
	if err != nil {
		return nil, err
	}

	mp.printf("%s %s", method, path)

	resp, err := mp.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	return data, nil
}

func (mp *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	data, err := mp.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return decode(path, data, out)
}

func decode(path string, data []byte, out interface{}) error {
	err := json.Unmarshal(data, out)
	if err != nil {
		return fmt.Errorf("unmarshal error for %s: %w", path, err)
	}
	return nil
}

// SearchSingles returns the singles matching one lookup.
func (mp *Client) SearchSingles(ctx context.Context, lookup Lookup) ([]Single, error) {
	var response SinglesResponse
	err := mp.getJSON(ctx, "/products/singles", lookupValues(lookup), &response)
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

// SearchSinglesRaw returns the response body as sent by the server.
func (mp *Client) SearchSinglesRaw(ctx context.Context, lookup Lookup) (json.RawMessage, error) {
	return mp.do(ctx, http.MethodGet, "/products/singles", lookupValues(lookup), nil)
}

func (mp *Client) SearchSealed(ctx context.Context, lookup SealedLookup) ([]Sealed, error) {
	var response SealedResponse
	err := mp.getJSON(ctx, "/products/sealed", lookupValues(lookup), &response)
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

func (mp *Client) SearchSealedRaw(ctx context.Context, lookup SealedLookup) (json.RawMessage, error) {
	return mp.do(ctx, http.MethodGet, "/products/sealed", lookupValues(lookup), nil)
}

type Category string

const (
	CategorySingles  Category = "singles"
	CategorySealed   Category = "sealed"
	CategoryVariants Category = "variants"
)

var Categories = []Category{CategorySingles, CategorySealed, CategoryVariants}

func ParseCategory(name string) (Category, error) {
	for _, category := range Categories {
		if string(category) == name {
			return category, nil
		}
	}
	return "", fmt.Errorf("%w %q, choose one of singles, sealed, variants", ErrInvalidCategory, name)
}

// Prices returns the full price export for a category.
func (mp *Client) Prices(ctx context.Context, category Category) (json.RawMessage, error) {
	_, err := ParseCategory(string(category))
	if err != nil {
		return nil, err
	}
	return mp.do(ctx, http.MethodGet, "/prices/"+string(category), nil, nil)
}

// PriceList decodes the singles price export.
func (mp *Client) PriceList(ctx context.Context) ([]PriceEntry, *PriceListMeta, error) {
	var pricelist struct {
		Meta PriceListMeta `json:"meta"`
		Data []PriceEntry  `json:"data"`
	}
	err := mp.getJSON(ctx, "/prices/"+string(CategorySingles), nil, &pricelist)
	if err != nil {
		return nil, nil, err
	}

	mp.printf("Found %d prices", len(pricelist.Data))

	return pricelist.Data, &pricelist.Meta, nil
}

// Optimize submits a cart to the buyer optimizer. The cart is sent as-is.
func (mp *Client) Optimize(ctx context.Context, cart json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(cart) {
		return nil, errors.New("cart is not valid JSON")
	}
	return mp.do(ctx, http.MethodPost, "/buyer/optimizer", nil, cart)
}

type InventoryOptions struct {
	Limit  int
	Offset int

	// Only sent when positive
	MinQuantity int
}

func (opts InventoryOptions) values() url.Values {
	v := url.Values{}
	v.Set("limit", fmt.Sprint(opts.Limit))
	v.Set("offset", fmt.Sprint(opts.Offset))
	if opts.MinQuantity > 0 {
		v.Set("minQuantity", fmt.Sprint(opts.MinQuantity))
	}
	return v
}

func (mp *Client) SellerInventory(ctx context.Context, opts InventoryOptions) (*Inventory, error) {
	var inventory Inventory
	err := mp.getJSON(ctx, "/seller/inventory", opts.values(), &inventory)
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (mp *Client) SellerInventoryRaw(ctx context.Context, opts InventoryOptions) (json.RawMessage, error) {
	return mp.do(ctx, http.MethodGet, "/seller/inventory", opts.values(), nil)
}

type InventoryUpdate struct {
	PriceCents int `json:"price_cents"`
	Quantity   int `json:"quantity"`
}

// UpdateInventory sets price and quantity of the listing identified by a
// TCGplayer SKU. Quantity is always sent, a zero value delists the item.
func (mp *Client) UpdateInventory(ctx context.Context, sku string, update InventoryUpdate) (json.RawMessage, error) {
	if sku == "" {
		return nil, errors.New("missing sku")
	}
	if update.PriceCents <= 0 {
		return nil, fmt.Errorf("invalid price %d", update.PriceCents)
	}
	if update.Quantity < 0 {
		return nil, fmt.Errorf("invalid quantity %d", update.Quantity)
	}
	return mp.do(ctx, http.MethodPut, "/seller/inventory/tcgsku/"+url.PathEscape(sku), nil, update)
}
