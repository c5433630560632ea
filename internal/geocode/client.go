// Package geocode is a best-effort reverse geocoding client for the
// organization form's location picker. Lookups are cached and retried; any
// failure yields a zero Address so form fields are simply left blank.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	ierr "github.com/outletkit/outletkit/internal/errors"
	"github.com/outletkit/outletkit/internal/logger"
	"github.com/patrickmn/go-cache"
)

// Address is the subset of the geocoder response the forms prefill from.
type Address struct {
	Street     string
	Village    string
	District   string
	City       string
	Province   string
	PostalCode string
}

type Client struct {
	endpoint string
	http     *retryablehttp.Client
	cache    *cache.Cache
	log      *logger.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the underlying http client, used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http.HTTPClient = hc
	}
}

func NewClient(endpoint string, cacheTTL time.Duration, maxRetries int, log *logger.Logger, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	c := &Client{
		endpoint: endpoint,
		http:     rc,
		cache:    cache.New(cacheTTL, 2*cacheTTL),
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// nominatimResponse mirrors the fields of a Nominatim reverse lookup we care
// about. Several alternative keys map onto one Address field because the
// provider fills different ones depending on the area.
type nominatimResponse struct {
	Address struct {
		Road          string `json:"road"`
		HouseNumber   string `json:"house_number"`
		Neighbourhood string `json:"neighbourhood"`
		Suburb        string `json:"suburb"`
		Village       string `json:"village"`
		Hamlet        string `json:"hamlet"`
		Town          string `json:"town"`
		District      string `json:"district"`
		County        string `json:"county"`
		City          string `json:"city"`
		State         string `json:"state"`
		Province      string `json:"province"`
		Postcode      string `json:"postcode"`
	} `json:"address"`
}

// Reverse looks up the address at the given coordinates. The error is
// informational: callers treat any failure as "leave the fields blank".
func (c *Client) Reverse(ctx context.Context, latitude, longitude float64) (Address, error) {
	key := fmt.Sprintf("%.5f,%.5f", latitude, longitude)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(Address), nil
	}

	url := fmt.Sprintf("%s?format=json&lat=%f&lon=%f&zoom=18&addressdetails=1&accept-language=id",
		c.endpoint, latitude, longitude)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, ierr.WithError(err).
			WithHint("Failed to build geocoding request").
			Mark(ierr.ErrHTTPClient)
	}
	req.Header.Set("Accept-Language", "id")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnw("reverse geocoding failed", "error", err, "lat", latitude, "lon", longitude)
		return Address{}, ierr.WithError(err).
			WithHint("Reverse geocoding request failed").
			Mark(ierr.ErrHTTPClient)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.log.Warnw("reverse geocoding returned non-200", "status", resp.StatusCode)
		return Address{}, ierr.NewError("unexpected geocoder status").
			WithHintf("Geocoder returned status %d", resp.StatusCode).
			Mark(ierr.ErrHTTPClient)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, ierr.WithError(err).
			WithHint("Failed to decode geocoder response").
			Mark(ierr.ErrHTTPClient)
	}

	addr := body.Address
	result := Address{
		Street:     firstNonEmpty(addr.Road, addr.HouseNumber, addr.Neighbourhood, addr.Suburb),
		Village:    firstNonEmpty(addr.Village, addr.Hamlet),
		District:   firstNonEmpty(addr.Town, addr.District),
		City:       firstNonEmpty(addr.County, addr.City),
		Province:   firstNonEmpty(addr.State, addr.Province),
		PostalCode: addr.Postcode,
	}
	c.cache.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
