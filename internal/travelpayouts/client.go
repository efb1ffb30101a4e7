// Package travelpayouts talks to the Travelpayouts flight data API published through RapidAPI.
package travelpayouts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Domenick1991/flightcart/config"
	"github.com/Domenick1991/flightcart/internal/domain"
	"golang.org/x/time/rate"
)

const (
	cheapestPath = "/v1/prices/cheap"
	citiesPath   = "/data/en-GB/cities.json"
	airlinesPath = "/data/en-GB/airlines.json"

	// AnyDestination asks the pricing API for every destination from the origin.
	AnyDestination = "-"
)

// CheapestQuery holds the caller-controlled part of a pricing request.
type CheapestQuery struct {
	Origin      string
	Destination string
	ReturnDate  string
}

// Values returns the full query string, including the fixed currency, calendar and page.
func (q CheapestQuery) Values() url.Values {
	destination := q.Destination
	if destination == "" {
		destination = AnyDestination
	}
	v := url.Values{}
	v.Set("calendar_type", "departure_date")
	v.Set("currency", domain.Currency)
	v.Set("page", "1")
	v.Set("destination", destination)
	v.Set("origin", q.Origin)
	v.Set("return_date", q.ReturnDate)
	return v
}

type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(cfg config.TravelpayoutsConfig, opts ...Option) *Client {
	h := http.Header{}
	if cfg.RapidAPIKey != "" {
		h.Set("x-rapidapi-key", cfg.RapidAPIKey)
	}
	if cfg.RapidAPIHost != "" {
		h.Set("x-rapidapi-host", cfg.RapidAPIHost)
	}
	if cfg.AccessToken != "" {
		h.Set("X-Access-Token", cfg.AccessToken)
	}

	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers:    h,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		limiter:    rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cheapest calls the pricing endpoint. The response body's data field is returned as is.
func (c *Client) Cheapest(ctx context.Context, q CheapestQuery) (domain.CheapestPrices, error) {
	var body struct {
		Success bool                  `json:"success"`
		Data    domain.CheapestPrices `json:"data"`
	}
	if err := c.get(ctx, "cheapest prices", cheapestPath, q.Values(), &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

func (c *Client) Cities(ctx context.Context) ([]domain.ReferenceEntry, error) {
	var entries []domain.ReferenceEntry
	if err := c.get(ctx, "cities", citiesPath, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) Airlines(ctx context.Context) ([]domain.ReferenceEntry, error) {
	var entries []domain.ReferenceEntry
	if err := c.get(ctx, "airlines", airlinesPath, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// get returns a *domain.TransportError for network and HTTP failures, and a
// plain error when the body does not decode.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	for k, vs := range c.headers {
		req.Header[k] = vs
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
