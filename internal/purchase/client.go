// Package purchase posts ticket purchases to the external purchase endpoint.
package purchase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Domenick1991/flightcart/config"
	"github.com/Domenick1991/flightcart/internal/domain"
)

type Client struct {
	url        string
	httpClient *http.Client
}

func New(cfg config.PurchaseConfig) *Client {
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Purchase succeeds only on HTTP 200. Anything else, including other 2xx
// codes, is a *domain.TransportError.
func (c *Client) Purchase(ctx context.Context, req domain.PurchaseRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode purchase: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build purchase request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &domain.TransportError{Op: "purchase", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &domain.TransportError{Op: "purchase", StatusCode: resp.StatusCode}
	}
	return nil
}
