// Package vip talks to the external VIP status provider.
package vip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the provider's answer for one email.
type Status struct {
	IsVIP    bool            `json:"isVip"`
	Tier     string          `json:"tier"`
	Discount decimal.Decimal `json:"discount"`
}

// Provider resolves VIP status by email.
type Provider interface {
	Lookup(ctx context.Context, email string) (*Status, error)
	Healthy(ctx context.Context) bool
}

type Config struct {
	URL     string
	Timeout time.Duration
}

type Client struct {
	url        string
	healthURL  string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil, fmt.Errorf("vip: url required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("vip: parse url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	health := *u
	health.Path = "/health"
	health.RawQuery = ""

	return &Client{
		url:        strings.TrimRight(raw, "/"),
		healthURL:  health.String(),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Lookup(ctx context.Context, email string) (*Status, error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("vip: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("vip: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vip: call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vip: unexpected status %d", resp.StatusCode)
	}

	var s Status
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("vip: decode: %w", err)
	}
	return &s, nil
}

// Healthy reports whether the provider's /health endpoint answers 200.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
