package binlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://lookup.binlist.net"
	DefaultTimeout = 10 * time.Second
)

// ErrUnavailable is returned for every lookup that did not produce data:
// non-200 responses, transport failures and undecodable bodies.
var ErrUnavailable = errors.New("bin data unavailable")

type Client struct {
	Base string
	HTTP *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

type Country struct {
	Numeric  string `json:"numeric,omitempty"`
	Alpha2   string `json:"alpha2,omitempty"`
	Name     string `json:"name,omitempty"`
	Emoji    string `json:"emoji,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type Bank struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Phone string `json:"phone,omitempty"`
	City  string `json:"city,omitempty"`
}

// Info is the subset of the binlist v3 response the tool shows.
type Info struct {
	Scheme  string   `json:"scheme,omitempty"`
	Type    string   `json:"type,omitempty"`
	Brand   string   `json:"brand,omitempty"`
	Prepaid *bool    `json:"prepaid,omitempty"`
	Country *Country `json:"country,omitempty"`
	Bank    *Bank    `json:"bank,omitempty"`
}

// Lookup fetches registry data for a numeric prefix.
func (c *Client) Lookup(ctx context.Context, prefix string) (*Info, error) {
	target := fmt.Sprintf("%s/%s", c.Base, prefix)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept-Version", "3")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %v: %w", prefix, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("lookup %s status=%d body=%s: %w", prefix, resp.StatusCode, strings.TrimSpace(string(b)), ErrUnavailable)
	}

	var info Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode lookup %s: %v: %w", prefix, err, ErrUnavailable)
	}
	return &info, nil
}
