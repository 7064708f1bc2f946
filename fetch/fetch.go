package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client performs GET requests against the upstream JSON APIs.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// New returns a *Client backed by its own http.Client. Timeouts are
// applied per call through the request context.
func New(userAgent string) *Client {
	return &Client{
		HTTP:      &http.Client{},
		UserAgent: userAgent,
	}
}

// StatusError reports a non-success response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.Code)
}

// Media types accepted by the upstream APIs.
const (
	AcceptJSON    = "application/json"
	AcceptDNSJSON = "application/dns-json"
)

// JSON fetches url and decodes the body into out. The request is aborted
// when ctx is cancelled or timeout elapses, whichever comes first.
func (c *Client) JSON(ctx context.Context, url string, timeout time.Duration, out any) error {
	return c.Decode(ctx, url, AcceptJSON, timeout, out)
}

// Decode is JSON with an explicit Accept header.
func (c *Client) Decode(ctx context.Context, url, accept string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", accept)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, Code: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
