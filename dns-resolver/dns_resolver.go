package dns_resolver

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"go-subscout/fetch"
)

// Resolver checks subdomains for A records through a DNS-over-HTTPS JSON API.
type Resolver struct {
	client   *fetch.Client
	endpoint string
	timeout  time.Duration
}

// New returns a *Resolver querying endpoint.
func New(client *fetch.Client, endpoint string, timeout time.Duration) *Resolver {
	return &Resolver{client: client, endpoint: endpoint, timeout: timeout}
}

// Name returns the validator name.
func (r *Resolver) Name() string {
	return "DNS Resolver"
}

// HasA reports whether name resolves to at least one A record. Any failure
// reads as false: no evidence of existence, not proof of absence.
func (r *Resolver) HasA(ctx context.Context, name string) bool {
	u := fmt.Sprintf("%s?name=%s&type=A", r.endpoint, url.QueryEscape(name))

	var resp dohResponse
	if err := r.client.Decode(ctx, u, fetch.AcceptDNSJSON, r.timeout, &resp); err != nil {
		logrus.Debugf("Lookup failed for %s: %v", name, err)
		return false
	}

	for _, ans := range resp.Answer {
		if ans.Type == typeA {
			logrus.Debugf("Resolved %s -> %s", name, ans.Data)
			return true
		}
	}
	return false
}
