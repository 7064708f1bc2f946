package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go-subscout/fetch"
	"go-subscout/models"
)

// bufferOverResponse defines the JSON structure returned by dns.bufferover.run.
// Every FDNS_A line is "ip,hostname".
type bufferOverResponse struct {
	FDNSA []string `json:"FDNS_A"`
}

// BufferOver queries the forward DNS aggregation service.
type BufferOver struct {
	httpSource
}

// NewBufferOver returns a *BufferOver querying baseURL.
func NewBufferOver(client *fetch.Client, baseURL string, timeout time.Duration) *BufferOver {
	return &BufferOver{httpSource{client: client, baseURL: strings.TrimSuffix(baseURL, "/"), timeout: timeout}}
}

// Name returns the source name.
func (b *BufferOver) Name() string {
	return models.SourceBufferOver
}

// Collect extracts the hostnames of every A record under domain.
func (b *BufferOver) Collect(ctx context.Context, domain string) []string {
	url := fmt.Sprintf("%s/dns?q=.%s", b.baseURL, domain)

	var resp bufferOverResponse
	if err := b.client.JSON(ctx, url, b.timeout, &resp); err != nil {
		logrus.Debugf("bufferover lookup failed for %s: %v", domain, err)
		return []string{}
	}

	set := newNameSet()
	for _, line := range resp.FDNSA {
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		set.add(parts[1], domain)
	}
	return set.list()
}
