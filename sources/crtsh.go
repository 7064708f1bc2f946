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

// crtEntry defines the JSON structure returned by crt.sh
type crtEntry struct {
	NameValue string `json:"name_value"`
}

// CrtSh queries the crt.sh certificate-transparency search.
type CrtSh struct {
	httpSource
}

// NewCrtSh returns a *CrtSh querying baseURL.
func NewCrtSh(client *fetch.Client, baseURL string, timeout time.Duration) *CrtSh {
	return &CrtSh{httpSource{client: client, baseURL: strings.TrimSuffix(baseURL, "/"), timeout: timeout}}
}

// Name returns the source name.
func (c *CrtSh) Name() string {
	return models.SourceCrtSh
}

// Collect fetches every logged certificate name under domain.
func (c *CrtSh) Collect(ctx context.Context, domain string) []string {
	// "%25" is encoded for "%"
	url := fmt.Sprintf("%s/?q=%%25.%s&output=json", c.baseURL, domain)

	var entries []crtEntry
	if err := c.client.JSON(ctx, url, c.timeout, &entries); err != nil {
		logrus.Debugf("crt.sh lookup failed for %s: %v", domain, err)
		return []string{}
	}

	set := newNameSet()
	for _, entry := range entries {
		// Some certificates can contain domains separated by new line.
		for _, name := range strings.Split(entry.NameValue, "\n") {
			set.add(strings.ReplaceAll(name, "*.", ""), domain)
		}
	}
	return set.list()
}
