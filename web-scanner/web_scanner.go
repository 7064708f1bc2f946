package web_scanner

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"go-subscout/models"
)

// maxBody bounds how much of a page is read when looking for a title.
const maxBody = 512 << 10

// Result holds the outcome of a probe. A nil Status means the host could
// not be reached.
type Result struct {
	Status *models.HTTPStatus
	Title  string
}

// Prober checks whether subdomains answer over HTTPS.
type Prober struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

// New returns a *Prober. A nil client uses a fresh http.Client.
func New(client *http.Client, userAgent string, timeout time.Duration) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	return &Prober{client: client, userAgent: userAgent, timeout: timeout}
}

// Name returns the validator name.
func (p *Prober) Name() string {
	return "Web Scanner"
}

// Probe issues a GET against https://host. Any completed response yields
// its status code; network errors, timeouts and aborts yield a nil Status.
func (p *Prober) Probe(ctx context.Context, host string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+host, nil)
	if err != nil {
		return Result{}
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		logrus.Debugf("Probe failed for %s: %v", host, err)
		return Result{}
	}
	defer resp.Body.Close()

	res := Result{Status: models.StatusCode(resp.StatusCode)}
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		res.Title = extractTitle(io.LimitReader(resp.Body, maxBody))
	}
	logrus.Debugf("Probed %s -> %d", host, resp.StatusCode)
	return res
}

// extractTitle returns the trimmed text of the first <title> element.
func extractTitle(r io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
