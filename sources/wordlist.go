package sources

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go-subscout/models"
)

// commonLabels is the built-in wordlist.
var commonLabels = []string{
	"www",
	"api",
	"app",
	"dev",
	"stage",
	"staging",
	"prod",
	"beta",
	"test",
	"mail",
	"m",
	"cdn",
	"static",
	"admin",
	"portal",
}

// Wordlist expands a static list of labels under the target domain.
type Wordlist struct {
	Labels []string
}

// NewWordlist returns a *Wordlist using the built-in labels.
func NewWordlist() *Wordlist {
	return &Wordlist{Labels: append([]string(nil), commonLabels...)}
}

// LoadWordlist reads one label per line from path. Blank lines and lines
// starting with '#' are skipped.
func LoadWordlist(path string) (*Wordlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, strings.Trim(line, "."))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	return &Wordlist{Labels: labels}, nil
}

// Name returns the source name.
func (w *Wordlist) Name() string {
	return models.SourceWordlist
}

// Collect prepends every label to domain.
func (w *Wordlist) Collect(_ context.Context, domain string) []string {
	names := make([]string, 0, len(w.Labels))
	for _, label := range w.Labels {
		names = append(names, label+"."+domain)
	}
	return names
}
