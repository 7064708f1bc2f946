package sources

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go-subscout/fetch"
)

// Source defines a producer of candidate subdomains.
// Collect never fails: any error is reported as an empty list.
type Source interface {
	Name() string
	Collect(ctx context.Context, domain string) []string
}

// Batch holds the names a single source produced.
type Batch struct {
	Source string
	Names  []string
}

// httpSource is the shared part of the network-backed sources.
type httpSource struct {
	client  *fetch.Client
	baseURL string
	timeout time.Duration
}

// CollectAll runs every source concurrently and returns their batches in
// the same order as srcs.
func CollectAll(ctx context.Context, domain string, srcs []Source) []Batch {
	batches := make([]Batch, len(srcs))

	var wg sync.WaitGroup
	for i, s := range srcs {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()

			start := time.Now()
			names := s.Collect(ctx, domain)
			logrus.Infof("%s returned %d names for %s in %v", s.Name(), len(names), domain, time.Since(start))
			batches[idx] = Batch{Source: s.Name(), Names: names}
		}(i, s)
	}
	wg.Wait()

	return batches
}

// nameSet keeps names unique in first-seen order.
type nameSet struct {
	seen  map[string]struct{}
	names []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]struct{})}
}

// add lower-cases name and keeps it when it belongs to domain.
func (s *nameSet) add(name, domain string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || !strings.HasSuffix(name, domain) {
		return
	}
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
}

func (s *nameSet) list() []string {
	if s.names == nil {
		return []string{}
	}
	return s.names
}
