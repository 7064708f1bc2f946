package plugin

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go-subscout/config"
	dns "go-subscout/dns-resolver"
	"go-subscout/fetch"
	"go-subscout/models"
	"go-subscout/queue"
	"go-subscout/sources"
	ws "go-subscout/web-scanner"
)

// Manager owns the scan sessions. Starting a scan cancels the previous one.
type Manager struct {
	store      SettingsStore
	endpoints  config.Endpoints
	userAgent  string
	wordlist   *sources.Wordlist
	httpClient *http.Client
	dns        DNSValidator
	web        HTTPValidator
	onProgress func(models.Progress)

	mu       sync.Mutex
	settings models.Settings
	current  *Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithEndpoints sets the upstream service URLs.
func WithEndpoints(e config.Endpoints) Option {
	return func(m *Manager) { m.endpoints = e }
}

// WithUserAgent sets the User-Agent sent upstream.
func WithUserAgent(ua string) Option {
	return func(m *Manager) { m.userAgent = ua }
}

// WithWordlist replaces the built-in wordlist.
func WithWordlist(w *sources.Wordlist) Option {
	return func(m *Manager) { m.wordlist = w }
}

// WithHTTPClient sets the client used by the reachability probe.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// WithDNSValidator replaces the DNS-over-HTTPS validator.
func WithDNSValidator(v DNSValidator) Option {
	return func(m *Manager) { m.dns = v }
}

// WithHTTPValidator replaces the HTTPS reachability validator.
func WithHTTPValidator(v HTTPValidator) Option {
	return func(m *Manager) { m.web = v }
}

// WithProgress registers a callback invoked after every validated record.
// It runs on worker goroutines and must not block.
func WithProgress(fn func(models.Progress)) Option {
	return func(m *Manager) { m.onProgress = fn }
}

// NewManager initializes a new *Manager with the last used settings.
// store may be nil, in which case nothing is persisted.
func NewManager(store SettingsStore, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		endpoints: config.Default().Endpoints,
		wordlist:  sources.NewWordlist(),
		settings:  models.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.init()
	return m
}

// init loads the last used settings.
func (m *Manager) init() {
	if m.store == nil {
		return
	}
	settings, found, err := m.store.FetchSettings()
	if err != nil {
		logrus.Errorf("couldn't load settings: %v", err)
		return
	}
	if found {
		m.settings = settings
	}
}

// Settings returns the last used settings.
func (m *Manager) Settings() models.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Current returns the latest session, or nil if none was started.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Start validates the domain, saves the settings and launches a new scan
// in the background, cancelling any scan still in flight. An invalid domain
// returns ErrInvalidDomain without touching the network.
func (m *Manager) Start(ctx context.Context, settings models.Settings) (*Session, error) {
	target, err := ParseTarget(settings.Domain)
	if err != nil {
		return nil, err
	}
	settings = settings.Normalized()

	if m.store != nil {
		if err := m.store.SaveSettings(settings); err != nil {
			logrus.Errorf("couldn't save settings: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	s := newSession(target.Domain, settings, cancel)

	m.mu.Lock()
	if m.current != nil && m.current.stop() {
		logrus.Infof("Superseded scan %s of %s", m.current.ID, m.current.Domain)
	}
	m.current = s
	m.settings = settings
	m.mu.Unlock()

	srcs := m.sourcesFor(settings)
	go m.run(ctx, s, srcs)
	return s, nil
}

// Stop cancels the running scan and returns it, or nil when no scan was
// running. Completed records keep their results.
func (m *Manager) Stop() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || !m.current.stop() {
		return nil
	}
	return m.current
}

// sourcesFor returns the enabled sources in their fixed order.
func (m *Manager) sourcesFor(s models.Settings) []sources.Source {
	client := fetch.New(m.userAgent)
	timeout := s.TimeoutDuration()

	var srcs []sources.Source
	if s.MethodCrt {
		srcs = append(srcs, sources.NewCrtSh(client, m.endpoints.CrtSh, timeout))
	}
	if s.MethodBuff {
		srcs = append(srcs, sources.NewBufferOver(client, m.endpoints.BufferOver, timeout))
	}
	if s.MethodWordlist {
		srcs = append(srcs, m.wordlist)
	}
	return srcs
}

// validatorsFor returns the enabled validators; either may be nil.
func (m *Manager) validatorsFor(s models.Settings) (DNSValidator, HTTPValidator) {
	var dv DNSValidator
	var hv HTTPValidator
	if s.ValidateDNS {
		dv = m.dns
		if dv == nil {
			dv = dns.New(fetch.New(m.userAgent), m.endpoints.DoH, s.TimeoutDuration())
		}
	}
	if s.ValidateHTTP {
		hv = m.web
		if hv == nil {
			hv = ws.New(m.httpClient, m.userAgent, s.TimeoutDuration())
		}
	}
	return dv, hv
}

// run discovers, merges and validates in the background.
func (m *Manager) run(ctx context.Context, s *Session, srcs []sources.Source) {
	defer s.finish()

	start := time.Now()
	logrus.Infof("Scanning target: %s", s.Domain)

	records := sources.Merge(sources.CollectAll(ctx, s.Domain, srcs))
	s.setRecords(records)

	dv, hv := m.validatorsFor(s.Settings)
	if dv == nil && hv == nil {
		logrus.Infof("Found %d subdomains for %s in %v", len(records), s.Domain, time.Since(start))
		return
	}

	worker := func(ctx context.Context, idx int, rec *models.Record) int {
		var u update
		if dv != nil {
			ok := dv.HasA(ctx, rec.Subdomain)
			u.dns = &ok
		}
		if hv != nil {
			res := hv.Probe(ctx, rec.Subdomain)
			u.http, u.title = res.Status, res.Title
		}
		// An abort makes the outcome inconclusive; leave the record unresolved.
		if ctx.Err() != nil {
			return idx
		}

		snap, checked, total := s.apply(idx, u)
		if m.onProgress != nil {
			m.onProgress(models.Progress{SessionID: s.ID, Record: snap, Checked: checked, Total: total})
		}
		return idx
	}

	queue.Run(ctx, records, worker, queue.Options{
		Concurrency: s.Settings.Concurrency,
		Delay:       s.Settings.DelayDuration(),
		RateLimit:   s.Settings.RateLimit,
	})

	logrus.Infof("Validated %d subdomains for %s in %v", len(records), s.Domain, time.Since(start))
}
