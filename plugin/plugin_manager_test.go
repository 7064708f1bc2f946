package plugin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-subscout/config"
	"go-subscout/models"
	ws "go-subscout/web-scanner"
)

type memoryStore struct {
	mu    sync.Mutex
	saved []models.Settings
}

func (s *memoryStore) SaveSettings(v models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, v)
	return nil
}

func (s *memoryStore) FetchSettings() (models.Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return models.DefaultSettings(), false, nil
	}
	return s.saved[len(s.saved)-1], true, nil
}

type fakeDNS struct {
	calls int32
	fn    func(ctx context.Context, call int32, name string) bool
}

func (f *fakeDNS) Name() string { return "fake dns" }

func (f *fakeDNS) HasA(ctx context.Context, name string) bool {
	call := atomic.AddInt32(&f.calls, 1)
	if f.fn == nil {
		return true
	}
	return f.fn(ctx, call, name)
}

type fakeHTTP struct{}

func (fakeHTTP) Name() string { return "fake http" }

func (fakeHTTP) Probe(ctx context.Context, host string) ws.Result {
	if strings.HasPrefix(host, "www.") {
		return ws.Result{Status: models.StatusCode(200), Title: "Home"}
	}
	return ws.Result{}
}

func wordlistOnly(domain string) models.Settings {
	return models.Settings{
		Domain:         domain,
		MethodWordlist: true,
		Concurrency:    1,
	}
}

func waitSession(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not finish")
	}
}

func TestManager_WordlistOnlyNoValidation(t *testing.T) {
	m := NewManager(nil)

	s, err := m.Start(context.Background(), wordlistOnly("example.com"))
	require.NoError(t, err)
	waitSession(t, s)

	snap := s.Snapshot()
	assert.Equal(t, models.StateDone, snap.State)
	assert.Equal(t, "Done. 15 results.", snap.Summary)
	require.Len(t, snap.Records, 15)
	assert.Equal(t, "admin.example.com", snap.Records[0].Subdomain)
	assert.Equal(t, "www.example.com", snap.Records[14].Subdomain)
	for _, r := range snap.Records {
		assert.Equal(t, []string{models.SourceWordlist}, r.Source)
		assert.Nil(t, r.DNS)
		assert.Nil(t, r.HTTP)
	}
	assert.NotNil(t, snap.FinishedAt)
}

func TestManager_InvalidDomain(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	store := &memoryStore{}
	m := NewManager(store, WithEndpoints(config.Endpoints{CrtSh: srv.URL, BufferOver: srv.URL, DoH: srv.URL}))

	s, err := m.Start(context.Background(), models.Settings{Domain: "not a domain", MethodCrt: true})
	assert.ErrorIs(t, err, ErrInvalidDomain)
	assert.Nil(t, s)
	assert.Nil(t, m.Current())
	assert.Empty(t, store.saved)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestManager_FullScan(t *testing.T) {
	crt := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name_value":"www.example.com\n*.api.example.com"}]`))
	}))
	defer crt.Close()
	buff := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"FDNS_A":["1.2.3.4,www.example.com","1.2.3.5,mail.example.com"]}`))
	}))
	defer buff.Close()

	dnsFake := &fakeDNS{fn: func(ctx context.Context, call int32, name string) bool {
		return name != "mail.example.com"
	}}

	var mu sync.Mutex
	var progress []models.Progress
	store := &memoryStore{}

	m := NewManager(store,
		WithEndpoints(config.Endpoints{CrtSh: crt.URL, BufferOver: buff.URL}),
		WithDNSValidator(dnsFake),
		WithHTTPValidator(fakeHTTP{}),
		WithProgress(func(p models.Progress) {
			mu.Lock()
			progress = append(progress, p)
			mu.Unlock()
		}),
	)

	settings := models.Settings{
		Domain:       "https://Example.com/",
		MethodCrt:    true,
		MethodBuff:   true,
		ValidateDNS:  true,
		ValidateHTTP: true,
		Concurrency:  3,
	}
	s, err := m.Start(context.Background(), settings)
	require.NoError(t, err)
	assert.Equal(t, "example.com", s.Domain)
	waitSession(t, s)

	snap := s.Snapshot()
	assert.Equal(t, models.StateDone, snap.State)
	assert.Equal(t, "Done. 3 results.", snap.Summary)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 3, snap.Checked)
	require.Len(t, snap.Records, 3)

	api, mail, www := snap.Records[0], snap.Records[1], snap.Records[2]
	assert.Equal(t, "api.example.com", api.Subdomain)
	assert.Equal(t, []string{models.SourceCrtSh}, api.Source)
	assert.True(t, *api.DNS)
	assert.Nil(t, api.HTTP)

	assert.Equal(t, "mail.example.com", mail.Subdomain)
	assert.Equal(t, []string{models.SourceBufferOver}, mail.Source)
	assert.False(t, *mail.DNS)

	assert.Equal(t, "www.example.com", www.Subdomain)
	assert.Equal(t, []string{models.SourceCrtSh, models.SourceBufferOver}, www.Source)
	assert.Equal(t, 200, www.HTTP.Code)
	assert.Equal(t, "Home", www.Title)

	mu.Lock()
	assert.Len(t, progress, 3)
	mu.Unlock()

	// Settings were saved at scan start, as entered.
	require.Len(t, store.saved, 1)
	assert.Equal(t, "https://Example.com/", store.saved[0].Domain)
	assert.Equal(t, models.DefaultTimeout, store.saved[0].Timeout)
	assert.Equal(t, store.saved[0], m.Settings())
}

func TestManager_ResultsStaySortedRegardlessOfCompletionOrder(t *testing.T) {
	// Later items finish first.
	dnsFake := &fakeDNS{fn: func(ctx context.Context, call int32, name string) bool {
		time.Sleep(time.Duration(20-call) * time.Millisecond)
		return true
	}}
	m := NewManager(nil, WithDNSValidator(dnsFake))

	settings := wordlistOnly("example.com")
	settings.ValidateDNS = true
	settings.Concurrency = 8
	s, err := m.Start(context.Background(), settings)
	require.NoError(t, err)
	waitSession(t, s)

	snap := s.Snapshot()
	names := make([]string, 0, len(snap.Records))
	for _, r := range snap.Records {
		names = append(names, r.Subdomain)
		assert.True(t, *r.DNS)
	}
	assert.True(t, sort.StringsAreSorted(names))
	assert.Equal(t, int32(15), atomic.LoadInt32(&dnsFake.calls))
}

func TestManager_StopKeepsCompletedResults(t *testing.T) {
	blocked := make(chan struct{})
	dnsFake := &fakeDNS{fn: func(ctx context.Context, call int32, name string) bool {
		if call == 3 {
			close(blocked)
			<-ctx.Done()
			return false
		}
		return true
	}}
	m := NewManager(nil, WithDNSValidator(dnsFake))

	settings := wordlistOnly("example.com")
	settings.ValidateDNS = true
	s, err := m.Start(context.Background(), settings)
	require.NoError(t, err)

	<-blocked
	assert.Same(t, s, m.Stop())
	waitSession(t, s)
	assert.Nil(t, m.Stop())

	snap := s.Snapshot()
	assert.Equal(t, models.StateStopped, snap.State)
	assert.Equal(t, "Stopped.", snap.Summary)
	assert.Equal(t, 2, snap.Checked)
	require.Len(t, snap.Records, 15)
	assert.True(t, *snap.Records[0].DNS)
	assert.True(t, *snap.Records[1].DNS)
	for _, r := range snap.Records[2:] {
		assert.Nil(t, r.DNS, r.Subdomain)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&dnsFake.calls))
}

func TestManager_NewScanSupersedesRunning(t *testing.T) {
	started := make(chan struct{}, 1)
	dnsFake := &fakeDNS{fn: func(ctx context.Context, call int32, name string) bool {
		if strings.HasSuffix(name, ".example.com") {
			select {
			case started <- struct{}{}:
			default:
			}
			<-ctx.Done()
			return false
		}
		return true
	}}
	m := NewManager(nil, WithDNSValidator(dnsFake))

	first := wordlistOnly("example.com")
	first.ValidateDNS = true
	a, err := m.Start(context.Background(), first)
	require.NoError(t, err)
	<-started

	second := wordlistOnly("example.org")
	second.ValidateDNS = true
	b, err := m.Start(context.Background(), second)
	require.NoError(t, err)

	waitSession(t, a)
	waitSession(t, b)

	assert.Equal(t, models.StateStopped, a.State())
	assert.Equal(t, models.StateDone, b.State())
	assert.Same(t, b, m.Current())
	for _, r := range b.Snapshot().Records {
		assert.True(t, *r.DNS)
	}
}

func TestManager_LoadsPersistedSettings(t *testing.T) {
	store := &memoryStore{}
	saved := models.DefaultSettings()
	saved.Domain = "example.net"
	saved.MethodWordlist = true
	require.NoError(t, store.SaveSettings(saved))

	m := NewManager(store)
	assert.Equal(t, saved, m.Settings())
	assert.Nil(t, m.Current())
	assert.Nil(t, m.Stop())
}

func TestManager_StopReturnsStoppedSession(t *testing.T) {
	started := make(chan struct{}, 1)
	dnsFake := &fakeDNS{fn: func(ctx context.Context, call int32, name string) bool {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return false
	}}
	m := NewManager(nil, WithDNSValidator(dnsFake))

	settings := wordlistOnly("example.com")
	settings.ValidateDNS = true
	a, err := m.Start(context.Background(), settings)
	require.NoError(t, err)
	<-started

	stopped := m.Stop()
	require.NotNil(t, stopped)

	settings.Domain = "example.org"
	b, err := m.Start(context.Background(), settings)
	require.NoError(t, err)

	assert.Same(t, a, stopped)
	assert.NotSame(t, b, stopped)
	assert.Equal(t, models.StateStopped, stopped.Snapshot().State)

	assert.Same(t, b, m.Stop())
	waitSession(t, a)
	waitSession(t, b)
}
