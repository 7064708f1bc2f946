package plugin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go-subscout/models"
)

// Session is a single scan: one cancellation, one record set and one
// summary line. Records are only touched under mu; workers hand their
// results to apply rather than writing records themselves.
type Session struct {
	ID       string
	Domain   string
	Settings models.Settings

	cancel context.CancelFunc
	done   chan struct{}

	mu         sync.RWMutex
	state      models.ScanState
	summary    string
	records    []*models.Record
	startedAt  time.Time
	finishedAt *time.Time
}

func newSession(domain string, settings models.Settings, cancel context.CancelFunc) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Domain:    domain,
		Settings:  settings,
		cancel:    cancel,
		done:      make(chan struct{}),
		state:     models.StateRunning,
		summary:   "Discovering subdomains...",
		startedAt: time.Now().UTC(),
	}
}

// Done is closed once the scan goroutine has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the scan finished or was stopped.
func (s *Session) Wait() {
	<-s.done
}

// State returns the current lifecycle state.
func (s *Session) State() models.ScanState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Summary returns the current summary line.
func (s *Session) Summary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.Snapshot{
		ID:        s.ID,
		Domain:    s.Domain,
		State:     s.state,
		Summary:   s.summary,
		StartedAt: s.startedAt,
		Total:     len(s.records),
		Checked:   s.checkedLocked(),
		Records:   make([]models.Record, 0, len(s.records)),
	}
	if s.finishedAt != nil {
		t := *s.finishedAt
		snap.FinishedAt = &t
	}
	for _, r := range s.records {
		snap.Records = append(snap.Records, r.Clone())
	}
	return snap
}

func (s *Session) setRecords(records []*models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	if s.state == models.StateRunning {
		s.summary = fmt.Sprintf("Found %d unique subdomains. Validating...", len(records))
	}
}

// update carries the validation results for one record.
type update struct {
	dns   *bool
	http  *models.HTTPStatus
	title string
}

// apply stores u on the record at idx and returns a copy of it along with
// the checked/total counters.
func (s *Session) apply(idx int, u update) (models.Record, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.records[idx]
	if u.dns != nil {
		rec.DNS = u.dns
	}
	if u.http != nil {
		rec.HTTP = u.http
		rec.Title = u.title
	}

	checked := s.checkedLocked()
	if s.state == models.StateRunning {
		s.summary = fmt.Sprintf("Scanning %s... (%d/%d)", rec.Subdomain, checked, len(s.records))
	}
	return rec.Clone(), checked, len(s.records)
}

func (s *Session) checkedLocked() int {
	n := 0
	for _, r := range s.records {
		if r.Checked() {
			n++
		}
	}
	return n
}

// stop cancels a running session. It reports false if the session had
// already ended.
func (s *Session) stop() bool {
	s.mu.Lock()
	if s.state != models.StateRunning {
		s.mu.Unlock()
		return false
	}
	s.state = models.StateStopped
	s.summary = "Stopped."
	s.mu.Unlock()

	s.cancel()
	return true
}

// finish marks the end of the scan goroutine.
func (s *Session) finish() {
	s.mu.Lock()
	now := time.Now().UTC()
	s.finishedAt = &now
	if s.state == models.StateRunning {
		s.state = models.StateDone
		s.summary = fmt.Sprintf("Done. %d results.", len(s.records))
	}
	s.mu.Unlock()

	s.cancel()
	close(s.done)
}
