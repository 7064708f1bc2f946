package models

import "time"

// ScanState describes the lifecycle of a scan session.
type ScanState string

const (
	StateRunning ScanState = "running"
	StateDone    ScanState = "done"
	StateStopped ScanState = "stopped"
)

// Snapshot is a point-in-time copy of a scan session.
type Snapshot struct {
	ID         string     `json:"id"`
	Domain     string     `json:"domain"`
	State      ScanState  `json:"state"`
	Summary    string     `json:"summary"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Total      int        `json:"total"`
	Checked    int        `json:"checked"`
	Records    []Record   `json:"results"`
}

// Progress is published after each validated record.
type Progress struct {
	SessionID string
	Record    Record
	Checked   int
	Total     int
}
