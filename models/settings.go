package models

import "time"

// Default form values.
const (
	DefaultConcurrency = 8
	DefaultDelay       = 150
	DefaultTimeout     = 4000
)

// Settings defines the possible configurations that end users can set.
// Field names follow the persisted form layout.
type Settings struct {
	Domain         string `json:"domain"`
	MethodCrt      bool   `json:"methodCrt"`
	MethodBuff     bool   `json:"methodBuff"`
	MethodWordlist bool   `json:"methodWordlist"`
	ValidateDNS    bool   `json:"validateDns"`
	ValidateHTTP   bool   `json:"validateHttp"`
	Concurrency    int    `json:"concurrency"`
	Delay          int    `json:"delay"`   // Milliseconds between items per worker.
	Timeout        int    `json:"timeout"` // Milliseconds per request.
	RateLimit      int    `json:"rateLimit,omitempty"`
}

// DefaultSettings returns the settings used before anything was saved.
func DefaultSettings() Settings {
	return Settings{
		MethodCrt:    true,
		MethodBuff:   true,
		ValidateDNS:  true,
		ValidateHTTP: true,
		Concurrency:  DefaultConcurrency,
		Delay:        DefaultDelay,
		Timeout:      DefaultTimeout,
	}
}

// Normalized fills non-positive numbers with their defaults.
// A zero delay is kept since it disables throttling.
func (s Settings) Normalized() Settings {
	if s.Concurrency <= 0 {
		s.Concurrency = DefaultConcurrency
	}
	if s.Delay < 0 {
		s.Delay = 0
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.RateLimit < 0 {
		s.RateLimit = 0
	}
	return s
}

// TimeoutDuration returns Timeout as a time.Duration.
func (s Settings) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Millisecond
}

// DelayDuration returns Delay as a time.Duration.
func (s Settings) DelayDuration() time.Duration {
	return time.Duration(s.Delay) * time.Millisecond
}
