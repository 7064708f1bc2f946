package plugin

import (
	"context"

	"go-subscout/models"
	ws "go-subscout/web-scanner"
)

// SettingsStore persists the form settings between runs.
type SettingsStore interface {
	SaveSettings(s models.Settings) error
	FetchSettings() (models.Settings, bool, error)
}

// DNSValidator checks whether a subdomain resolves.
type DNSValidator interface {
	Name() string
	HasA(ctx context.Context, name string) bool
}

// HTTPValidator checks whether a subdomain answers over HTTPS.
type HTTPValidator interface {
	Name() string
	Probe(ctx context.Context, host string) ws.Result
}
