package plugin

import (
	"errors"
	"regexp"
	"strings"

	"go-subscout/models"
)

// InvalidDomainMessage is shown when a submitted domain is rejected.
const InvalidDomainMessage = "Enter a valid domain, e.g. example.com"

var (
	// ErrInvalidDomain is returned when a domain fails validation.
	ErrInvalidDomain = errors.New(InvalidDomainMessage)
	// ErrNoSession is returned when no scan was started yet.
	ErrNoSession = errors.New("no scan session")
	// ErrScanRunning is returned when results are requested mid-scan.
	ErrScanRunning = errors.New("scan still running")
)

var domainPattern = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)

// NormalizeDomain trims and lower-cases raw, then strips a leading
// http(s):// scheme and a single trailing slash.
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(d, "https://") {
		d = strings.TrimPrefix(d, "https://")
	} else {
		d = strings.TrimPrefix(d, "http://")
	}
	return strings.TrimSuffix(d, "/")
}

// IsValidDomain reports whether d looks like a host name ending in a
// suffix of two or more letters.
func IsValidDomain(d string) bool {
	return domainPattern.MatchString(d)
}

// ParseTarget normalizes and validates a user supplied domain.
func ParseTarget(raw string) (models.TargetInfo, error) {
	domain := NormalizeDomain(raw)
	if !IsValidDomain(domain) {
		return models.TargetInfo{}, ErrInvalidDomain
	}

	return models.TargetInfo{
		Raw:    raw,
		Domain: domain,
	}, nil
}
