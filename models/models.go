package models

import (
	"encoding/json"
	"errors"
	"strconv"
)

// Source names that can appear in Record.Source.
const (
	SourceCrtSh      = "crtsh"
	SourceBufferOver = "bufferover"
	SourceWordlist   = "wordlist"
)

// KnownSources lists every valid source name in display order.
var KnownSources = []string{SourceCrtSh, SourceBufferOver, SourceWordlist}

// IsKnownSource reports whether name is one of KnownSources.
func IsKnownSource(name string) bool {
	for _, s := range KnownSources {
		if s == name {
			return true
		}
	}
	return false
}

// Record defines the JSON structure for a single discovered subdomain.
type Record struct {
	Subdomain string      `json:"subdomain"`
	DNS       *bool       `json:"dns"`
	HTTP      *HTTPStatus `json:"http"`
	Title     string      `json:"title,omitempty"`
	Source    []string    `json:"source"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() Record {
	c := Record{
		Subdomain: r.Subdomain,
		Title:     r.Title,
		Source:    append([]string(nil), r.Source...),
	}
	if r.DNS != nil {
		v := *r.DNS
		c.DNS = &v
	}
	if r.HTTP != nil {
		v := *r.HTTP
		c.HTTP = &v
	}
	return c
}

// Checked reports whether any validation result has been recorded.
func (r *Record) Checked() bool {
	return r.DNS != nil || r.HTTP != nil
}

// HTTPStatus is the outcome of a reachability probe. It encodes to JSON
// either as the numeric status code or as the string "opaque".
type HTTPStatus struct {
	Code   int
	Opaque bool
}

const opaqueTag = "opaque"

// StatusCode returns a status holding a legible code.
func StatusCode(code int) *HTTPStatus {
	return &HTTPStatus{Code: code}
}

// OpaqueStatus returns a status for a completed but unreadable response.
func OpaqueStatus() *HTTPStatus {
	return &HTTPStatus{Opaque: true}
}

// String returns "opaque" or the decimal code.
func (h HTTPStatus) String() string {
	if h.Opaque {
		return opaqueTag
	}
	return strconv.Itoa(h.Code)
}

func (h HTTPStatus) MarshalJSON() ([]byte, error) {
	if h.Opaque {
		return json.Marshal(opaqueTag)
	}
	return json.Marshal(h.Code)
}

func (h *HTTPStatus) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag != opaqueTag {
			return errors.New("invalid http status tag: " + tag)
		}
		*h = HTTPStatus{Opaque: true}
		return nil
	}
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	*h = HTTPStatus{Code: code}
	return nil
}

// TargetInfo holds information about a target.
type TargetInfo struct {
	Raw    string
	Domain string
}
