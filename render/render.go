package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"go-subscout/models"
)

// Tone classifies a badge.
type Tone int

const (
	ToneWarn Tone = iota
	ToneGood
	ToneBad
)

var (
	good = color.New(color.FgGreen, color.Bold)
	bad  = color.New(color.FgRed, color.Bold)
	warn = color.New(color.FgYellow)
)

// Badge returns the label and tone shown for a validation value:
// true/false as OK/NO, an opaque response as OPAQUE, a status code as is,
// and anything else as a placeholder.
func Badge(v any) (string, Tone) {
	switch val := v.(type) {
	case bool:
		if val {
			return "OK", ToneGood
		}
		return "NO", ToneBad
	case *bool:
		if val != nil {
			return Badge(*val)
		}
	case models.HTTPStatus:
		if val.Opaque {
			return "OPAQUE", ToneWarn
		}
		return fmt.Sprint(val.Code), ToneGood
	case *models.HTTPStatus:
		if val != nil {
			return Badge(*val)
		}
	case int:
		return fmt.Sprint(val), ToneGood
	}
	return "-", ToneWarn
}

// Colorize returns the badge label wrapped in its tone's color.
func Colorize(v any) string {
	label, tone := Badge(v)
	return paint(label, tone)
}

func paint(text string, tone Tone) string {
	switch tone {
	case ToneGood:
		return good.Sprint(text)
	case ToneBad:
		return bad.Sprint(text)
	}
	return warn.Sprint(text)
}

// columnGap separates table columns.
const columnGap = "  "

type badgeCell struct {
	label string
	tone  Tone
}

// Table writes records as an aligned table with colored badges. Widths are
// measured on the plain labels, so color escapes never shift a column.
func Table(w io.Writer, records []models.Record) error {
	subWidth, dnsWidth, httpWidth := len("SUBDOMAIN"), len("DNS"), len("HTTP")

	type row struct {
		sub       string
		dns, http badgeCell
		source    string
	}
	rows := make([]row, 0, len(records))
	for _, r := range records {
		dl, dt := Badge(r.DNS)
		hl, ht := Badge(r.HTTP)
		rows = append(rows, row{
			sub:    r.Subdomain,
			dns:    badgeCell{dl, dt},
			http:   badgeCell{hl, ht},
			source: strings.Join(r.Source, ", "),
		})
		subWidth = max(subWidth, utf8.RuneCountInString(r.Subdomain))
		dnsWidth = max(dnsWidth, len(dl))
		httpWidth = max(httpWidth, len(hl))
	}

	var b strings.Builder
	b.WriteString(pad("SUBDOMAIN", subWidth) + columnGap + pad("DNS", dnsWidth) + columnGap + pad("HTTP", httpWidth) + columnGap + "SOURCE\n")
	for _, r := range rows {
		b.WriteString(pad(r.sub, subWidth) + columnGap)
		b.WriteString(paint(r.dns.label, r.dns.tone) + spaces(dnsWidth-len(r.dns.label)) + columnGap)
		b.WriteString(paint(r.http.label, r.http.tone) + spaces(httpWidth-len(r.http.label)) + columnGap)
		b.WriteString(r.source + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func pad(s string, width int) string {
	return s + spaces(width-utf8.RuneCountInString(s))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
