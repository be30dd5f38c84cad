package logfields

import (
	"log/slog"
	"strconv"
	"strings"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID         = "run_id"
	KeyChapter       = "chapter"
	KeyPath          = "path"
	KeySectionNumber = "section_number"
	KeyRenderer      = "renderer"
	KeyHeadings      = "headings"
	KeyDurationMS    = "duration_ms"
	KeyError         = "error"
	KeyMdbookVersion = "mdbook_version"
	KeyCategory      = "category"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Chapter(name string) slog.Attr    { return slog.String(KeyChapter, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Renderer(r string) slog.Attr      { return slog.String(KeyRenderer, r) }
func Headings(n int) slog.Attr         { return slog.Int(KeyHeadings, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func MdbookVersion(v string) slog.Attr { return slog.String(KeyMdbookVersion, v) }
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }

// SectionNumber renders a starting number as "2.1".
func SectionNumber(n []uint) slog.Attr {
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return slog.String(KeySectionNumber, strings.Join(parts, "."))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
