package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Chapter", KeyChapter, "Intro", Chapter("Intro")},
		{"Path", KeyPath, "intro.md", Path("intro.md")},
		{"Renderer", KeyRenderer, "html", Renderer("html")},
		{"Category", KeyCategory, "processing", Category("processing")},
		{"SectionNumber", KeySectionNumber, "2.10.0", SectionNumber([]uint{2, 10, 0})},
		{"EmptySectionNumber", KeySectionNumber, "", SectionNumber(nil)},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if got := c.attr.Value.String(); got != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, got, c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Headings(3); a.Key != KeyHeadings || a.Value.Int64() != 3 {
		t.Fatalf("unexpected headings attr %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr %v", a)
	}
}
