package numbering

import "fmt"

// Format renders the number for a heading at level from the current counters.
//
// Top-level headings read "Chapter N: " except the very first one of a range
// (N == 1), which gets no prefix. Deeper headings join their ancestors' slots
// with dots, e.g. "2.3.1".
func Format(c Counters, level int, opts Options) string {
	opts = opts.withDefaults()
	if level == 1 {
		if len(c) == 0 || c[0] == 1 {
			return ""
		}
		return fmt.Sprintf("%s %d: ", opts.ChapterLabel, c[0])
	}
	return c.Join(level)
}
