package numbering

import (
	"strconv"
	"strings"
)

// counterHeadroom is the number of zero slots kept beyond the numbered depth.
const counterHeadroom = 8

// Counters holds the running tally of headings per level. Slot 0 is level 1.
type Counters []uint

// NewCounters seeds counters from a chapter's starting number.
//
// The final component is decremented (saturating at zero) because the first
// heading at that level increments it back. An empty start disables numbering
// and ok is false.
func NewCounters(start []uint, maxDepth int) (c Counters, ok bool) {
	if len(start) == 0 {
		return nil, false
	}

	size := max(len(start), maxDepth) + counterHeadroom
	c = make(Counters, size)
	copy(c, start)
	last := len(start) - 1
	if c[last] > 0 {
		c[last]--
	}
	return c, true
}

// Advance records a heading at level: the level's slot is incremented and
// every deeper slot is reset.
func (c *Counters) Advance(level int) {
	if level < 1 {
		return
	}
	if level > len(*c) {
		grown := make(Counters, level+counterHeadroom)
		copy(grown, *c)
		*c = grown
	}
	s := *c
	s[level-1]++
	clear(s[level:])
}

// Join renders the first level slots as a dotted number.
func (c Counters) Join(level int) string {
	if level > len(c) {
		level = len(c)
	}
	parts := make([]string, level)
	for i := range level {
		parts[i] = strconv.FormatUint(uint64(c[i]), 10)
	}
	return strings.Join(parts, ".")
}

// Clone returns an independent copy.
func (c Counters) Clone() Counters {
	return append(Counters(nil), c...)
}
