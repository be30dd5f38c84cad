package numbering

// Engine assigns hierarchical section numbers to headings in an event stream.
//
// An Engine holds only policy; every call owns its counters, so one Engine may
// be shared between goroutines numbering different documents.
type Engine struct {
	opts Options
}

// NewEngine returns an engine for opts. Zero fields take their defaults.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options returns the effective policy.
func (e *Engine) Options() Options {
	return e.opts
}

// Assignment is the number given to one heading.
type Assignment struct {
	// Index is the position of the heading start in the input stream.
	Index  int
	Level  int
	Number string
}

// Number returns a new stream with a text event inserted directly after every
// numbered heading start. All input events are kept in order. The inserted
// text is the formatted number plus a separator space, so an elided number
// yields a lone space.
//
// An empty start disables numbering and the input is returned unchanged.
func (e *Engine) Number(start []uint, events []Event) []Event {
	assignments := e.Headings(start, events)
	if len(assignments) == 0 {
		return events
	}

	out := make([]Event, 0, len(events)+len(assignments))
	next := 0
	for i, ev := range events {
		out = append(out, ev)
		if next < len(assignments) && assignments[next].Index == i {
			out = append(out, Text(assignments[next].Number+" "))
			next++
		}
	}
	return out
}

// Headings runs the numbering pass and reports the assignment for every
// heading within the numbered depth, in document order.
func (e *Engine) Headings(start []uint, events []Event) []Assignment {
	counters, ok := NewCounters(start, e.opts.MaxDepth)
	if !ok {
		return nil
	}

	var out []Assignment
	for i, ev := range events {
		if ev.Kind != KindHeadingStart {
			continue
		}
		if ev.Level < 1 || ev.Level > e.opts.MaxDepth {
			continue
		}
		counters.Advance(ev.Level)
		out = append(out, Assignment{
			Index:  i,
			Level:  ev.Level,
			Number: Format(counters, ev.Level, e.opts),
		})
	}
	return out
}
