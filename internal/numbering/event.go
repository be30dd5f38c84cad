package numbering

// Kind identifies the variant of an Event.
type Kind uint8

const (
	// KindHeadingStart opens a heading; Level is set.
	KindHeadingStart Kind = iota + 1
	// KindHeadingEnd closes a heading; Level is set.
	KindHeadingEnd
	// KindText is a run of inline text.
	KindText
	// KindStart opens any other node. Node names the node kind.
	KindStart
	// KindEnd closes any other node.
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindHeadingStart:
		return "heading_start"
	case KindHeadingEnd:
		return "heading_end"
	case KindText:
		return "text"
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// NoPos marks an event that has no position in the source body.
const NoPos = -1

// Event is one structural unit of a document's token stream.
//
// Events produced by a tokenizer carry the byte offset they were read from in
// Pos. For heading starts Pos is the insertion anchor: the offset where text
// prefixing the heading content belongs. Events synthesized by the engine use
// NoPos.
type Event struct {
	Kind  Kind
	Level int
	Node  string
	Text  string
	Pos   int
}

// HeadingStart returns a heading start event without a source position.
func HeadingStart(level int) Event {
	return Event{Kind: KindHeadingStart, Level: level, Pos: NoPos}
}

// HeadingEnd returns a heading end event without a source position.
func HeadingEnd(level int) Event {
	return Event{Kind: KindHeadingEnd, Level: level, Pos: NoPos}
}

// Text returns a synthesized text event.
func Text(s string) Event {
	return Event{Kind: KindText, Text: s, Pos: NoPos}
}

// Start returns an opaque node start event.
func Start(node string) Event {
	return Event{Kind: KindStart, Node: node, Pos: NoPos}
}

// End returns an opaque node end event.
func End(node string) Event {
	return Event{Kind: KindEnd, Node: node, Pos: NoPos}
}

// Synthesized reports whether the event was not read from a source body.
func (e Event) Synthesized() bool {
	return e.Pos == NoPos
}
