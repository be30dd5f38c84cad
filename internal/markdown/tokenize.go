package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/secnum/internal/numbering"
)

// Tokenize parses body and flattens the AST into a stream of structural events
// in document order.
//
// Every event carries a source offset. Heading starts carry the insertion
// anchor: the first byte of the heading's inline content, or the byte after
// the opening '#' run for an empty ATX heading. The stream is an index into
// body, not a copy of it; Render uses the offsets to splice synthesized text
// back in without re-rendering anything else.
func Tokenize(body []byte, opts Options) []numbering.Event {
	root := ParseBody(body, opts)
	t := &tokenizer{src: body}

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if n.Kind() == gmast.KindDocument {
			return gmast.WalkContinue, nil
		}
		if entering {
			t.enter(n)
		} else {
			t.leave(n)
		}
		return gmast.WalkContinue, nil
	})
	return t.events
}

type tokenizer struct {
	src    []byte
	events []numbering.Event
	// cursor is the furthest source offset seen so far.
	cursor int
}

func (t *tokenizer) emit(ev numbering.Event) {
	t.events = append(t.events, ev)
}

func (t *tokenizer) advance(pos int) {
	if pos > t.cursor {
		t.cursor = pos
	}
}

func (t *tokenizer) enter(n gmast.Node) {
	switch node := n.(type) {
	case *gmast.Heading:
		anchor := t.headingAnchor(node)
		t.emit(numbering.Event{Kind: numbering.KindHeadingStart, Level: node.Level, Pos: anchor})
		t.advance(anchor)
	case *gmast.Text:
		seg := node.Segment
		t.emit(numbering.Event{Kind: numbering.KindText, Text: string(seg.Value(t.src)), Pos: seg.Start})
		t.advance(seg.Stop)
	case *gmast.String:
		t.emit(numbering.Event{Kind: numbering.KindText, Text: string(node.Value), Pos: t.cursor})
	default:
		t.emit(numbering.Event{Kind: numbering.KindStart, Node: n.Kind().String(), Pos: t.blockStart(n)})
		if isRawBlock(n) {
			t.emitLines(n.Lines())
		}
	}
}

func (t *tokenizer) leave(n gmast.Node) {
	if n.Type() == gmast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			t.advance(lines.At(lines.Len() - 1).Stop)
		}
	}
	switch node := n.(type) {
	case *gmast.Heading:
		t.emit(numbering.Event{Kind: numbering.KindHeadingEnd, Level: node.Level, Pos: t.cursor})
	case *gmast.Text, *gmast.String:
		// Text events have no closing counterpart.
	default:
		t.emit(numbering.Event{Kind: numbering.KindEnd, Node: n.Kind().String(), Pos: t.cursor})
	}
}

// emitLines reports the raw content lines of code and HTML blocks as text.
func (t *tokenizer) emitLines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		t.emit(numbering.Event{Kind: numbering.KindText, Text: string(seg.Value(t.src)), Pos: seg.Start})
		t.advance(seg.Stop)
	}
}

func (t *tokenizer) blockStart(n gmast.Node) int {
	if n.Type() == gmast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start
		}
	}
	return t.cursor
}

func (t *tokenizer) headingAnchor(h *gmast.Heading) int {
	if lines := h.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start
	}
	return emptyHeadingAnchor(t.src, t.cursor, h.Level)
}

func isRawBlock(n gmast.Node) bool {
	switch n.(type) {
	case *gmast.CodeBlock, *gmast.FencedCodeBlock, *gmast.HTMLBlock:
		return true
	default:
		return false
	}
}

// emptyHeadingAnchor locates the ATX opener of an empty heading at level,
// scanning whole lines from the line after from. It returns the offset just
// past the '#' run, or from when no opener is found.
func emptyHeadingAnchor(src []byte, from, level int) int {
	i := from
	if i > 0 && i <= len(src) && src[i-1] != '\n' {
		for i < len(src) && src[i] != '\n' {
			i++
		}
		i++
	}

	for i < len(src) {
		j := i
		for j < len(src) && isContainerPrefix(src[j]) {
			j++
		}
		run := 0
		for j+run < len(src) && src[j+run] == '#' {
			run++
		}
		end := j + run
		if run == level && (end == len(src) || isHeadingTerminator(src[end])) {
			return end
		}
		for i < len(src) && src[i] != '\n' {
			i++
		}
		i++
	}
	return from
}

// isContainerPrefix matches indentation, blockquote markers and list markers
// that may precede an ATX heading on its line.
func isContainerPrefix(b byte) bool {
	switch b {
	case ' ', '\t', '>', '-', '*', '+', '.', ')':
		return true
	default:
		return b >= '0' && b <= '9'
	}
}

func isHeadingTerminator(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
