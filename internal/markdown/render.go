package markdown

import (
	"errors"
	"strings"

	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/numbering"
)

var (
	// ErrUnanchoredText indicates a synthesized text event that does not
	// directly follow a heading start read from the source body.
	ErrUnanchoredText = errors.New("synthesized text is not anchored to a heading")

	// ErrUnsupportedEvent indicates a synthesized event other than text.
	ErrUnsupportedEvent = errors.New("only synthesized text events can be rendered")
)

// Render serializes events produced by Tokenize(body) back to Markdown.
//
// Events read from body are not re-rendered: the output is body with every
// synthesized text event spliced in at the anchor of the heading start that
// precedes it. Unrelated content therefore round-trips byte for byte.
func Render(body []byte, events []numbering.Event) ([]byte, error) {
	edits, err := RenderEdits(body, events)
	if err != nil {
		return nil, err
	}
	return ApplyEdits(body, edits)
}

// RenderEdits returns the zero-width inserts Render would apply to body.
// Consecutive synthesized text events after one heading start share an edit.
// Whitespace-only text opening an insert, such as the separator after an
// elided number, is dropped so the heading stays byte-identical.
func RenderEdits(body []byte, events []numbering.Event) ([]Edit, error) {
	var edits []Edit
	anchor := numbering.NoPos
	current := -1

	for i, ev := range events {
		if !ev.Synthesized() {
			anchor = numbering.NoPos
			if ev.Kind == numbering.KindHeadingStart {
				anchor = ev.Pos
			}
			current = -1
			continue
		}

		if ev.Kind != numbering.KindText {
			return nil, renderError(ErrUnsupportedEvent, i, ev)
		}
		if anchor == numbering.NoPos || anchor > len(body) {
			return nil, renderError(ErrUnanchoredText, i, ev)
		}

		if current >= 0 {
			edits[current].Replacement = append(edits[current].Replacement, ev.Text...)
			continue
		}
		if strings.TrimSpace(ev.Text) == "" {
			continue
		}
		replacement := []byte(ev.Text)
		if anchor > 0 && body[anchor-1] == '#' {
			replacement = append([]byte{' '}, replacement...)
		}
		edits = append(edits, Edit{Start: anchor, End: anchor, Replacement: replacement})
		current = len(edits) - 1
	}
	return edits, nil
}

func renderError(cause error, index int, ev numbering.Event) error {
	return ferrors.WrapError(cause, ferrors.CategoryValidation, "cannot render event stream").
		WithContext("index", index).
		WithContext("kind", ev.Kind.String()).
		Build()
}

// NumberBody numbers the headings of a Markdown body.
//
// It returns the rewritten body together with the number assigned to every
// numbered heading. An empty start returns body unchanged.
func NumberBody(body []byte, start []uint, eng *numbering.Engine, opts Options) ([]byte, []numbering.Assignment, error) {
	edits, assignments, err := NumberEdits(body, start, eng, opts)
	if err != nil {
		return nil, nil, err
	}
	if len(edits) == 0 {
		return body, assignments, nil
	}
	out, err := ApplyEdits(body, edits)
	if err != nil {
		return nil, nil, err
	}
	return out, assignments, nil
}

// NumberEdits is NumberBody without the final splice: it returns the edits
// that insert the section numbers into body.
func NumberEdits(body []byte, start []uint, eng *numbering.Engine, opts Options) ([]Edit, []numbering.Assignment, error) {
	if len(start) == 0 {
		return nil, nil, nil
	}
	events := Tokenize(body, opts)
	assignments := eng.Headings(start, events)
	if len(assignments) == 0 {
		return nil, nil, nil
	}
	edits, err := RenderEdits(body, eng.Number(start, events))
	if err != nil {
		return nil, nil, err
	}
	return edits, assignments, nil
}
