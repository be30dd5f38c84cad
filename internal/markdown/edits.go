package markdown

import (
	"errors"
	"sort"

	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
)

// Edit represents a targeted byte-range replacement.
//
// Start and End are byte offsets into the original source, with End exclusive.
// Replacement replaces source[Start:End]. Start == End inserts Replacement.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ErrOverlappingEdits is returned when two edits touch the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edit ranges")

// ApplyEdits applies a set of byte-range edits to source and returns the updated content.
//
// Edits must be non-overlapping and refer to offsets in the original source.
// Two inserts at the same offset are applied in the order given.
// The source slice is never modified.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	grow := 0
	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(source) {
			return nil, ferrors.NewError(ferrors.CategoryValidation, "invalid edit range").
				WithContext("edit", i).
				WithContext("start", e.Start).
				WithContext("end", e.End).
				Build()
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return nil, ferrors.WrapError(ErrOverlappingEdits, ferrors.CategoryValidation, "invalid edits").
				WithContext("edit", i).
				Build()
		}
		grow += len(e.Replacement) - (e.End - e.Start)
	}

	out := make([]byte, 0, len(source)+max(grow, 0))
	prev := 0
	for _, e := range sorted {
		out = append(out, source[prev:e.Start]...)
		out = append(out, e.Replacement...)
		prev = e.End
	}
	out = append(out, source[prev:]...)
	return out, nil
}
