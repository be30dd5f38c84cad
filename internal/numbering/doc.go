// Package numbering computes hierarchical section numbers for headings.
//
// The engine consumes a document as a flat stream of structural events and
// a starting number supplied by the surrounding book tree. It keeps one
// counter per heading level: a heading at level L increments slot L-1 and
// resets every deeper slot, so levels may jump (H1 straight to H3) without
// special handling. Headings deeper than Options.MaxDepth are ignored
// entirely.
//
//	eng := numbering.NewEngine(numbering.DefaultOptions())
//	out := eng.Number([]uint{2}, events)
//
// The engine never fails. Turning text into events and events back into text
// is left to the markdown package.
package numbering
