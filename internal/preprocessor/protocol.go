// Package preprocessor implements the mdBook preprocessor protocol around the
// section numbering engine.
//
// mdBook runs the preprocessor twice: once as `<cmd> supports <renderer>`,
// where exit status 0 means the renderer is supported, and once with a JSON
// array [context, book] on stdin. The (possibly modified) book is written back
// as JSON on stdout. Anything else the process prints must go to stderr.
package preprocessor

import (
	"encoding/json"
	"io"
	"strings"

	"git.home.luguber.info/inful/secnum/internal/book"
	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
)

// Name is the preprocessor's name, i.e. its table in book.toml.
const Name = "section-numbers"

// MdbookVersion is the mdBook release line the book model was written against.
const MdbookVersion = "0.4"

// Context is the preprocessor context mdBook passes alongside the book.
type Context struct {
	Root string `json:"root"`

	// Config is book.toml converted to JSON, keyed by top-level table.
	Config        map[string]json.RawMessage `json:"config"`
	Renderer      string                     `json:"renderer"`
	MdbookVersion string                     `json:"mdbook_version"`
}

// ParseInput decodes the [context, book] pair mdBook writes to stdin.
func ParseInput(r io.Reader) (*Context, *book.Book, error) {
	var pair []json.RawMessage
	if err := json.NewDecoder(r).Decode(&pair); err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryProtocol, "failed to decode preprocessor input").Build()
	}
	if len(pair) != 2 {
		return nil, nil, ferrors.ProtocolError("preprocessor input must be a [context, book] array").
			WithContext("elements", len(pair)).
			Build()
	}

	var pctx Context
	if err := json.Unmarshal(pair[0], &pctx); err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryProtocol, "failed to decode preprocessor context").Build()
	}
	var b book.Book
	if err := json.Unmarshal(pair[1], &b); err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryProtocol, "failed to decode book").Build()
	}
	return &pctx, &b, nil
}

// WriteOutput encodes b as the preprocessor's response.
func WriteOutput(w io.Writer, b *book.Book) error {
	if err := json.NewEncoder(w).Encode(b); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryProtocol, "failed to encode book").Build()
	}
	return nil
}

// Supports reports whether the preprocessor can run for a renderer. Section
// numbers are plain Markdown text, so every renderer is supported.
func Supports(_ string) bool {
	return true
}

// VersionMatches reports whether an mdBook version string belongs to the
// release line in MdbookVersion. Only major.minor is compared.
func VersionMatches(version string) bool {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	return v == MdbookVersion || strings.HasPrefix(v, MdbookVersion+".")
}
