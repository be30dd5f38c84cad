package preprocessor

import (
	"bytes"
	"encoding/json"

	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/numbering"
)

// tableOptions mirrors the [preprocessor.section-numbers] table of book.toml.
// mdBook's own keys (command, renderers, before, after) are ignored.
type tableOptions struct {
	MaxDepth     *int    `json:"max-depth"`
	ChapterLabel *string `json:"chapter-label"`
}

// OptionsFromContext overlays the book.toml table of this preprocessor on
// base. A missing table leaves base unchanged.
func OptionsFromContext(pctx *Context, base numbering.Options) (numbering.Options, error) {
	opts := base
	raw, ok := preprocessorTable(pctx)
	if !ok {
		return opts, nil
	}

	var table tableOptions
	if err := json.Unmarshal(raw, &table); err != nil {
		return opts, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid preprocessor options").
			WithContext("table", "preprocessor."+Name).
			Build()
	}
	if table.MaxDepth != nil {
		opts.MaxDepth = *table.MaxDepth
	}
	if table.ChapterLabel != nil {
		opts.ChapterLabel = *table.ChapterLabel
	}
	if err := opts.Validate(); err != nil {
		return base, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid preprocessor options").
			WithContext("table", "preprocessor."+Name).
			Build()
	}
	return opts, nil
}

func preprocessorTable(pctx *Context) (json.RawMessage, bool) {
	if pctx == nil || pctx.Config == nil {
		return nil, false
	}
	var tables map[string]json.RawMessage
	if err := json.Unmarshal(pctx.Config["preprocessor"], &tables); err != nil {
		return nil, false
	}
	raw, ok := tables[Name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}
