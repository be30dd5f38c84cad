package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Options controls how Markdown is parsed into events.
type Options struct {
	// GFM enables GitHub Flavored Markdown (tables, strikethrough, task
	// lists, autolinks), matching what mdBook renders by default.
	GFM bool
	// Footnotes enables footnote syntax.
	Footnotes bool
}

// BookOptions returns the parser settings used for mdBook chapters.
func BookOptions() Options {
	return Options{GFM: true, Footnotes: true}
}

func newMarkdown(opts Options) goldmark.Markdown {
	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}
	if opts.Footnotes {
		exts = append(exts, extension.Footnote)
	}
	return goldmark.New(goldmark.WithExtensions(exts...))
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func ParseBody(body []byte, opts Options) gmast.Node {
	return newMarkdown(opts).Parser().Parse(text.NewReader(body))
}
