// Package book models the book tree exchanged with mdBook preprocessors.
//
// The JSON shape follows mdBook's serialization: book items are externally
// tagged ({"Chapter": {...}}, "Separator", {"PartTitle": "..."}). Fields this
// package does not know about are kept and written back unchanged, so a newer
// mdBook can add fields without them being dropped on the way through.
package book

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Book is the root of an mdBook book.
type Book struct {
	Sections []Item

	extra map[string]json.RawMessage
}

// ItemKind discriminates the variants of Item.
type ItemKind int

const (
	ItemChapter ItemKind = iota
	ItemSeparator
	ItemPartTitle
	// ItemUnknown holds a variant this package does not understand. It is
	// written back verbatim.
	ItemUnknown
)

// Item is one entry of a book's table of contents.
type Item struct {
	Kind      ItemKind
	Chapter   *Chapter
	PartTitle string

	raw json.RawMessage
}

// Chapter is a single page of the book.
type Chapter struct {
	Name    string
	Content string
	// Number is the section number mdBook assigned from SUMMARY.md. It is nil
	// for unnumbered (prefix/suffix) chapters.
	Number      SectionNumber
	SubItems    []Item
	Path        *string
	SourcePath  *string
	ParentNames []string

	extra map[string]json.RawMessage
}

// IsDraft reports whether the chapter is a draft: listed in SUMMARY.md
// without a backing file.
func (c *Chapter) IsDraft() bool {
	return c.Path == nil
}

// SectionNumber is a chapter's position in the table of contents, e.g. 2.1.
type SectionNumber []uint

// String renders the number the way mdBook prints it: "2.1.".
func (n SectionNumber) String() string {
	var b strings.Builder
	for _, v := range n {
		b.WriteString(strconv.FormatUint(uint64(v), 10))
		b.WriteByte('.')
	}
	return b.String()
}

// ParseSectionNumber parses "2.1", "2.1." or "2" into a SectionNumber.
func ParseSectionNumber(s string) (SectionNumber, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	if s == "" {
		return SectionNumber{}, nil
	}
	parts := strings.Split(s, ".")
	out := make(SectionNumber, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid section number %q: %w", s, err)
		}
		out[i] = uint(v)
	}
	return out, nil
}

// NewChapter returns a numbered chapter backed by path.
func NewChapter(name, content, path string, number SectionNumber) *Chapter {
	p := path
	sp := path
	return &Chapter{
		Name:        name,
		Content:     content,
		Number:      number,
		Path:        &p,
		SourcePath:  &sp,
		ParentNames: []string{},
	}
}

// ChapterItem wraps ch in an Item.
func ChapterItem(ch *Chapter) Item {
	return Item{Kind: ItemChapter, Chapter: ch}
}

// Walk calls fn for every chapter in depth-first pre-order. Walking stops at
// the first error fn returns.
func (b *Book) Walk(fn func(*Chapter) error) error {
	return walkItems(b.Sections, fn)
}

func walkItems(items []Item, fn func(*Chapter) error) error {
	for i := range items {
		ch := items[i].Chapter
		if items[i].Kind != ItemChapter || ch == nil {
			continue
		}
		if err := fn(ch); err != nil {
			return err
		}
		if err := walkItems(ch.SubItems, fn); err != nil {
			return err
		}
	}
	return nil
}
