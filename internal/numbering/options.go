package numbering

import "fmt"

const (
	// DefaultMaxDepth numbers headings down to level 3 (1.1.1).
	DefaultMaxDepth = 3
	// DefaultChapterLabel prefixes numbered top-level headings.
	DefaultChapterLabel = "Chapter"
)

// Options controls numbering policy.
type Options struct {
	// MaxDepth is the deepest heading level that receives a number.
	// Deeper headings pass through and never touch the counters.
	MaxDepth int
	// ChapterLabel is the word used in "Chapter 2: " prefixes.
	ChapterLabel string
}

// DefaultOptions returns the reference numbering policy.
func DefaultOptions() Options {
	return Options{
		MaxDepth:     DefaultMaxDepth,
		ChapterLabel: DefaultChapterLabel,
	}
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if o.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1, got %d", o.MaxDepth)
	}
	if o.ChapterLabel == "" {
		return fmt.Errorf("chapter label must not be empty")
	}
	return nil
}

// withDefaults fills zero values so a zero Options behaves like DefaultOptions.
func (o Options) withDefaults() Options {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.ChapterLabel == "" {
		o.ChapterLabel = DefaultChapterLabel
	}
	return o
}
