// Package frontmatter splits YAML frontmatter from a Markdown document and
// joins it back without touching its bytes.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Block is the frontmatter of a document as read from disk.
type Block struct {
	// Raw is the YAML between the delimiters, including its final newline.
	Raw []byte
	// Present is false for documents without frontmatter.
	Present bool
	// Newline is the line ending of the document's first line.
	Newline string
}

// Split separates a `---` delimited YAML block from the Markdown body.
//
// A document that does not open with a delimiter line has no frontmatter and
// its body is the full input.
func Split(content []byte) (Block, []byte, error) {
	nl := detectNewline(content)
	block := Block{Newline: nl}

	delim := []byte("---" + nl)
	if !bytes.HasPrefix(content, delim) {
		return block, content, nil
	}

	rest := content[len(delim):]
	if bytes.HasPrefix(rest, delim) {
		block.Present = true
		block.Raw = []byte{}
		return block, rest[len(delim):], nil
	}

	idx := bytes.Index(rest, []byte(nl+"---"+nl))
	if idx < 0 {
		return Block{Newline: nl}, nil, ErrMissingClosingDelimiter
	}
	block.Present = true
	block.Raw = rest[:idx+len(nl)]
	return block, rest[idx+len(nl)+len(delim):], nil
}

// Join reassembles a document from b and body. Without frontmatter the body
// is returned as-is.
func (b Block) Join(body []byte) []byte {
	if !b.Present {
		return body
	}
	nl := b.Newline
	if nl == "" {
		nl = "\n"
	}

	out := make([]byte, 0, 2*(3+len(nl))+len(b.Raw)+len(body))
	out = append(out, "---"+nl...)
	out = append(out, b.Raw...)
	out = append(out, "---"+nl...)
	out = append(out, body...)
	return out
}

// Fields parses the block into a map. An absent or empty block yields an
// empty map.
func (b Block) Fields() (map[string]any, error) {
	return ParseYAML(b.Raw)
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
