package book

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	tagChapter   = "Chapter"
	tagSeparator = "Separator"
	tagPartTitle = "PartTitle"
)

// UnmarshalJSON implements json.Unmarshaler.
func (b *Book) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["sections"]; ok {
		if err := json.Unmarshal(raw, &b.Sections); err != nil {
			return fmt.Errorf("sections: %w", err)
		}
		delete(fields, "sections")
	}
	b.extra = fields
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b Book) MarshalJSON() ([]byte, error) {
	out := cloneRaw(b.extra)
	sections, err := json.Marshal(nonNilItems(b.Sections))
	if err != nil {
		return nil, err
	}
	out["sections"] = sections
	if _, ok := out["__non_exhaustive"]; !ok {
		out["__non_exhaustive"] = json.RawMessage("null")
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (it *Item) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return err
		}
		if tag == tagSeparator {
			*it = Item{Kind: ItemSeparator}
			return nil
		}
		*it = Item{Kind: ItemUnknown, raw: append(json.RawMessage(nil), trimmed...)}
		return nil
	}

	var variant map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &variant); err != nil {
		return fmt.Errorf("book item: %w", err)
	}
	if raw, ok := variant[tagChapter]; ok && len(variant) == 1 {
		var ch Chapter
		if err := json.Unmarshal(raw, &ch); err != nil {
			return fmt.Errorf("chapter: %w", err)
		}
		*it = Item{Kind: ItemChapter, Chapter: &ch}
		return nil
	}
	if raw, ok := variant[tagPartTitle]; ok && len(variant) == 1 {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			return fmt.Errorf("part title: %w", err)
		}
		*it = Item{Kind: ItemPartTitle, PartTitle: title}
		return nil
	}
	*it = Item{Kind: ItemUnknown, raw: append(json.RawMessage(nil), trimmed...)}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (it Item) MarshalJSON() ([]byte, error) {
	switch it.Kind {
	case ItemChapter:
		if it.Chapter == nil {
			return nil, fmt.Errorf("chapter item without chapter")
		}
		return json.Marshal(map[string]*Chapter{tagChapter: it.Chapter})
	case ItemSeparator:
		return json.Marshal(tagSeparator)
	case ItemPartTitle:
		return json.Marshal(map[string]string{tagPartTitle: it.PartTitle})
	default:
		if len(it.raw) == 0 {
			return nil, fmt.Errorf("unknown book item without payload")
		}
		return it.raw, nil
	}
}

type chapterFields struct {
	Name        string        `json:"name"`
	Content     string        `json:"content"`
	Number      SectionNumber `json:"number"`
	SubItems    []Item        `json:"sub_items"`
	Path        *string       `json:"path"`
	SourcePath  *string       `json:"source_path"`
	ParentNames []string      `json:"parent_names"`
}

var chapterKeys = []string{"name", "content", "number", "sub_items", "path", "source_path", "parent_names"}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	var known chapterFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, k := range chapterKeys {
		delete(fields, k)
	}

	*c = Chapter{
		Name:        known.Name,
		Content:     known.Content,
		Number:      known.Number,
		SubItems:    known.SubItems,
		Path:        known.Path,
		SourcePath:  known.SourcePath,
		ParentNames: known.ParentNames,
		extra:       fields,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Chapter) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(chapterFields{
		Name:        c.Name,
		Content:     c.Content,
		Number:      c.Number,
		SubItems:    nonNilItems(c.SubItems),
		Path:        c.Path,
		SourcePath:  c.SourcePath,
		ParentNames: nonNilStrings(c.ParentNames),
	})
	if err != nil {
		return nil, err
	}
	if len(c.extra) == 0 {
		return known, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range c.extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// mdBook deserializes these as sequences; null would be rejected.
func nonNilItems(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
