package files

import (
	"fmt"

	"git.home.luguber.info/inful/secnum/internal/book"
)

// ParseStart parses a starting number given as "2.1". An empty string
// yields nil, which disables numbering.
func ParseStart(s string) ([]uint, error) {
	n, err := book.ParseSectionNumber(s)
	if err != nil {
		return nil, err
	}
	if len(n) == 0 {
		return nil, nil
	}
	return n, nil
}

// startFromFields reads the starting number stored under key. Accepted forms
// are a dotted string ("2.1"), a single integer (2) or a list of integers
// ([2, 1]). A missing key yields nil.
func startFromFields(fields map[string]any, key string) ([]uint, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, nil
	}

	switch val := v.(type) {
	case string:
		return ParseStart(val)
	case int:
		return componentsFromInts([]any{val})
	case []any:
		return componentsFromInts(val)
	default:
		return nil, fmt.Errorf("%s must be a string or a list of integers, got %T", key, v)
	}
}

func componentsFromInts(values []any) ([]uint, error) {
	out := make([]uint, 0, len(values))
	for _, v := range values {
		n, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("section number component %v is not an integer", v)
		}
		if n < 0 {
			return nil, fmt.Errorf("section number component %d is negative", n)
		}
		out = append(out, uint(n))
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
