package preprocessor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/numbering"
)

func contextWithTable(t *testing.T, table string) *Context {
	t.Helper()
	cfg := `{"book": {"title": "x"}, "preprocessor": {"section-numbers": ` + table + `}}`
	var config map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(cfg), &config))
	return &Context{Config: config, Renderer: "html"}
}

func TestOptionsFromContext(t *testing.T) {
	base := numbering.DefaultOptions()

	t.Run("no context", func(t *testing.T) {
		opts, err := OptionsFromContext(nil, base)
		require.NoError(t, err)
		assert.Equal(t, base, opts)
	})

	t.Run("no preprocessor table", func(t *testing.T) {
		opts, err := OptionsFromContext(&Context{Config: map[string]json.RawMessage{
			"book": json.RawMessage(`{"title": "x"}`),
		}}, base)
		require.NoError(t, err)
		assert.Equal(t, base, opts)
	})

	t.Run("table without options", func(t *testing.T) {
		opts, err := OptionsFromContext(contextWithTable(t, `{"command": "secnum", "before": ["links"]}`), base)
		require.NoError(t, err)
		assert.Equal(t, base, opts)
	})

	t.Run("overrides", func(t *testing.T) {
		opts, err := OptionsFromContext(contextWithTable(t, `{"max-depth": 2, "chapter-label": "Part"}`), base)
		require.NoError(t, err)
		assert.Equal(t, numbering.Options{MaxDepth: 2, ChapterLabel: "Part"}, opts)
	})

	t.Run("partial override keeps base", func(t *testing.T) {
		custom := numbering.Options{MaxDepth: 5, ChapterLabel: "Kapitel"}
		opts, err := OptionsFromContext(contextWithTable(t, `{"max-depth": 1}`), custom)
		require.NoError(t, err)
		assert.Equal(t, numbering.Options{MaxDepth: 1, ChapterLabel: "Kapitel"}, opts)
	})
}

func TestOptionsFromContext_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		table string
	}{
		{"zero depth", `{"max-depth": 0}`},
		{"negative depth", `{"max-depth": -2}`},
		{"depth as string", `{"max-depth": "two"}`},
		{"empty label", `{"chapter-label": ""}`},
		{"label as number", `{"chapter-label": 4}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OptionsFromContext(contextWithTable(t, tt.table), numbering.DefaultOptions())
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
		})
	}
}
