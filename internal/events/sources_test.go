package events

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSources(t *testing.T) {
	t.Run("known location", func(t *testing.T) {
		got := SelectSources("Boston")
		require.NotEmpty(t, got)
		for _, src := range got {
			assert.NotEmpty(t, src.URL)
			assert.NotEmpty(t, src.Prompt)
			assert.Same(t, EventsShape, src.Schema)
		}
	})

	t.Run("unknown location", func(t *testing.T) {
		got := SelectSources("Nowhereville")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("match is exact", func(t *testing.T) {
		assert.Empty(t, SelectSources("boston"))
		assert.Empty(t, SelectSources("Boston, Massachusetts"))
	})
}

func TestSelectDoesNotAliasTable(t *testing.T) {
	rules := Rules{"Austin": {{URL: "https://example.com/a", Prompt: "p"}}}
	got := rules.Select("Austin")
	got[0].URL = "changed"
	assert.Equal(t, "https://example.com/a", rules["Austin"][0].URL)
	assert.Nil(t, rules["Austin"][0].Schema)
}

func TestMergeAppendsSources(t *testing.T) {
	base := Rules{"Boston": {{URL: "https://example.com/1", Prompt: "p"}}}
	extra := Rules{
		"Boston":  {{URL: "https://example.com/2", Prompt: "p"}},
		"Seattle": {{URL: "https://example.com/3", Prompt: "p"}},
	}

	merged := base.Merge(extra)
	require.Len(t, merged["Boston"], 2)
	assert.Equal(t, "https://example.com/2", merged["Boston"][1].URL)
	assert.Len(t, merged["Seattle"], 1)
	assert.Len(t, base["Boston"], 1)
}

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRules(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeRules(t, `
locations:
  - name: Portland
    sources:
      - url: https://example.com/portland/events
        prompt: Extract upcoming events
      - url: https://example.com/portland/music
        prompt: Extract concerts
`)
		rules, err := LoadRules(path)
		require.NoError(t, err)
		got := rules.Select("Portland")
		require.Len(t, got, 2)
		assert.Equal(t, "https://example.com/portland/music", got[1].URL)
	})

	t.Run("missing name", func(t *testing.T) {
		path := writeRules(t, "locations:\n  - sources:\n      - url: https://example.com\n        prompt: x\n")
		_, err := LoadRules(path)
		assert.Error(t, err)
	})

	t.Run("invalid url", func(t *testing.T) {
		path := writeRules(t, "locations:\n  - name: X\n    sources:\n      - url: not a url\n        prompt: x\n")
		_, err := LoadRules(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
