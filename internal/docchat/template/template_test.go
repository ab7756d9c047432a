package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/docchat/internal/docchat"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFormatQuery(t *testing.T) {
	system := t.TempDir()
	user := t.TempDir()
	writeTemplate(t, system, "brief.toml", `query = "system {{input}}"`)
	writeTemplate(t, user, "brief.toml", `
query = "Resuma em uma frase: {{input}} ({{deck}})"
mode = "ppt"
`)
	writeTemplate(t, user, "mongo/filter.toml", `query = "Find {{input}}"`)
	writeTemplate(t, user, "broken.toml", `mode = "pdf"`)
	writeTemplate(t, user, "badmode.toml", `
query = "{{input}}"
mode = "xls"
`)
	dirs := []string{system, user}

	t.Run("no template", func(t *testing.T) {
		got, mode, err := FormatQuery("hello", "", dirs, nil)
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
		assert.Nil(t, mode)
	})

	t.Run("later directory wins with args and mode", func(t *testing.T) {
		got, mode, err := FormatQuery("vendas", "brief", dirs, []string{"deck:Q3\\: final"})
		require.NoError(t, err)
		assert.Equal(t, "Resuma em uma frase: vendas (Q3: final)", got)
		require.NotNil(t, mode)
		assert.Equal(t, docchat.ModePPTChat, *mode)
	})

	t.Run("placeholders in input and args are left as typed", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			got, _, err := FormatQuery("what is {{deck}}?", "brief", dirs, []string{"deck:X", "other:{{input}}"})
			require.NoError(t, err)
			require.Equal(t, "Resuma em uma frase: what is {{deck}}? (X)", got)
		}
	})

	t.Run("nested template", func(t *testing.T) {
		got, mode, err := FormatQuery("orders", "mongo/filter.toml", dirs, nil)
		require.NoError(t, err)
		assert.Equal(t, "Find orders", got)
		assert.Nil(t, mode)
	})

	errCases := map[string]struct {
		name string
		args []string
	}{
		"missing template": {name: "nope"},
		"empty query":      {name: "broken"},
		"bad mode":         {name: "badmode"},
		"reserved arg":     {name: "brief", args: []string{"input:x"}},
		"malformed arg":    {name: "brief", args: []string{"novalue"}},
	}
	for desc, tc := range errCases {
		t.Run(desc, func(t *testing.T) {
			_, _, err := FormatQuery("x", tc.name, dirs, tc.args)
			assert.Error(t, err)
		})
	}
}

func TestListTemplates(t *testing.T) {
	system := t.TempDir()
	user := t.TempDir()
	writeTemplate(t, system, "brief.toml", `query = "{{input}}"`)
	writeTemplate(t, system, "notes.txt", `ignored`)
	writeTemplate(t, user, "brief.toml", `query = "{{input}}"`)
	writeTemplate(t, user, "mongo/filter.toml", `query = "{{input}}"`)

	entries, err := ListTemplates([]string{system, user, filepath.Join(user, "missing")})
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "brief", Dir: user},
		{Name: "mongo/filter", Dir: user},
	}, entries)
}
