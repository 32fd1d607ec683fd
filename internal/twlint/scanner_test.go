package twlint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClassStrings(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		values []string
		tokens [][]ClassToken
	}{
		{
			name:   "single class",
			line:   `<div class="btn">`,
			values: []string{"btn"},
			tokens: [][]ClassToken{{{"btn", 13}}},
		},
		{
			name:   "multiple classes",
			line:   `<div class="btn btn--primary">`,
			values: []string{"btn btn--primary"},
			tokens: [][]ClassToken{{{"btn", 13}, {"btn--primary", 17}}},
		},
		{
			name:   "single quotes with extra spaces",
			line:   `<div class='icon  nav-item-icon'>`,
			values: []string{"icon  nav-item-icon"},
			tokens: [][]ClassToken{{{"icon", 13}, {"nav-item-icon", 19}}},
		},
		{
			name:   "jsx className",
			line:   `<div className="flex p-4">`,
			values: []string{"flex p-4"},
			tokens: [][]ClassToken{{{"flex", 17}, {"p-4", 22}}},
		},
		{
			name:   "templ braces",
			line:   `<div class={ "flex p-4" }>`,
			values: []string{"flex p-4"},
			tokens: [][]ClassToken{{{"flex", 15}, {"p-4", 20}}},
		},
		{
			name:   "templ.Classes with nested KV",
			line:   `<div class={ templ.Classes("a b", templ.KV("c", ok), "d") }>`,
			values: []string{"a b", "c", "d"},
		},
		{
			name:   "two attributes on one line",
			line:   `<a class="x"></a><b class="y z"></b>`,
			values: []string{"x", "y z"},
		},
		{
			name: "empty attribute",
			line: `<div class="">`,
		},
		{
			name: "comment",
			line: `	// <div class="flex">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractClassStrings(tt.line, 7, "page.templ")

			var values []string
			for _, cs := range got {
				values = append(values, cs.Value)
				assert.Equal(t, 7, cs.Location.Line)
				assert.Equal(t, "page.templ", cs.Location.File)
				assert.Equal(t, tt.line, cs.Location.Text)
				assert.Equal(t, cs.Value, tt.line[cs.Location.Column-1:cs.Location.Column-1+len(cs.Value)])
			}
			assert.Equal(t, tt.values, values)

			for i, want := range tt.tokens {
				assert.Equal(t, want, got[i].Tokens)
			}
		})
	}
}

func TestClassStringColumn(t *testing.T) {
	got := extractClassStrings(`<div class="flex block">`, 1, "a.html")
	require.Len(t, got, 1)

	cs := got[0]
	assert.Equal(t, []string{"flex", "block"}, cs.Classes())
	assert.Equal(t, 18, cs.column("block"))
	assert.Equal(t, 13, cs.column("missing"), "falls back to the string start")
}

func TestIsTemplGenerated(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"web/pages/sidebar_templ.go", true},
		{"web/pages/sidebar.templ.go", true},
		{"internal/api/handlers.go", false},
		{"web/pages/sidebar.templ", false},
		{"internal/templates/handler.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.expected, isTemplGenerated(tt.path))
		})
	}
}

func TestShouldSkipFile(t *testing.T) {
	assert.True(t, shouldSkipFile("web/sidebar_templ.go"))
	assert.False(t, shouldSkipFile("web/sidebar.templ"))
	assert.False(t, shouldSkipFile(filepath.Join(t.TempDir(), "page.templ")))
}

func TestExpandGlobPatterns(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"file1.templ",
		"file2.go",
		"subdir/file3.templ",
		"subdir/file4_templ.go",
	}
	for _, f := range files {
		path := filepath.Join(tmpDir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("test"), 0644))
	}

	matches, stats, err := expandGlobPatterns([]string{
		filepath.Join(tmpDir, "**/*.templ"),
		filepath.Join(tmpDir, "**/*.go"),
		filepath.Join(tmpDir, "*.templ"), // duplicates are dropped
	})
	require.NoError(t, err)

	assert.Len(t, matches, 3)
	assert.Equal(t, 4, stats.FilesDiscovered)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 3, stats.FilesScanned)
	for _, match := range matches {
		assert.False(t, strings.HasSuffix(match, "_templ.go"))
	}

	_, _, err = expandGlobPatterns([]string{"[invalid"})
	assert.Error(t, err)
}

func TestScanFile(t *testing.T) {
	content := `package test

// This is a comment with class="ignored"
templ Component() {
	<div class="app-sidebar flex">
		<span class={ templ.KV("active", true) }>Active</span>
	</div>
}
`
	path := filepath.Join(t.TempDir(), "component.templ")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	found, err := scanFile(path)
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, "app-sidebar flex", found[0].Value)
	assert.Equal(t, 5, found[0].Location.Line)
	assert.Equal(t, "active", found[1].Value)
	assert.Equal(t, 6, found[1].Location.Line)

	_, err = scanFile(filepath.Join(t.TempDir(), "missing.templ"))
	assert.Error(t, err)
}
