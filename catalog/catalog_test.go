package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Target
		ok   bool
	}{
		{
			name: "valid",
			line: "The Matrix | https://site.example/ver-pelicula/the-matrix",
			want: Target{Title: "The Matrix", URL: "https://site.example/ver-pelicula/the-matrix"},
			ok:   true,
		},
		{
			name: "title may contain pipes without spacing",
			line: "A|B Movie | https://site.example/x",
			want: Target{Title: "A|B Movie", URL: "https://site.example/x"},
			ok:   true,
		},
		{name: "no separator", line: "just a title", ok: false},
		{name: "multiple separators rejected", line: "a | b | c", ok: false},
		{name: "empty title", line: " | https://site.example/x", ok: false},
		{name: "empty url", line: "Title | ", ok: false},
		{name: "blank", line: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLoadSkipsInvalidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.txt")
	content := "Movie One | https://site.example/ver-pelicula/one\n" +
		"garbage line\n" +
		"\n" +
		"Movie Two | https://site.example/ver-pelicula/two\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	targets, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Target{
		{Title: "Movie One", URL: "https://site.example/ver-pelicula/one"},
		{Title: "Movie Two", URL: "https://site.example/ver-pelicula/two"},
	}, targets)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.txt")
	want := []Target{
		{Title: "One", URL: "https://site.example/1"},
		{Title: "Two", URL: "https://site.example/2"},
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSearch(t *testing.T) {
	targets := []Target{
		{Title: "The Matrix", URL: "u1"},
		{Title: "Matrix Reloaded", URL: "u2"},
		{Title: "Dune", URL: "u3"},
	}

	assert.Len(t, Search(targets, "matrix"), 2)
	assert.Equal(t, []Target{{Title: "Dune", URL: "u3"}}, Search(targets, "DUNE"))
	assert.Empty(t, Search(targets, "alien"))
}

func TestParseCatalogPage(t *testing.T) {
	html := `
<html><body>
<ul class="MovieList">
  <li><a href="/ver-pelicula/the-matrix"><h2>The Matrix</h2></a></li>
  <li><a href="/ver-pelicula/dune">Dune</a></li>
  <li><a href="/serie/some-show">Some Show</a></li>
  <li><a href="https://ads.example/out">Ad</a></li>
</ul>
<a href="/ver-pelicula/outside-list">Outside</a>
</body></html>`

	targets, err := ParseCatalogPage(html, "https://site.example")
	require.NoError(t, err)
	assert.Equal(t, []Target{
		{Title: "The Matrix", URL: "https://site.example/ver-pelicula/the-matrix"},
		{Title: "Dune", URL: "https://site.example/ver-pelicula/dune"},
	}, targets)
}
