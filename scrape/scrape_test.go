package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `
<html><body>
<div class="TPost">
  <figure>
    <img class="lazy" src="https://img.example/posters/matrix.jpg" alt="poster">
  </figure>
  <h1 class="Title">The Matrix</h1>
  <p class="Info">7.8 2h 16m 1999</p>
  <div class="Description"><p>A hacker discovers the truth about his world.</p></div>
  <ul class="InfoList">
    <li class="AAIco-adjust">
      <a href="/genero/accion">Action</a>
      <a href="/genero/ciencia-ficcion">Sci-Fi</a>
    </li>
    <li class="AAIco-adjust">
      <a href="/actor/keanu">Keanu Reeves</a>
      <a href="/actor/carrie">Carrie-Anne Moss</a>
    </li>
  </ul>
</div>
</body></html>`

func TestParseDetails(t *testing.T) {
	d, err := ParseDetails(samplePage)
	require.NoError(t, err)

	assert.Equal(t, "The Matrix", d.Title)
	assert.Equal(t, "https://img.example/posters/matrix.jpg", d.ImageURL)
	assert.Equal(t, "A hacker discovers the truth about his world.", d.Description)
	assert.Equal(t, "7.8 2h 16m 1999", d.Info)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, d.Genres)
	assert.Equal(t, []string{"Keanu Reeves", "Carrie-Anne Moss"}, d.Actors)
}

func TestParseDetailsNoTitle(t *testing.T) {
	_, err := ParseDetails("<html><body><p>nothing here</p></body></html>")
	assert.Error(t, err)
}

func TestParseDetailsMinimalPage(t *testing.T) {
	d, err := ParseDetails(`<html><body><h1 class="Title">Bare Movie</h1></body></html>`)
	require.NoError(t, err)

	assert.Equal(t, "Bare Movie", d.Title)
	assert.Empty(t, d.ImageURL)
	assert.Empty(t, d.Description)
	assert.Empty(t, d.Genres)
	assert.Empty(t, d.Actors)
}
