package providers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/dictionary/providers"
)

const wiktionaryPage = `<!DOCTYPE html><html><body><div class="mw-parser-output">
<h2><span class="mw-headline" id="English">English</span><span class="mw-editsection">[edit]</span></h2>
<h3><span class="mw-headline">Pronunciation</span></h3>
<ul><li>IPA: <span class="IPA">/ˈwɪst.fəl/</span></li></ul>
<h3><span class="mw-headline">Adjective</span><span class="mw-editsection">[edit]</span></h3>
<p><strong>wistful</strong></p>
<ol>
  <li>Full of longing or yearning.
    <dl><dd><i class="e-example">She gave a wistful smile.</i></dd></dl>
  </li>
  <li>Sadly pensive.<ul><li>quotation text</li></ul></li>
</ol>
<h4><span class="mw-headline">Synonyms</span></h4>
<ol><li>not a sense</li></ol>
<h3><span class="mw-headline">Noun 1</span></h3>
<ol><li>A wistful person.</li></ol>
<h2><span class="mw-headline" id="French">French</span></h2>
<h3><span class="mw-headline">Adjective</span></h3>
<ol><li>Not English.</li></ol>
</div></body></html>`

func TestWiktionary_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/wistful", r.URL.Path)
		_, _ = w.Write([]byte(wiktionaryPage))
	}))
	defer srv.Close()

	p := providers.NewWiktionary(srv.URL, srv.Client())
	entry, err := p.Lookup(context.Background(), "wistful")
	require.NoError(t, err)

	assert.Equal(t, "wiktionary", entry.Source)
	assert.Equal(t, "wistful", entry.Term)
	assert.Equal(t, "/ˈwɪst.fəl/", entry.Phonetic)
	require.Len(t, entry.Meanings, 2)

	adj := entry.Meanings[0]
	assert.Equal(t, "adjective", adj.PartOfSpeech)
	require.Len(t, adj.Definitions, 2)
	assert.Equal(t, "Full of longing or yearning.", adj.Definitions[0].Text)
	assert.Equal(t, "She gave a wistful smile.", adj.Definitions[0].Example)
	assert.Equal(t, "Sadly pensive.", adj.Definitions[1].Text)
	assert.Empty(t, adj.Definitions[1].Example)

	noun := entry.Meanings[1]
	assert.Equal(t, "noun", noun.PartOfSpeech)
	require.Len(t, noun.Definitions, 1)
	assert.Equal(t, "A wistful person.", noun.Definitions[0].Text)
}

func TestWiktionary_NoEnglishSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
<h2><span class="mw-headline">French</span></h2>
<h3>Noun</h3><ol><li>chose</li></ol></body></html>`))
	}))
	defer srv.Close()

	_, err := providers.NewWiktionary(srv.URL, srv.Client()).Lookup(context.Background(), "chose")
	assert.ErrorIs(t, err, dictionary.ErrNotFound)
}

func TestWiktionary_MissingPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := providers.NewWiktionary(srv.URL, srv.Client()).Lookup(context.Background(), "zzzqx")
	assert.ErrorIs(t, err, dictionary.ErrNotFound)
}
