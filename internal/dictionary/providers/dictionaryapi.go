package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/models"
)

// DictionaryAPI queries the free dictionary API (/api/v2/entries/en/{term}).
type DictionaryAPI struct {
	baseURL string
	fetch   fetcher
}

var _ dictionary.Provider = (*DictionaryAPI)(nil)

func NewDictionaryAPI(baseURL string, hc *http.Client) *DictionaryAPI {
	return &DictionaryAPI{baseURL: strings.TrimRight(baseURL, "/"), fetch: newFetcher(hc)}
}

func (p *DictionaryAPI) Name() string { return NameDictionaryAPI }

type apiEntry struct {
	Word      string `json:"word"`
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text string `json:"text"`
	} `json:"phonetics"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string   `json:"definition"`
			Example    string   `json:"example"`
			Synonyms   []string `json:"synonyms"`
			Antonyms   []string `json:"antonyms"`
		} `json:"definitions"`
		Synonyms []string `json:"synonyms"`
		Antonyms []string `json:"antonyms"`
	} `json:"meanings"`
}

func (p *DictionaryAPI) Lookup(ctx context.Context, term string) (*models.WordEntry, error) {
	body, err := p.fetch.get(ctx, p.Name(), p.baseURL+"/api/v2/entries/en/"+url.PathEscape(term), "application/json")
	if err != nil {
		return nil, err
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", p.Name(), err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: empty result: %w", p.Name(), dictionary.ErrNotFound)
	}

	out := &models.WordEntry{Term: term, Source: p.Name()}
	for _, e := range entries {
		if out.Phonetic == "" {
			out.Phonetic = e.Phonetic
			for _, ph := range e.Phonetics {
				if out.Phonetic == "" && ph.Text != "" {
					out.Phonetic = ph.Text
				}
			}
		}
		for _, m := range e.Meanings {
			meaning := models.Meaning{PartOfSpeech: m.PartOfSpeech}
			for i, d := range m.Definitions {
				def := models.Definition{
					Text:     d.Definition,
					Example:  d.Example,
					Synonyms: d.Synonyms,
					Antonyms: d.Antonyms,
				}
				// Meaning-level lists belong to the sense as a whole.
				if i == 0 && len(def.Synonyms) == 0 {
					def.Synonyms = m.Synonyms
				}
				if i == 0 && len(def.Antonyms) == 0 {
					def.Antonyms = m.Antonyms
				}
				meaning.Definitions = append(meaning.Definitions, def)
			}
			out.Meanings = append(out.Meanings, meaning)
		}
	}
	return out, nil
}
