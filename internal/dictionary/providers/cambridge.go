package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/models"
)

// Cambridge scrapes /dictionary/english/{term}. Each entry block carries a
// "pos" label and "def-block" senses with "def" and "examp" parts.
type Cambridge struct {
	baseURL string
	fetch   fetcher
}

var _ dictionary.Provider = (*Cambridge)(nil)

func NewCambridge(baseURL string, hc *http.Client) *Cambridge {
	return &Cambridge{baseURL: strings.TrimRight(baseURL, "/"), fetch: newFetcher(hc)}
}

func (p *Cambridge) Name() string { return NameCambridge }

func (p *Cambridge) Lookup(ctx context.Context, term string) (*models.WordEntry, error) {
	body, err := p.fetch.get(ctx, p.Name(), p.baseURL+"/dictionary/english/"+url.PathEscape(term), "text/html")
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", p.Name(), err)
	}

	entry := parseCambridge(doc)
	if len(entry.Meanings) == 0 {
		// Unknown words redirect to a search page without entries.
		return nil, fmt.Errorf("%s: no entries: %w", p.Name(), dictionary.ErrNotFound)
	}
	entry.Term = term
	entry.Source = p.Name()
	return entry, nil
}

func parseCambridge(doc *html.Node) *models.WordEntry {
	entry := &models.WordEntry{}
	if ipa := findFirst(doc, byClass("ipa")); ipa != nil {
		entry.Phonetic = "/" + text(ipa, nil) + "/"
	}

	blocks := findAll(doc, byClass("entry-body__el"))
	if len(blocks) == 0 {
		blocks = []*html.Node{doc}
	}

	byPOS := map[string]int{}
	for _, block := range blocks {
		pos := text(findFirst(block, byClass("pos")), nil)
		var defs []models.Definition
		for _, db := range findAll(block, byClass("def-block")) {
			def := models.Definition{
				Text:    strings.TrimSpace(strings.TrimSuffix(text(findFirst(db, byClass("def")), nil), ":")),
				Example: text(findFirst(db, byClass("examp")), nil),
			}
			if def.Text != "" {
				defs = append(defs, def)
			}
		}
		if len(defs) == 0 {
			continue
		}
		// The page repeats blocks for UK/US dictionaries; merge by part of speech.
		if i, ok := byPOS[pos]; ok {
			entry.Meanings[i].Definitions = appendNew(entry.Meanings[i].Definitions, defs)
			continue
		}
		byPOS[pos] = len(entry.Meanings)
		entry.Meanings = append(entry.Meanings, models.Meaning{PartOfSpeech: pos, Definitions: defs})
	}
	return entry
}

func appendNew(have, add []models.Definition) []models.Definition {
	seen := make(map[string]bool, len(have))
	for _, d := range have {
		seen[d.Text] = true
	}
	for _, d := range add {
		if !seen[d.Text] {
			seen[d.Text] = true
			have = append(have, d)
		}
	}
	return have
}
