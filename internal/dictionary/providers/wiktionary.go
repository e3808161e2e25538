package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/models"
)

// Wiktionary scrapes the English section of a /wiki/{term} page: every
// part-of-speech heading followed by an ordered list of senses.
type Wiktionary struct {
	baseURL string
	fetch   fetcher
}

var _ dictionary.Provider = (*Wiktionary)(nil)

func NewWiktionary(baseURL string, hc *http.Client) *Wiktionary {
	return &Wiktionary{baseURL: strings.TrimRight(baseURL, "/"), fetch: newFetcher(hc)}
}

func (p *Wiktionary) Name() string { return NameWiktionary }

var partsOfSpeech = map[string]bool{
	"noun": true, "proper noun": true, "verb": true, "adjective": true, "adverb": true,
	"pronoun": true, "preposition": true, "conjunction": true, "interjection": true,
	"determiner": true, "article": true, "numeral": true, "particle": true,
	"prefix": true, "suffix": true, "phrase": true, "prepositional phrase": true,
	"proverb": true, "idiom": true, "contraction": true, "abbreviation": true,
	"initialism": true, "acronym": true, "symbol": true,
}

func (p *Wiktionary) Lookup(ctx context.Context, term string) (*models.WordEntry, error) {
	body, err := p.fetch.get(ctx, p.Name(), p.baseURL+"/wiki/"+url.PathEscape(term), "text/html")
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", p.Name(), err)
	}

	entry := parseWiktionary(doc)
	if len(entry.Meanings) == 0 {
		return nil, fmt.Errorf("%s: no English senses: %w", p.Name(), dictionary.ErrNotFound)
	}
	entry.Term = term
	entry.Source = p.Name()
	return entry, nil
}

func headingText(n *html.Node) string {
	t := text(n, byClass("mw-editsection"))
	return strings.TrimRight(strings.TrimSpace(t), " 0123456789")
}

func parseWiktionary(doc *html.Node) *models.WordEntry {
	entry := &models.WordEntry{}
	var (
		inEnglish bool
		pos       string
	)

	walk(doc, func(n *html.Node) bool {
		switch {
		case isElement(n, atom.H2):
			inEnglish = strings.EqualFold(headingText(n), "English")
			pos = ""
			return false
		case !inEnglish:
			return true
		case isElement(n, atom.H3, atom.H4, atom.H5):
			h := strings.ToLower(headingText(n))
			if partsOfSpeech[h] {
				pos = h
			} else {
				pos = ""
			}
			return false
		case entry.Phonetic == "" && hasClass(n, "IPA"):
			entry.Phonetic = text(n, nil)
			return false
		case isElement(n, atom.Ol) && pos != "":
			if m := parseSenseList(n, pos); len(m.Definitions) > 0 {
				entry.Meanings = append(entry.Meanings, m)
			}
			pos = ""
			return false
		}
		return true
	})
	return entry
}

// senseNoise matches sub-blocks of a sense that are not its gloss.
func senseNoise(n *html.Node) bool {
	return isElement(n, atom.Ul, atom.Ol, atom.Dl) ||
		hasClass(n, "h-usage-example") || hasClass(n, "citation-whole") ||
		hasClass(n, "HQToggle") || hasClass(n, "nyms")
}

func parseSenseList(ol *html.Node, pos string) models.Meaning {
	m := models.Meaning{PartOfSpeech: pos}
	for li := ol.FirstChild; li != nil; li = li.NextSibling {
		if !isElement(li, atom.Li) {
			continue
		}
		def := models.Definition{Text: text(li, senseNoise)}
		if def.Text == "" {
			continue
		}
		if ex := findFirst(li, byClass("e-example")); ex != nil {
			def.Example = text(ex, nil)
		} else if dd := findFirst(li, func(n *html.Node) bool { return isElement(n, atom.Dd) }); dd != nil {
			def.Example = text(dd, nil)
		}
		m.Definitions = append(m.Definitions, def)
	}
	return m
}
