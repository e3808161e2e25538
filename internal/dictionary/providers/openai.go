package providers

import (
	"context"
	"fmt"

	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/openai"
)

const definitionSystemPrompt = `You are an English learner's dictionary. Given a single English word or short phrase, ` +
	`return its pronunciation in IPA and its common meanings grouped by part of speech, each with a short definition ` +
	`and one natural example sentence. If the input is not a real English word or phrase, set "known" to false and ` +
	`leave the other fields empty.`

// definitionSchema is the strict JSON schema for generated entries.
var definitionSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"known", "phonetic", "meanings"},
	"properties": map[string]any{
		"known":    map[string]any{"type": "boolean"},
		"phonetic": map[string]any{"type": "string"},
		"meanings": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"part_of_speech", "definitions"},
				"properties": map[string]any{
					"part_of_speech": map[string]any{"type": "string"},
					"definitions": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []string{"definition", "example"},
							"properties": map[string]any{
								"definition": map[string]any{"type": "string"},
								"example":    map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	},
}

type generatedEntry struct {
	Known    bool   `json:"known"`
	Phonetic string `json:"phonetic"`
	Meanings []struct {
		PartOfSpeech string `json:"part_of_speech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Generative asks a language model for the entry. It is the last resort in
// the chain and only answers when the model marks the term as known.
type Generative struct {
	gen openai.JSONGenerator
}

var _ dictionary.Provider = (*Generative)(nil)

func NewGenerative(gen openai.JSONGenerator) *Generative {
	return &Generative{gen: gen}
}

func (p *Generative) Name() string { return NameOpenAI }

func (p *Generative) Lookup(ctx context.Context, term string) (*models.WordEntry, error) {
	var out generatedEntry
	if err := p.gen.GenerateJSON(ctx, definitionSystemPrompt, term, "dictionary_entry", definitionSchema, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if !out.Known {
		return nil, fmt.Errorf("%s: unknown term: %w", p.Name(), dictionary.ErrNotFound)
	}

	entry := &models.WordEntry{Term: term, Phonetic: out.Phonetic, Source: p.Name()}
	for _, m := range out.Meanings {
		meaning := models.Meaning{PartOfSpeech: m.PartOfSpeech}
		for _, d := range m.Definitions {
			meaning.Definitions = append(meaning.Definitions, models.Definition{Text: d.Definition, Example: d.Example})
		}
		entry.Meanings = append(entry.Meanings, meaning)
	}
	return entry, nil
}
