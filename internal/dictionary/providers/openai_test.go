package providers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/dictionary/providers"
	"github.com/vytor/wordflash/internal/testutil/mocks"
)

func TestGenerative_Lookup(t *testing.T) {
	gen := new(mocks.MockJSONGenerator)
	gen.On("GenerateJSON", mock.Anything, "petrichor", "dictionary_entry").Return(`{
		"known": true,
		"phonetic": "/ˈpɛt.ɹɪ.kɔː/",
		"meanings": [{"part_of_speech": "noun", "definitions": [
			{"definition": "The smell of rain on dry earth.", "example": "The petrichor rose after the storm."}
		]}]
	}`, nil)

	p := providers.NewGenerative(gen)
	entry, err := p.Lookup(context.Background(), "petrichor")
	require.NoError(t, err)

	assert.Equal(t, "openai", entry.Source)
	assert.Equal(t, "petrichor", entry.Term)
	require.Len(t, entry.Meanings, 1)
	assert.Equal(t, "The smell of rain on dry earth.", entry.Meanings[0].Definitions[0].Text)
	gen.AssertExpectations(t)
}

func TestGenerative_UnknownTerm(t *testing.T) {
	gen := new(mocks.MockJSONGenerator)
	gen.On("GenerateJSON", mock.Anything, "zzzqx", "dictionary_entry").
		Return(`{"known": false, "phonetic": "", "meanings": []}`, nil)

	_, err := providers.NewGenerative(gen).Lookup(context.Background(), "zzzqx")
	assert.ErrorIs(t, err, dictionary.ErrNotFound)
}

func TestGenerative_GeneratorError(t *testing.T) {
	gen := new(mocks.MockJSONGenerator)
	gen.On("GenerateJSON", mock.Anything, "word", "dictionary_entry").Return("", errors.New("quota exceeded"))

	_, err := providers.NewGenerative(gen).Lookup(context.Background(), "word")
	require.Error(t, err)
	assert.False(t, errors.Is(err, dictionary.ErrNotFound))
}
