package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepository_GrammarTopics(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM grammar_topics\nWHERE language = $1\nORDER BY category, subcategory")).
		WithArgs("tamil").
		WillReturnRows(pgxmock.NewRows([]string{"language", "category", "subcategory", "description", "examples"}).
			AddRow("tamil", "nouns", "", "Naming words", []byte(`[{"example":"வீடு","transliteration":"veedu","translation":"house"}]`)))

	got, err := NewContentRepository(mock).GrammarTopics(context.Background(), "tamil")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []domain.GrammarExample{{Example: "வீடு", Transliteration: "veedu", Translation: "house"}}, got[0].Examples)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_Phrases(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY category, position, id")).
		WithArgs("sinhala").
		WillReturnRows(pgxmock.NewRows([]string{"language", "category", "phrase", "transliteration", "meaning"}).
			AddRow("sinhala", "greetings", "ආයුබෝවන්", "ayubowan", "hello").
			AddRow("sinhala", "greetings", "ස්තූතියි", "sthuthiyi", "thank you"))

	got, err := NewContentRepository(mock).Phrases(context.Background(), "sinhala")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0].Meaning)
	assert.Equal(t, "thank you", got[1].Meaning)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_ReplacePhrases(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	phrases := []domain.Phrase{
		{Category: "greetings", Phrase: "வணக்கம்", Transliteration: "vanakkam", Meaning: "hello"},
		{Category: "greetings", Phrase: "நன்றி", Transliteration: "nandri", Meaning: "thank you"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM phrases WHERE language = $1")).
		WithArgs("tamil").
		WillReturnResult(pgxmock.NewResult("DELETE", 5))
	for i, p := range phrases {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO phrases")).
			WithArgs("tamil", p.Category, p.Phrase, p.Transliteration, p.Meaning, i).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	require.NoError(t, NewContentRepository(mock).ReplacePhrases(context.Background(), "tamil", phrases))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_UpsertGrammar(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	topic := domain.GrammarTopic{Language: "tamil", Category: "verbs", Subcategory: "past", Description: "Past tense"}
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (language, category, subcategory) DO UPDATE")).
		WithArgs("tamil", "verbs", "past", "Past tense", []byte("null")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewContentRepository(mock).UpsertGrammar(context.Background(), topic))
	assert.NoError(t, mock.ExpectationsWereMet())
}
