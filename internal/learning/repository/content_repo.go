package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
	"github.com/jackc/pgx/v5"
)

// ContentRepository serves grammar topics and phrases.
type ContentRepository struct {
	db postgres.DBTX
}

func NewContentRepository(db postgres.DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) GrammarTopics(ctx context.Context, language string) ([]domain.GrammarTopic, error) {
	rows, err := r.db.Query(ctx, `
SELECT language, category, subcategory, description, examples
FROM grammar_topics
WHERE language = $1
ORDER BY category, subcategory`, language)
	if err != nil {
		return nil, fmt.Errorf("list grammar: %w", err)
	}
	defer rows.Close()

	var out []domain.GrammarTopic
	for rows.Next() {
		var (
			t   domain.GrammarTopic
			raw []byte
		)
		if err := rows.Scan(&t.Language, &t.Category, &t.Subcategory, &t.Description, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &t.Examples); err != nil {
			return nil, fmt.Errorf("decode grammar examples: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ContentRepository) UpsertGrammar(ctx context.Context, t domain.GrammarTopic) error {
	examples, err := json.Marshal(t.Examples)
	if err != nil {
		return fmt.Errorf("encode grammar examples: %w", err)
	}
	_, err = r.db.Exec(ctx, `
INSERT INTO grammar_topics (language, category, subcategory, description, examples)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (language, category, subcategory) DO UPDATE
SET description = EXCLUDED.description, examples = EXCLUDED.examples`,
		t.Language, t.Category, t.Subcategory, t.Description, examples)
	if err != nil {
		return fmt.Errorf("upsert grammar %s/%s: %w", t.Language, t.Category, err)
	}
	return nil
}

func (r *ContentRepository) Phrases(ctx context.Context, language string) ([]domain.Phrase, error) {
	rows, err := r.db.Query(ctx, `
SELECT language, category, phrase, transliteration, meaning
FROM phrases
WHERE language = $1
ORDER BY category, position, id`, language)
	if err != nil {
		return nil, fmt.Errorf("list phrases: %w", err)
	}
	defer rows.Close()

	var out []domain.Phrase
	for rows.Next() {
		var p domain.Phrase
		if err := rows.Scan(&p.Language, &p.Category, &p.Phrase, &p.Transliteration, &p.Meaning); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplacePhrases swaps every phrase of language for phrases, keeping
// their order.
func (r *ContentRepository) ReplacePhrases(ctx context.Context, language string, phrases []domain.Phrase) error {
	return postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM phrases WHERE language = $1`, language); err != nil {
			return fmt.Errorf("clear phrases: %w", err)
		}
		for i, p := range phrases {
			if _, err := tx.Exec(ctx, `
INSERT INTO phrases (language, category, phrase, transliteration, meaning, position)
VALUES ($1, $2, $3, $4, $5, $6)`, language, p.Category, p.Phrase, p.Transliteration, p.Meaning, i); err != nil {
				return fmt.Errorf("insert phrase: %w", err)
			}
		}
		return nil
	})
}
