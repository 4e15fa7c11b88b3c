// Package seed loads learning content and catalog categories from a YAML
// fixture file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	catalogdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Category struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Featured    bool   `yaml:"featured"`
}

// Fixture is the document layout. Phrases are keyed by language, then
// category.
type Fixture struct {
	Categories []Category                            `yaml:"categories"`
	Quizzes    []domain.Quiz                         `yaml:"quizzes"`
	Games      []domain.GameCategory                 `yaml:"games"`
	Grammar    []domain.GrammarTopic                 `yaml:"grammar"`
	Phrases    map[string]map[string][]domain.Phrase `yaml:"phrases"`
}

type CategoryCreator interface {
	Create(ctx context.Context, in catalogdomain.CategoryInput) (*catalogdomain.Category, error)
}

type QuizUpserter interface {
	Upsert(ctx context.Context, q *domain.Quiz) error
}

type GameUpserter interface {
	Upsert(ctx context.Context, g *domain.GameCategory, position int) error
}

type ContentWriter interface {
	UpsertGrammar(ctx context.Context, t domain.GrammarTopic) error
	ReplacePhrases(ctx context.Context, language string, phrases []domain.Phrase) error
}

type Targets struct {
	Categories CategoryCreator
	Quizzes    QuizUpserter
	Games      GameUpserter
	Content    ContentWriter
}

// Summary counts what Apply wrote.
type Summary struct {
	Categories int
	Quizzes    int
	Games      int
	Grammar    int
	Phrases    int
}

func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a fixture, rejecting unknown keys.
func Load(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixture) validate() error {
	for _, q := range fx.Quizzes {
		if q.Category == "" {
			return fmt.Errorf("quiz %q has no category", q.Title)
		}
	}
	for _, g := range fx.Games {
		if g.ID == "" {
			return fmt.Errorf("game %q has no id", g.Title)
		}
	}
	for _, t := range fx.Grammar {
		if !domain.ValidLanguage(t.Language) || t.Category == "" {
			return fmt.Errorf("grammar topic %s/%s: language must be tamil or malayalam and category is required", t.Language, t.Category)
		}
	}
	for lang := range fx.Phrases {
		if !domain.ValidLanguage(lang) {
			return fmt.Errorf("phrases: unknown language %q", lang)
		}
	}
	return nil
}

// Apply writes the fixture. Existing categories are left alone; learning
// content is replaced.
func Apply(ctx context.Context, fx *Fixture, t Targets, log *zap.Logger) (Summary, error) {
	var sum Summary

	for _, c := range fx.Categories {
		in := catalogdomain.CategoryInput{Name: &c.Name, Featured: &c.Featured}
		if c.Slug != "" {
			in.Slug = &c.Slug
		}
		if c.Description != "" {
			in.Description = &c.Description
		}
		if c.Image != "" {
			in.Image = &c.Image
		}
		_, err := t.Categories.Create(ctx, in)
		if errors.Is(err, catalogdomain.ErrSlugTaken) {
			log.Info("category exists, skipping", zap.String("name", c.Name))
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("category %s: %w", c.Name, err)
		}
		sum.Categories++
	}

	for i := range fx.Quizzes {
		if err := t.Quizzes.Upsert(ctx, &fx.Quizzes[i]); err != nil {
			return sum, err
		}
		sum.Quizzes++
	}

	for i := range fx.Games {
		if err := t.Games.Upsert(ctx, &fx.Games[i], i); err != nil {
			return sum, err
		}
		sum.Games++
	}

	for _, topic := range fx.Grammar {
		if err := t.Content.UpsertGrammar(ctx, topic); err != nil {
			return sum, err
		}
		sum.Grammar++
	}

	langs := make([]string, 0, len(fx.Phrases))
	for lang := range fx.Phrases {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		flat := flattenPhrases(fx.Phrases[lang])
		if err := t.Content.ReplacePhrases(ctx, lang, flat); err != nil {
			return sum, err
		}
		sum.Phrases += len(flat)
	}

	log.Info("seed applied",
		zap.Int("categories", sum.Categories),
		zap.Int("quizzes", sum.Quizzes),
		zap.Int("games", sum.Games),
		zap.Int("grammar", sum.Grammar),
		zap.Int("phrases", sum.Phrases),
	)
	return sum, nil
}

func flattenPhrases(byCategory map[string][]domain.Phrase) []domain.Phrase {
	cats := make([]string, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var out []domain.Phrase
	for _, c := range cats {
		for _, p := range byCategory[c] {
			p.Category = c
			out = append(out, p)
		}
	}
	return out
}
