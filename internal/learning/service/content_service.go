package service

import (
	"context"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
)

type ContentStore interface {
	GrammarTopics(ctx context.Context, language string) ([]domain.GrammarTopic, error)
	Phrases(ctx context.Context, language string) ([]domain.Phrase, error)
}

// ContentService answers grammar and phrase lookups.
type ContentService struct {
	store ContentStore
}

func NewContentService(store ContentStore) *ContentService {
	return &ContentService{store: store}
}

// Grammar returns every category of a language keyed by name.
func (s *ContentService) Grammar(ctx context.Context, language string) (map[string]domain.GrammarCategory, error) {
	if !domain.ValidLanguage(language) {
		return nil, domain.ErrLanguageNotFound
	}
	topics, err := s.store.GrammarTopics(ctx, language)
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.GrammarCategory)
	for _, t := range topics {
		c := out[t.Category]
		if t.Subcategory == "" {
			c.Description = t.Description
			c.Examples = t.Examples
		} else {
			if c.Subcategories == nil {
				c.Subcategories = make(map[string]domain.GrammarTopic)
			}
			c.Subcategories[t.Subcategory] = t
		}
		out[t.Category] = c
	}
	return out, nil
}

func (s *ContentService) GrammarCategory(ctx context.Context, language, category string) (*domain.GrammarCategory, error) {
	all, err := s.Grammar(ctx, language)
	if err != nil {
		return nil, err
	}
	c, ok := all[category]
	if !ok {
		return nil, domain.ErrGrammarNotFound
	}
	return &c, nil
}

func (s *ContentService) GrammarTopic(ctx context.Context, language, category, subcategory string) (*domain.GrammarTopic, error) {
	c, err := s.GrammarCategory(ctx, language, category)
	if err != nil {
		return nil, err
	}
	t, ok := c.Subcategories[subcategory]
	if !ok {
		return nil, domain.ErrGrammarNotFound
	}
	return &t, nil
}

// Phrases groups a language's phrases by category, preserving order.
func (s *ContentService) Phrases(ctx context.Context, language string) (map[string][]domain.Phrase, error) {
	if !domain.ValidLanguage(language) {
		return nil, domain.ErrLanguageNotFound
	}
	phrases, err := s.store.Phrases(ctx, language)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]domain.Phrase)
	for _, p := range phrases {
		out[p.Category] = append(out[p.Category], p)
	}
	return out, nil
}

func (s *ContentService) PhraseCategory(ctx context.Context, language, category string) ([]domain.Phrase, error) {
	all, err := s.Phrases(ctx, language)
	if err != nil {
		return nil, err
	}
	ps, ok := all[category]
	if !ok {
		return nil, domain.ErrPhrasesNotFound
	}
	return ps, nil
}
