package service

import (
	"context"
	"testing"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memQuizzes map[string]*domain.Quiz

func (m memQuizzes) List(context.Context) ([]domain.Quiz, error) {
	out := []domain.Quiz{}
	for _, q := range m {
		out = append(out, *q)
	}
	return out, nil
}

func (m memQuizzes) Get(_ context.Context, id string) (*domain.Quiz, error) {
	for _, q := range m {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, domain.ErrQuizNotFound
}

func (m memQuizzes) GetByCategory(_ context.Context, category string) (*domain.Quiz, error) {
	q, ok := m[category]
	if !ok {
		return nil, domain.ErrQuizNotFound
	}
	cp := *q
	return &cp, nil
}

func (m memQuizzes) Create(_ context.Context, q *domain.Quiz) error {
	if _, ok := m[q.Category]; ok {
		return domain.ErrQuizCategoryTaken
	}
	q.ID = "q-" + q.Category
	cp := *q
	m[q.Category] = &cp
	return nil
}

func (m memQuizzes) Update(_ context.Context, q *domain.Quiz) error {
	for k, existing := range m {
		if existing.ID == q.ID {
			delete(m, k)
		}
	}
	cp := *q
	m[q.Category] = &cp
	return nil
}

func (m memQuizzes) Delete(_ context.Context, id string) error {
	for k, q := range m {
		if q.ID == id {
			delete(m, k)
			return nil
		}
	}
	return domain.ErrQuizNotFound
}

func (m memQuizzes) UpdateTasks(_ context.Context, category string, fn func([]domain.QuizTask) ([]domain.QuizTask, error)) error {
	q, ok := m[category]
	if !ok {
		return domain.ErrQuizNotFound
	}
	tasks := append([]domain.QuizTask(nil), q.Tasks...)
	tasks, err := fn(tasks)
	if err != nil {
		return err
	}
	q.Tasks = tasks
	return nil
}

func alphabetQuiz() memQuizzes {
	return memQuizzes{"alphabet": {
		ID: "q-alphabet", Category: "alphabet", Title: "Alphabet",
		Tasks: []domain.QuizTask{
			{ID: "1", Slug: "vowels", IsUnlocked: true, Questions: []domain.Question{
				{Question: "Which is அ?", Options: []string{"a", "i"}, CorrectAnswer: "a", Explanation: "அ is a"},
			}},
			{ID: "2", Slug: "consonants"},
		},
	}}
}

func intp(n int) *int { return &n }

func TestQuizService_Verify(t *testing.T) {
	svc := NewQuizService(alphabetQuiz(), zap.NewNop())
	ctx := context.Background()

	res, err := svc.Verify(ctx, domain.VerifyRequest{Category: "alphabet", TaskSlug: "vowels", QuestionIndex: intp(0), Answer: "a"})
	require.NoError(t, err)
	assert.Equal(t, &domain.VerifyResult{IsCorrect: true, Explanation: "அ is a"}, res)

	res, err = svc.Verify(ctx, domain.VerifyRequest{Category: "alphabet", TaskSlug: "vowels", QuestionIndex: intp(0), Answer: "i"})
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)

	_, err = svc.Verify(ctx, domain.VerifyRequest{Category: "alphabet", TaskSlug: "vowels", QuestionIndex: intp(3)})
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	_, err = svc.Verify(ctx, domain.VerifyRequest{Category: "alphabet", TaskSlug: "words", QuestionIndex: intp(0)})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = svc.Verify(ctx, domain.VerifyRequest{Category: "numbers", TaskSlug: "vowels", QuestionIndex: intp(0)})
	assert.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestQuizService_UnlockNext(t *testing.T) {
	store := alphabetQuiz()
	svc := NewQuizService(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.UnlockNext(ctx, "alphabet", "vowels"))
	assert.True(t, store["alphabet"].Tasks[1].IsUnlocked)

	assert.ErrorIs(t, svc.UnlockNext(ctx, "alphabet", "consonants"), domain.ErrNoNextTask)
	assert.ErrorIs(t, svc.UnlockNext(ctx, "alphabet", "missing"), domain.ErrNoNextTask)
	assert.ErrorIs(t, svc.UnlockNext(ctx, "numbers", "vowels"), domain.ErrQuizNotFound)
}

func TestQuizService_AnswersHiddenFromLearners(t *testing.T) {
	svc := NewQuizService(alphabetQuiz(), zap.NewNop())
	ctx := context.Background()

	questions, err := svc.TaskQuestions(ctx, "alphabet", "vowels")
	require.NoError(t, err)
	assert.Empty(t, questions[0].CorrectAnswer)
	assert.Equal(t, []string{"a", "i"}, questions[0].Options)

	q, err := svc.Get(ctx, "q-alphabet", false)
	require.NoError(t, err)
	assert.Empty(t, q.Tasks[0].Questions[0].CorrectAnswer)

	q, err = svc.Get(ctx, "q-alphabet", true)
	require.NoError(t, err)
	assert.Equal(t, "a", q.Tasks[0].Questions[0].CorrectAnswer)
}

func TestQuizService_CreateAndUpdate(t *testing.T) {
	store := memQuizzes{}
	svc := NewQuizService(store, zap.NewNop())
	ctx := context.Background()

	strp := func(s string) *string { return &s }

	_, err := svc.Create(ctx, QuizInput{Title: strp("Numbers")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	dup := []domain.QuizTask{{Slug: "a"}, {Slug: "a"}}
	_, err = svc.Create(ctx, QuizInput{Category: strp("numbers"), Title: strp("Numbers"), Tasks: &dup})
	assert.ErrorIs(t, err, domain.ErrValidation)

	q, err := svc.Create(ctx, QuizInput{Category: strp(" numbers "), Title: strp("Numbers")})
	require.NoError(t, err)
	assert.Equal(t, "numbers", q.Category)
	assert.NotNil(t, q.Tasks)

	q, err = svc.Update(ctx, q.ID, QuizInput{Description: strp("Count to ten")})
	require.NoError(t, err)
	assert.Equal(t, "Numbers", q.Title)
	assert.Equal(t, "Count to ten", q.Description)

	require.NoError(t, svc.Delete(ctx, q.ID))
	assert.Empty(t, store)
}

type memGames map[string]*domain.GameCategory

func (m memGames) List(context.Context) ([]domain.GameCategory, error) { return nil, nil }

func (m memGames) Get(_ context.Context, id string) (*domain.GameCategory, error) {
	g, ok := m[id]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return g, nil
}

func (m memGames) UpdateTasks(_ context.Context, id string, fn func([]domain.GameTask) ([]domain.GameTask, error)) error {
	g, ok := m[id]
	if !ok {
		return domain.ErrGameNotFound
	}
	tasks, err := fn(g.Tasks)
	if err != nil {
		return err
	}
	g.Tasks = tasks
	return nil
}

func TestGameService(t *testing.T) {
	store := memGames{"matching": {ID: "matching", Tasks: []domain.GameTask{{ID: "t1", Slug: "fruits"}}}}
	svc := NewGameService(store)
	ctx := context.Background()

	task, err := svc.Task(ctx, "matching", "fruits")
	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)

	_, err = svc.Task(ctx, "matching", "colours")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	require.NoError(t, svc.Unlock(ctx, "matching", "t1"))
	assert.True(t, store["matching"].Tasks[0].IsUnlocked)

	assert.ErrorIs(t, svc.Unlock(ctx, "matching", "t9"), domain.ErrTaskNotFound)
	assert.ErrorIs(t, svc.Unlock(ctx, "puzzles", "t1"), domain.ErrTaskNotFound)
}

type memContent struct {
	topics  []domain.GrammarTopic
	phrases []domain.Phrase
}

func (m memContent) GrammarTopics(context.Context, string) ([]domain.GrammarTopic, error) {
	return m.topics, nil
}

func (m memContent) Phrases(context.Context, string) ([]domain.Phrase, error) {
	return m.phrases, nil
}

func TestContentService(t *testing.T) {
	svc := NewContentService(memContent{
		topics: []domain.GrammarTopic{
			{Category: "numbers", Description: "Counting"},
			{Category: "verbs", Subcategory: "causative", Description: "Making someone act"},
			{Category: "verbs", Subcategory: "passiveVoice", Description: "Passive"},
		},
		phrases: []domain.Phrase{
			{Category: "greetings", Phrase: "vanakkam"},
			{Category: "greetings", Phrase: "nandri"},
			{Category: "travel", Phrase: "evvalavu"},
		},
	})
	ctx := context.Background()

	_, err := svc.Grammar(ctx, "klingon")
	assert.ErrorIs(t, err, domain.ErrLanguageNotFound)

	all, err := svc.Grammar(ctx, domain.LanguageTamil)
	require.NoError(t, err)
	assert.Equal(t, "Counting", all["numbers"].Description)
	assert.Len(t, all["verbs"].Subcategories, 2)

	topic, err := svc.GrammarTopic(ctx, domain.LanguageTamil, "verbs", "causative")
	require.NoError(t, err)
	assert.Equal(t, "Making someone act", topic.Description)

	_, err = svc.GrammarTopic(ctx, domain.LanguageTamil, "numbers", "ordinal")
	assert.ErrorIs(t, err, domain.ErrGrammarNotFound)

	greetings, err := svc.PhraseCategory(ctx, domain.LanguageMalayalam, "greetings")
	require.NoError(t, err)
	require.Len(t, greetings, 2)
	assert.Equal(t, "vanakkam", greetings[0].Phrase)

	_, err = svc.PhraseCategory(ctx, domain.LanguageMalayalam, "food")
	assert.ErrorIs(t, err, domain.ErrPhrasesNotFound)
}
