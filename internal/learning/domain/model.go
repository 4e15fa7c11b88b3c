package domain

import "errors"

const (
	LanguageTamil     = "tamil"
	LanguageMalayalam = "malayalam"
)

var (
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrQuizCategoryTaken = errors.New("quiz category already exists")
	ErrTaskNotFound      = errors.New("task not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrNoNextTask        = errors.New("no next task to unlock")
	ErrGameNotFound      = errors.New("game category not found")
	ErrLanguageNotFound  = errors.New("language not found")
	ErrGrammarNotFound   = errors.New("grammar topic not found")
	ErrPhrasesNotFound   = errors.New("phrases not found")
	ErrValidation        = errors.New("validation failed")
)

func ValidLanguage(lang string) bool {
	return lang == LanguageTamil || lang == LanguageMalayalam
}

type Question struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty" yaml:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty" yaml:"explanation"`
}

type QuizTask struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	IsUnlocked  bool       `json:"isUnlocked" yaml:"isUnlocked"`
	Slug        string     `json:"slug" yaml:"slug"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

type Quiz struct {
	ID          string     `json:"id" yaml:"-"`
	Category    string     `json:"category" yaml:"category"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Tasks       []QuizTask `json:"tasks" yaml:"tasks"`
}

// TaskBySlug returns the index of the task with slug, or -1.
func (q *Quiz) TaskBySlug(slug string) int {
	for i, t := range q.Tasks {
		if t.Slug == slug {
			return i
		}
	}
	return -1
}

// WithoutAnswers returns a copy of q with correct answers and
// explanations removed.
func (q Quiz) WithoutAnswers() Quiz {
	tasks := make([]QuizTask, len(q.Tasks))
	for i, t := range q.Tasks {
		t.Questions = StripAnswers(t.Questions)
		tasks[i] = t
	}
	q.Tasks = tasks
	return q
}

func StripAnswers(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = Question{Question: q.Question, Options: q.Options}
	}
	return out
}

type VerifyRequest struct {
	Category      string `json:"category" binding:"required"`
	TaskSlug      string `json:"taskSlug" binding:"required"`
	QuestionIndex *int   `json:"questionIndex" binding:"required"`
	Answer        string `json:"answer"`
}

type VerifyResult struct {
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

type WordPair struct {
	Word        string `json:"word" yaml:"word"`
	Translation string `json:"translation" yaml:"translation"`
	ImageURL    string `json:"imageUrl,omitempty" yaml:"imageUrl"`
}

type Sentence struct {
	Words       []string `json:"words" yaml:"words"`
	Translation string   `json:"translation" yaml:"translation"`
}

type WordSet struct {
	Word        string   `json:"word" yaml:"word"`
	Translation string   `json:"translation" yaml:"translation"`
	Synonyms    []string `json:"synonyms" yaml:"synonyms"`
}

type GridSize struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

type GameTask struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	IsUnlocked  bool       `json:"isUnlocked" yaml:"isUnlocked"`
	Category    string     `json:"category" yaml:"category"`
	Slug        string     `json:"slug" yaml:"slug"`
	WordPairs   []WordPair `json:"wordPairs,omitempty" yaml:"wordPairs"`
	Sentences   []Sentence `json:"sentences,omitempty" yaml:"sentences"`
	WordSets    []WordSet  `json:"wordSets,omitempty" yaml:"wordSets"`
	GridSize    *GridSize  `json:"gridSize,omitempty" yaml:"gridSize"`
}

type GameCategory struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Tasks       []GameTask `json:"tasks" yaml:"tasks"`
}

type GrammarExample struct {
	Example         string `json:"example" yaml:"example"`
	Transliteration string `json:"transliteration" yaml:"transliteration"`
	Translation     string `json:"translation" yaml:"translation"`
}

// GrammarTopic is one stored row. Subcategory is empty for topics that
// sit directly under their category.
type GrammarTopic struct {
	Language    string           `json:"-" yaml:"language"`
	Category    string           `json:"-" yaml:"category"`
	Subcategory string           `json:"-" yaml:"subcategory"`
	Description string           `json:"description" yaml:"description"`
	Examples    []GrammarExample `json:"examples" yaml:"examples"`
}

// GrammarCategory groups a category's own content with its subcategories.
type GrammarCategory struct {
	Description   string                  `json:"description,omitempty"`
	Examples      []GrammarExample        `json:"examples,omitempty"`
	Subcategories map[string]GrammarTopic `json:"subcategories,omitempty"`
}

type Phrase struct {
	Language        string `json:"-" yaml:"language"`
	Category        string `json:"-" yaml:"category"`
	Phrase          string `json:"phrase" yaml:"phrase"`
	Transliteration string `json:"transliteration" yaml:"transliteration"`
	Meaning         string `json:"meaning" yaml:"meaning"`
}
