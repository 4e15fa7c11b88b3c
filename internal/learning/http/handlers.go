package http

import (
	"errors"
	"net/http"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	quizzes *service.QuizService
	games   *service.GameService
	content *service.ContentService
	log     *zap.Logger
}

func New(quizzes *service.QuizService, games *service.GameService, content *service.ContentService, log *zap.Logger) *Handler {
	return &Handler{quizzes: quizzes, games: games, content: content, log: log}
}

// RegisterPublic registers read and progress routes. Under /quizzes/:id/...
// the :id segment holds the quiz category.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/quizzes", h.ListQuizzes)
	rg.GET("/quizzes/:id", h.GetQuiz)
	rg.GET("/quizzes/:id/:task", h.TaskQuestions)
	rg.POST("/quizzes/verify", h.Verify)
	rg.POST("/quizzes/:id/unlock-next/:task", h.UnlockNext)

	rg.GET("/games", h.ListGames)
	rg.GET("/games/:category", h.GetGame)
	rg.GET("/games/:category/:task", h.GetGameTask)
	rg.PUT("/games/:category/:taskId/unlock", h.UnlockGameTask)

	rg.GET("/grammar/:language", h.Grammar)
	rg.GET("/grammar/:language/:category", h.GrammarCategory)
	rg.GET("/grammar/:language/:category/:subcategory", h.GrammarTopic)

	rg.GET("/phrases/:language", h.Phrases)
	rg.GET("/phrases/:language/:category", h.PhraseCategory)
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/quizzes", h.CreateQuiz)
	rg.PUT("/quizzes/:id", h.UpdateQuiz)
	rg.DELETE("/quizzes/:id", h.DeleteQuiz)
}

func canSeeAnswers(c *gin.Context) bool {
	a, ok := auth.ActorFrom(c)
	return ok && a.IsAdmin()
}

func (h *Handler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizzes.List(c.Request.Context(), canSeeAnswers(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *Handler) GetQuiz(c *gin.Context) {
	q, err := h.quizzes.Get(c.Request.Context(), c.Param("id"), canSeeAnswers(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) CreateQuiz(c *gin.Context) {
	var in service.QuizInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	q, err := h.quizzes.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *Handler) UpdateQuiz(c *gin.Context) {
	var in service.QuizInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	q, err := h.quizzes.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) DeleteQuiz(c *gin.Context) {
	if err := h.quizzes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}

func (h *Handler) TaskQuestions(c *gin.Context) {
	questions, err := h.quizzes.TaskQuestions(c.Request.Context(), c.Param("id"), c.Param("task"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *Handler) Verify(c *gin.Context) {
	var req domain.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category, taskSlug and questionIndex are required"})
		return
	}
	res, err := h.quizzes.Verify(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UnlockNext(c *gin.Context) {
	if err := h.quizzes.UnlockNext(c.Request.Context(), c.Param("id"), c.Param("task")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Next task unlocked"})
}

func (h *Handler) ListGames(c *gin.Context) {
	games, err := h.games.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *Handler) GetGame(c *gin.Context) {
	g, err := h.games.Get(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) GetGameTask(c *gin.Context) {
	t, err := h.games.Task(c.Request.Context(), c.Param("category"), c.Param("task"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) UnlockGameTask(c *gin.Context) {
	if err := h.games.Unlock(c.Request.Context(), c.Param("category"), c.Param("taskId")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task unlocked successfully"})
}

func (h *Handler) Grammar(c *gin.Context) {
	g, err := h.content.Grammar(c.Request.Context(), c.Param("language"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) GrammarCategory(c *gin.Context) {
	g, err := h.content.GrammarCategory(c.Request.Context(), c.Param("language"), c.Param("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) GrammarTopic(c *gin.Context) {
	t, err := h.content.GrammarTopic(c.Request.Context(), c.Param("language"), c.Param("category"), c.Param("subcategory"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) Phrases(c *gin.Context) {
	p, err := h.content.Phrases(c.Request.Context(), c.Param("language"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) PhraseCategory(c *gin.Context) {
	p, err := h.content.PhraseCategory(c.Request.Context(), c.Param("language"), c.Param("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, domain.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
	case errors.Is(err, domain.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	case errors.Is(err, domain.ErrLanguageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No data found for language: " + c.Param("language")})
	case errors.Is(err, domain.ErrGrammarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Grammar topic not found"})
	case errors.Is(err, domain.ErrPhrasesNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Phrases not found"})
	case errors.Is(err, domain.ErrNoNextTask):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No next task to unlock"})
	case errors.Is(err, domain.ErrQuizCategoryTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quiz for this category already exists"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("learning request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
