package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizarena/internal/services"
)

type QuizHandler struct {
	quiz services.QuizService
}

func NewQuizHandler(quiz services.QuizService) *QuizHandler {
	return &QuizHandler{quiz: quiz}
}

type submitAnswerRequest struct {
	QuestionID    int64 `json:"question_id" binding:"required"`
	SelectedIndex *int  `json:"selected_index" binding:"required"`
}

type completeTierRequest struct {
	TierID  int64 `json:"tier_id" binding:"required"`
	Correct *int  `json:"correct" binding:"required"`
	Total   int   `json:"total" binding:"required"`
}

type addPointsRequest struct {
	Points      int     `json:"points" binding:"required"`
	DailyTaskID *string `json:"daily_task_id"`
	Reason      string  `json:"reason"`
}

// @Summary      Случайный вопрос
// @Description  Вопрос пары (категория, уровень) на языке пользователя; правильный индекс не возвращается
// @Tags         Quiz
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     int  true  "orderRank категории"
// @Param        tier      query     int  true  "orderRank уровня"
// @Success      200       {object}  services.QuestionView
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /quiz/question [get]
func (h *QuizHandler) GetQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	categoryRank, err := strconv.Atoi(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}
	tierRank, err := strconv.Atoi(c.Query("tier"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier"})
		return
	}

	question, err := h.quiz.GetRandomQuestion(userID, categoryRank, tierRank)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// @Summary      Ответ на вопрос
// @Description  +10 очков за верный ответ; запись в историю идёт в любом случае
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        answer  body      submitAnswerRequest  true  "Ответ"
// @Success      200     {object}  services.AnswerResult
// @Failure      404     {object}  map[string]string
// @Router       /quiz/submit-answer [post]
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quiz.SubmitAnswer(userID, req.QuestionID, *req.SelectedIndex)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Завершение уровня
// @Description  Бонус по доле верных ответов: 90%→100, 70%→50, 50%→25
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        result  body      completeTierRequest  true  "Итог прохождения"
// @Success      200     {object}  services.TierResult
// @Failure      404     {object}  map[string]string
// @Router       /quiz/complete-tier [post]
func (h *QuizHandler) CompleteTier(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req completeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quiz.CompleteTier(userID, req.TierID, *req.Correct, req.Total)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Начисление очков
// @Description  С daily_task_id задача засчитывается не чаще раза в календарный день
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        points  body      addPointsRequest  true  "Начисление"
// @Success      200     {object}  models.User
// @Failure      409     {object}  map[string]string
// @Router       /quiz/add-points [post]
func (h *QuizHandler) AddPoints(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req addPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.quiz.AddPoints(userID, req.Points, req.DailyTaskID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Прогресс пользователя
// @Tags         Quiz
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.UserProgress
// @Router       /quiz/user-progress [get]
func (h *QuizHandler) GetUserProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	progress, err := h.quiz.GetUserProgress(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// @Summary      Категории для пользователей
// @Tags         Quiz
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Category
// @Router       /quiz/categories [get]
func (h *QuizHandler) ListCategories(c *gin.Context) {
	categories, err := h.quiz.ListCategories()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// @Summary      Уровни для пользователей
// @Tags         Quiz
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Tier
// @Router       /quiz/tiers [get]
func (h *QuizHandler) ListTiers(c *gin.Context) {
	tiers, err := h.quiz.ListTiers()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tiers)
}
