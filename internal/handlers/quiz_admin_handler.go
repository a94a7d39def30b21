package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizarena/internal/models"
	"quizarena/internal/services"
)

// QuizAdminHandler — управление контентом квизов (категории, уровни,
// вопросы, переводы, платежи). Все маршруты под AdminAuth.
type QuizAdminHandler struct {
	content services.QuizContentService
}

func NewQuizAdminHandler(content services.QuizContentService) *QuizAdminHandler {
	return &QuizAdminHandler{content: content}
}

// @Summary      Создание категории
// @Tags         AdminQuiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        category  body      models.CreateCategoryRequest  true  "Категория"
// @Success      201       {object}  models.Category
// @Failure      409       {object}  map[string]string
// @Router       /admin/quiz/category [post]
func (h *QuizAdminHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.content.CreateCategory(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// @Summary      Список категорий
// @Tags         AdminQuiz
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Category
// @Router       /admin/quiz/categories [get]
func (h *QuizAdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.content.ListCategories()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// @Summary      Категория по orderRank
// @Tags         AdminQuiz
// @Produce      json
// @Security     BearerAuth
// @Param        rank  path      int  true  "orderRank"
// @Success      200   {object}  models.Category
// @Failure      404   {object}  map[string]string
// @Router       /admin/quiz/category/{rank} [get]
func (h *QuizAdminHandler) GetCategory(c *gin.Context) {
	rank, ok := paramInt(c, "rank")
	if !ok {
		return
	}
	category, err := h.content.GetCategoryByRank(rank)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// @Summary      Обновление категории
// @Tags         AdminQuiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        rank      path      int                           true  "orderRank"
// @Param        category  body      models.UpdateCategoryRequest  true  "Изменяемые поля"
// @Success      200       {object}  models.Category
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /admin/quiz/category/{rank} [patch]
func (h *QuizAdminHandler) UpdateCategory(c *gin.Context) {
	rank, ok := paramInt(c, "rank")
	if !ok {
		return
	}
	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.content.UpdateCategory(rank, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// @Summary      Удаление категории
// @Description  Вопросы категории и их переводы удаляются каскадом
// @Tags         AdminQuiz
// @Produce      json
// @Security     BearerAuth
// @Param        rank  path      int  true  "orderRank"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/quiz/category/{rank} [delete]
func (h *QuizAdminHandler) DeleteCategory(c *gin.Context) {
	rank, ok := paramInt(c, "rank")
	if !ok {
		return
	}
	if err := h.content.DeleteCategory(rank); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// @Summary      Создание уровня
// @Tags         AdminQuiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tier  body      models.CreateTierRequest  true  "Уровень"
// @Success      201   {object}  models.Tier
// @Failure      409   {object}  map[string]string
// @Router       /admin/quiz/tier [post]
func (h *QuizAdminHandler) CreateTier(c *gin.Context) {
	var req models.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tier, err := h.content.CreateTier(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tier)
}

// @Summary      Список уровней
// @Tags         AdminQuiz
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Tier
// @Router       /admin/quiz/tiers [get]
func (h *QuizAdminHandler) ListTiers(c *gin.Context) {
	tiers, err := h.content.ListTiers()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tiers)
}

// @Summary      Уровень по orderRank
// @Tags         AdminQuiz
// @Produce      json
// @Security     BearerAuth
// @Param        rank  path      int  true  "orderRank"
// @Success      200   {object}  models.Tier
// @Failure      404   {object}  map[string]string
// @Router       /admin/quiz/tier/{rank} [get]
func (h *QuizAdminHandler) GetTier(c *gin.Context) {
	rank, ok := paramInt(c, "rank")
	if !ok {
		return
	}
	tier, err := h.content.GetTierByRank(rank)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tier)
}

// @Summary      Обновление уровня
// @Tags         AdminQuiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        rank  path      int                       true  "orderRank"
// @Param        tier  body      models.UpdateTierRequest  true  "Изменяемые поля"
// @Success      200   {object}  models.Tier
// @Failure      404   {object}  map[string]string
// @Router       /admin/quiz/tier/{rank} [patch]
func (h *QuizAdminHandler) UpdateTier(c *gin.Context) {
	rank, ok := paramInt(c, "rank")
	if !ok {
		return
	}
	var req models.UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tier, err := h.content.UpdateTier(rank, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tier)
}

// @Summary      Пакетное создание вопросов
// @Description  Категория по rank обязана существовать, уровень создаётся по ссылке; батч атомарен
// @Tags         AdminQuiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        questions  body      models.CreateQuestionsRequest  true  "Батч вопросов"
// @Success      201        {object}  map[string]interface{}
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /admin/quiz/questions [post]
func (h *QuizAdminHandler) CreateQuestions(c *gin.Context) {
	var req models.CreateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions, tier, err := h.content.CreateQuestions(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"tier":      tier,
		"questions": questions,
		"count":     len(questions),
	})
}

// @Summary      Вопросы пары (категория, уровень)
// @Tags         AdminQuiz
// @Produce      json
// @Security     BearerAuth
// @Param        categoryRank  path      int  true  "orderRank категории"
// @Param        tierRank      path      int  true  "orderRank уровня"
// @Success      200           {object}  map[string]interface{}
// @Failure      404           {object}  map[string]string
// @Router       /admin/quiz/questions/{categoryRank}/{tierRank} [get]
func (h *QuizAdminHandler) ListQuestions(c *gin.Context) {
	categoryRank, ok := paramInt(c, "categoryRank")
	if !ok {
		return
	}
	tierRank, ok := paramInt(c, "tierRank")
	if !ok {
		return
	}

	category, tier, questions, err := h.content.ListQuestions(categoryRank, tierRank)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category":  category,
		"tier":      tier,
		"questions": questions,
	})
}

// @Summary      Обновление вопроса
// @Tags         AdminQuiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int                           true  "ID вопроса"
// @Param        question  body      models.UpdateQuestionRequest  true  "Изменяемые поля"
// @Success      200       {object}  models.Question
// @Failure      404       {object}  map[string]string
// @Router       /admin/quiz/question/{id} [patch]
func (h *QuizAdminHandler) UpdateQuestion(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.content.UpdateQuestion(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// @Summary      Удаление вопроса
// @Tags         AdminQuiz
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "ID вопроса"
// @Success      200 {object}  map[string]string
// @Failure      404 {object}  map[string]string
// @Router       /admin/quiz/question/{id} [delete]
func (h *QuizAdminHandler) DeleteQuestion(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteQuestion(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// @Summary      Переводы вопроса
// @Tags         AdminQuiz
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "ID вопроса"
// @Success      200 {object}  map[string]interface{}
// @Failure      404 {object}  map[string]string
// @Router       /admin/quiz/question/{id}/translations [get]
func (h *QuizAdminHandler) GetTranslations(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	question, translations, err := h.content.GetTranslations(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question":     question,
		"translations": translations,
	})
}

// @Summary      Обновление перевода
// @Tags         AdminQuiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      int                              true  "ID перевода"
// @Param        translation  body      models.UpdateTranslationRequest  true  "Изменяемые поля"
// @Success      200          {object}  models.Translation
// @Failure      404          {object}  map[string]string
// @Router       /admin/quiz/translation/{id} [patch]
func (h *QuizAdminHandler) UpdateTranslation(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req models.UpdateTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	translation, err := h.content.UpdateTranslation(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, translation)
}

// @Summary      Массовый импорт переводов
// @Description  Частичный успех допустим: сводка processed/created/updated/skipped с ошибками
// @Tags         AdminQuiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        import  body      models.TranslationImportRequest  true  "Пакет переводов"
// @Success      200     {object}  models.TranslationImportResult
// @Router       /admin/quiz/translations/import [post]
func (h *QuizAdminHandler) ImportTranslations(c *gin.Context) {
	var req models.TranslationImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.content.ImportTranslations(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Выдача платного доступа
// @Tags         AdminQuiz
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payment  body      models.CreateUserPaymentRequest  true  "Платёж"
// @Success      201      {object}  models.UserPayment
// @Failure      404      {object}  map[string]string
// @Router       /admin/quiz/payments [post]
func (h *QuizAdminHandler) CreatePayment(c *gin.Context) {
	var req models.CreateUserPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.content.CreatePayment(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// @Summary      Список платежей
// @Tags         AdminQuiz
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.UserPayment
// @Router       /admin/quiz/payments [get]
func (h *QuizAdminHandler) ListPayments(c *gin.Context) {
	payments, err := h.content.ListPayments()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
