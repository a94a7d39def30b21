package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizarena/internal/models"
	"quizarena/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyOtpRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Code       string  `json:"code" binding:"required"`
	Username   *string `json:"username"`
	TelegramID *string `json:"telegram_id"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// @Summary      Запрос OTP-кода
// @Description  Отправляет одноразовый код на email нового пользователя
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signup  body      signupRequest  true  "Email"
// @Success      200     {object}  map[string]string
// @Failure      400     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.RequestOtp(req.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

// @Summary      Подтверждение OTP-кода
// @Description  Проверяет код, создаёт пользователя при необходимости и выдаёт пару токенов
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        verify  body      verifyOtpRequest  true  "Email и код"
// @Success      200     {object}  map[string]interface{}
// @Failure      401     {object}  map[string]string
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req verifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, user, err := h.authService.VerifyOtp(req.Email, req.Code, req.Username, req.TelegramID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	log.Printf("[auth][verify-otp] ok: user=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user,
	})
}

// @Summary      Вход по Telegram ID
// @Description  Выдаёт пару токенов привязанному пользователю
// @Tags         Auth
// @Produce      json
// @Param        telegramId  path      string  true  "Telegram ID"
// @Success      200         {object}  map[string]interface{}
// @Failure      404         {object}  map[string]string
// @Router       /auth/signin/{telegramId} [get]
func (h *AuthHandler) SigninByTelegram(c *gin.Context) {
	telegramID := c.Param("telegramId")
	if telegramID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid telegramId"})
		return
	}

	pair, user, err := h.authService.GetByTelegramID(telegramID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user,
	})
}

// @Summary      Обновление токенов
// @Description  Меняет действующий refresh-токен на новую пару
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        refresh  body      refreshRequest  true  "Refresh-токен"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  map[string]string
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, user, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user,
	})
}

// @Summary      Текущий профиль
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user, err := h.authService.GetCurrentUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Обновление профиля
// @Description  Частичное обновление: username, language_preference, wallet_address, telegram_id
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile  body      models.UpdateUserRequest  true  "Изменяемые поля"
// @Success      200      {object}  models.User
// @Failure      401      {object}  map[string]string
// @Router       /auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.UpdateProfile(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
