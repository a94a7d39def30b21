package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizarena/internal/models"
	"quizarena/internal/services"
)

type AdminAuthHandler struct {
	adminService services.AdminAuthService
}

func NewAdminAuthHandler(adminService services.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{adminService: adminService}
}

type tfaCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// @Summary      Вход администратора
// @Description  При включённой 2FA токены не выдаются — вернётся requires_tfa
// @Tags         AdminAuth
// @Accept       json
// @Produce      json
// @Param        login  body      models.AdminLoginRequest  true  "Данные для входа"
// @Success      200    {object}  services.AdminLoginResult
// @Failure      401    {object}  map[string]string
// @Router       /admin/auth/login [post]
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.adminService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if result.RequiresTfa {
		log.Printf("[admin][login] tfa step required: admin=%d", result.TempUserID)
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Вход администратора с TOTP-кодом
// @Tags         AdminAuth
// @Accept       json
// @Produce      json
// @Param        login  body      models.AdminTfaLoginRequest  true  "Данные для входа и код"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Router       /admin/auth/login-with-tfa [post]
func (h *AdminAuthHandler) LoginWithTfa(c *gin.Context) {
	var req models.AdminTfaLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, admin, err := h.adminService.LoginWithTfa(req.Email, req.Password, req.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"admin":         admin,
	})
}

// @Summary      Создание администратора
// @Tags         AdminAuth
// @Accept       json
// @Produce      json
// @Param        admin  body      models.CreateAdminRequest  true  "Новый администратор"
// @Success      201    {object}  models.Admin
// @Failure      409    {object}  map[string]string
// @Router       /admin/auth/create [post]
func (h *AdminAuthHandler) Create(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.adminService.CreateAdmin(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// @Summary      Обновление админских токенов
// @Description  Сверяет refresh-токен с отпечатком на сервере и ротирует пару
// @Tags         AdminAuth
// @Accept       json
// @Produce      json
// @Param        refresh  body      refreshRequest  true  "Refresh-токен"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  map[string]string
// @Router       /admin/auth/refresh [post]
func (h *AdminAuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, admin, err := h.adminService.Refresh(req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"admin":         admin,
	})
}

// @Summary      Включение 2FA
// @Description  Генерирует секрет, otpauth-URI и QR; подтверждение — verify-tfa
// @Tags         AdminAuth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.TfaSetup
// @Failure      401  {object}  map[string]string
// @Router       /admin/auth/enable-tfa [post]
func (h *AdminAuthHandler) EnableTfa(c *gin.Context) {
	adminID, ok := currentAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	setup, err := h.adminService.EnableTfa(adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, setup)
}

// @Summary      Подтверждение 2FA
// @Description  Валидный код включает обязательную проверку TOTP при входе
// @Tags         AdminAuth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  body      tfaCodeRequest  true  "TOTP-код"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /admin/auth/verify-tfa [post]
func (h *AdminAuthHandler) VerifyTfa(c *gin.Context) {
	adminID, ok := currentAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req tfaCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.VerifyTfa(adminID, req.Code); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "2FA verified"})
}

// @Summary      Отключение 2FA
// @Tags         AdminAuth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /admin/auth/disable-tfa [post]
func (h *AdminAuthHandler) DisableTfa(c *gin.Context) {
	adminID, ok := currentAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.adminService.DisableTfa(adminID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "2FA disabled"})
}

// @Summary      Профиль администратора
// @Tags         AdminAuth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Admin
// @Failure      401  {object}  map[string]string
// @Router       /admin/auth/profile [get]
func (h *AdminAuthHandler) Profile(c *gin.Context) {
	adminID, ok := currentAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	admin, err := h.adminService.Profile(adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}
