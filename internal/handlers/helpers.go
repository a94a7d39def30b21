package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizarena/internal/services"
)

// более устойчиво к типам (int / int64 / float64 / string)
func getInt64FromCtx(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func currentUserID(c *gin.Context) (int64, bool) {
	return getInt64FromCtx(c, "user_id")
}

func currentAdminID(c *gin.Context) (int64, bool) {
	return getInt64FromCtx(c, "admin_id")
}

// respondServiceError — единая развязка сервисных sentinel-ошибок в статусы.
// Всё, что не распознано, уходит как 500 с общим текстом, детали — в лог.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAdminNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrTierNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrTranslationNotFound),
		errors.Is(err, services.ErrNoQuestions):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrAdminExists),
		errors.Is(err, services.ErrNameTaken),
		errors.Is(err, services.ErrOrderRankTaken),
		errors.Is(err, services.ErrDailyTaskDone):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrOtpInvalid),
		errors.Is(err, services.ErrOtpExpired),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrTfaNotEnabled),
		errors.Is(err, services.ErrTfaCodeInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTierLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[http] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func paramInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return n, true
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return n, true
}
