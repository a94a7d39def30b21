package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizarena/internal/services"
)

type ScoreHandler struct {
	scores services.ScoreService
}

func NewScoreHandler(scores services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scores: scores}
}

// @Summary      Таблица лидеров
// @Description  Позиционные ранги по убыванию очков; limit по умолчанию 10
// @Tags         Score
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Размер выборки"
// @Success      200    {array}   services.LeaderboardEntry
// @Router       /score/leaderboard [get]
func (h *ScoreHandler) GetLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	entries, err := h.scores.GetLeaderboard(limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary      Ранг пользователя
// @Description  Соревновательный ранг: 1 + число пользователей со строго большими очками
// @Tags         Score
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.UserRank
// @Router       /score/rank [get]
func (h *ScoreHandler) GetUserRank(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rank, err := h.scores.GetUserRank(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rank)
}

// @Summary      История начислений
// @Description  Объединённая лента квизов и ежедневных задач, новые сверху
// @Tags         Score
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  services.ScoreHistoryItem
// @Router       /score/history [get]
func (h *ScoreHandler) GetScoreHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	history, err := h.scores.GetScoreHistory(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// @Summary      Статистика очков
// @Tags         Score
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.ScoreStats
// @Router       /score/stats [get]
func (h *ScoreHandler) GetScoreStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.scores.GetScoreStats(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
