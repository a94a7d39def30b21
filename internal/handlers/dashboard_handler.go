package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quizarena/internal/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// @Summary      Сводка дашборда
// @Tags         AdminDashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.DashboardStats
// @Router       /admin/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboard.GetDashboardStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Активные пользователи
// @Description  Снимок presence-трекера: кто был активен за последние 30 минут
// @Tags         AdminDashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  presence.Info
// @Router       /admin/dashboard/active [get]
func (h *DashboardHandler) GetActiveUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.GetActiveUsers())
}

// @Summary      Все пользователи
// @Description  По убыванию очков, с позиционным рангом и флагом is_active
// @Tags         AdminDashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  services.DashboardUser
// @Router       /admin/dashboard/users [get]
func (h *DashboardHandler) GetAllUsers(c *gin.Context) {
	users, err := h.dashboard.GetAllUsers()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      PDF-отчёт по лидерборду
// @Tags         AdminDashboard
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /admin/dashboard/report.pdf [get]
func (h *DashboardHandler) GetReport(c *gin.Context) {
	data, err := h.dashboard.GenerateReport()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard_%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
