package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizarena/internal/handlers"
	"quizarena/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	adminAuthHandler *handlers.AdminAuthHandler,
	quizHandler *handlers.QuizHandler,
	quizAdminHandler *handlers.QuizAdminHandler,
	scoreHandler *handlers.ScoreHandler,
	dashboardHandler *handlers.DashboardHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/verify-otp", authHandler.VerifyOtp)
		auth.GET("/signin/:telegramId", authHandler.SigninByTelegram)
		auth.POST("/refresh-token", authHandler.RefreshToken)
	}

	adminAuth := r.Group("/admin/auth")
	{
		adminAuth.POST("/login", adminAuthHandler.Login)
		adminAuth.POST("/login-with-tfa", adminAuthHandler.LoginWithTfa)
		adminAuth.POST("/create", adminAuthHandler.Create)
		adminAuth.POST("/refresh", adminAuthHandler.Refresh)

		// управление 2FA и профиль — только с админским access-токеном
		guarded := adminAuth.Group("", middleware.AdminAuth())
		{
			guarded.POST("/enable-tfa", adminAuthHandler.EnableTfa)
			guarded.POST("/verify-tfa", adminAuthHandler.VerifyTfa)
			guarded.POST("/disable-tfa", adminAuthHandler.DisableTfa)
			guarded.GET("/profile", adminAuthHandler.Profile)
		}
	}

	// ---- user-guarded
	profile := r.Group("/auth", middleware.UserAuth())
	{
		profile.GET("/profile", authHandler.Profile)
		profile.PATCH("/profile", authHandler.UpdateProfile)
	}

	quiz := r.Group("/quiz", middleware.UserAuth())
	{
		quiz.GET("/question", quizHandler.GetQuestion)
		quiz.POST("/submit-answer", quizHandler.SubmitAnswer)
		quiz.POST("/complete-tier", quizHandler.CompleteTier)
		quiz.POST("/add-points", quizHandler.AddPoints)
		quiz.GET("/user-progress", quizHandler.GetUserProgress)
		quiz.GET("/categories", quizHandler.ListCategories)
		quiz.GET("/tiers", quizHandler.ListTiers)
	}

	score := r.Group("/score", middleware.UserAuth())
	{
		score.GET("/leaderboard", scoreHandler.GetLeaderboard)
		score.GET("/rank", scoreHandler.GetUserRank)
		score.GET("/history", scoreHandler.GetScoreHistory)
		score.GET("/stats", scoreHandler.GetScoreStats)
	}

	// ---- admin-guarded
	adminQuiz := r.Group("/admin/quiz", middleware.AdminAuth())
	{
		adminQuiz.POST("/category", quizAdminHandler.CreateCategory)
		adminQuiz.GET("/categories", quizAdminHandler.ListCategories)
		adminQuiz.GET("/category/:rank", quizAdminHandler.GetCategory)
		adminQuiz.PATCH("/category/:rank", quizAdminHandler.UpdateCategory)
		adminQuiz.DELETE("/category/:rank", quizAdminHandler.DeleteCategory)

		adminQuiz.POST("/tier", quizAdminHandler.CreateTier)
		adminQuiz.GET("/tiers", quizAdminHandler.ListTiers)
		adminQuiz.GET("/tier/:rank", quizAdminHandler.GetTier)
		adminQuiz.PATCH("/tier/:rank", quizAdminHandler.UpdateTier)

		adminQuiz.POST("/questions", quizAdminHandler.CreateQuestions)
		adminQuiz.GET("/questions/:categoryRank/:tierRank", quizAdminHandler.ListQuestions)
		adminQuiz.PATCH("/question/:id", quizAdminHandler.UpdateQuestion)
		adminQuiz.DELETE("/question/:id", quizAdminHandler.DeleteQuestion)
		adminQuiz.GET("/question/:id/translations", quizAdminHandler.GetTranslations)

		adminQuiz.PATCH("/translation/:id", quizAdminHandler.UpdateTranslation)
		adminQuiz.POST("/translations/import", quizAdminHandler.ImportTranslations)

		adminQuiz.POST("/payments", quizAdminHandler.CreatePayment)
		adminQuiz.GET("/payments", quizAdminHandler.ListPayments)
	}

	adminDashboard := r.Group("/admin/dashboard", middleware.AdminAuth())
	{
		adminDashboard.GET("/stats", dashboardHandler.GetStats)
		adminDashboard.GET("/active", dashboardHandler.GetActiveUsers)
		adminDashboard.GET("/users", dashboardHandler.GetAllUsers)
		adminDashboard.GET("/report.pdf", dashboardHandler.GetReport)
	}

	return r
}
