package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"quizarena/internal/config"
	"quizarena/internal/handlers"
	"quizarena/internal/middleware"
	"quizarena/internal/pdf"
	"quizarena/internal/presence"
	"quizarena/internal/repositories"
	"quizarena/internal/routes"
	"quizarena/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "quizarena/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetSigningKey(cfg.JWT.Secret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("БД недоступна: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOtpRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	tierRepo := repositories.NewTierRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	translationRepo := repositories.NewTranslationRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)

	// === Services ===
	accessTTL := time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute
	refreshTTL := time.Duration(cfg.JWT.RefreshTTLDays) * 24 * time.Hour

	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	tracker := presence.NewTracker(presence.DefaultTTL, 0)
	defer tracker.Stop()

	var telegramService *services.TelegramService
	if cfg.Telegram.Enabled {
		telegramService = services.NewTelegramService(cfg.Telegram.BotToken, userRepo)
		if telegramService.Enabled() {
			go telegramService.Start()
			defer telegramService.Stop()
		}
	}
	// интерфейсное значение с nil-указателем внутри нам не нужно
	var notifier services.PointsNotifier
	if telegramService != nil && telegramService.Enabled() {
		notifier = telegramService
	}

	authService := services.NewAuthService(userRepo, otpRepo, emailService, tracker, accessTTL, refreshTTL)
	adminAuthService := services.NewAdminAuthService(adminRepo, cfg.JWT.TOTPIssuer, accessTTL, refreshTTL)
	contentService := services.NewQuizContentService(categoryRepo, tierRepo, questionRepo, translationRepo, paymentRepo, userRepo)
	quizService := services.NewQuizService(userRepo, categoryRepo, tierRepo, questionRepo, translationRepo, paymentRepo, historyRepo, notifier)
	scoreService := services.NewScoreService(userRepo, historyRepo)

	reportGen := pdf.NewReportGenerator("QuizArena")
	dashboardService := services.NewDashboardService(userRepo, tracker, reportGen)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminAuthService)
	quizHandler := handlers.NewQuizHandler(quizService)
	quizAdminHandler := handlers.NewQuizAdminHandler(contentService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		adminAuthHandler,
		quizHandler,
		quizAdminHandler,
		scoreHandler,
		dashboardHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
