package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-admin-api/internal/config"
	"github.com/yourusername/quiz-admin-api/internal/handler"
	"github.com/yourusername/quiz-admin-api/internal/middleware"
	pgRepo "github.com/yourusername/quiz-admin-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quiz-admin-api/internal/repository/redis"
	"github.com/yourusername/quiz-admin-api/internal/service"
	"github.com/yourusername/quiz-admin-api/pkg/auth"
	"github.com/yourusername/quiz-admin-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis (хранилище сессий)
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	adminRepo := pgRepo.NewAdminRepo(db)
	themeRepo := pgRepo.NewThemeRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)

	sessionRepo, err := redisRepo.NewSessionRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize SessionRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервис сессионных токенов
	jwtService, err := auth.NewJWTService(cfg.Session.SecretKey, cfg.Session.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	adminService, err := service.NewAdminService(adminRepo)
	if err != nil {
		log.Printf("Failed to initialize AdminService: %v", err)
		os.Exit(1)
	}
	authService, err := service.NewAuthService(adminRepo, sessionRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	quizService := service.NewQuizService(themeRepo, questionRepo)

	// Бутстрап администратора: идемпотентен, безопасен при каждом старте
	if err := adminService.Bootstrap(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Printf("Failed to bootstrap admin: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем обработчики
	cookieMaxAge := int(jwtService.Expiration().Seconds())
	authHandler := handler.NewAuthHandler(authService, cookieMaxAge, isProduction)
	quizHandler := handler.NewQuizHandler(quizService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Слой трансляции ошибок оборачивает весь конвейер:
	// ни одна ошибка не уходит клиенту вне единого конверта
	router.Use(middleware.ErrorHandler())

	// Разрешение сессии прикрепляет личность до любой доменной логики
	router.Use(authMiddleware.ResolveAdmin())

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/login", rateLimiter.Limit(middleware.LoginRateLimitConfig()), authHandler.Login)

			authedAdmin := adminGroup.Group("/")
			authedAdmin.Use(authMiddleware.RequireAdmin())
			{
				authedAdmin.GET("/current", authHandler.Current)
				authedAdmin.POST("/logout", authHandler.Logout)
			}
		}

		themes := api.Group("/themes")
		themes.Use(authMiddleware.RequireAdmin())
		{
			themes.POST("", quizHandler.CreateTheme)
			themes.GET("", quizHandler.ListThemes)
		}

		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAdmin())
		{
			questions.POST("", quizHandler.CreateQuestion)
			questions.GET("", quizHandler.ListQuestions)
			questions.GET("/export", quizHandler.ExportQuestions)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Останавливаем сервер...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Failed to close Redis client: %v", err)
	}

	log.Println("Сервер остановлен")
}
