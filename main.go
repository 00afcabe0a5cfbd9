package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zen-wellness/Zen-snoopy/auth"
	"github.com/zen-wellness/Zen-snoopy/cache"
	"github.com/zen-wellness/Zen-snoopy/config"
	"github.com/zen-wellness/Zen-snoopy/db"
	"github.com/zen-wellness/Zen-snoopy/handlers"
	"github.com/zen-wellness/Zen-snoopy/middleware"
	"github.com/zen-wellness/Zen-snoopy/services"
	"github.com/zen-wellness/Zen-snoopy/store"
	"github.com/zen-wellness/Zen-snoopy/utils"
)

func main() {
	// Инициализация логирования и метрик
	utils.InitLogger()
	defer utils.Logger.Sync()
	utils.InitMetrics()
	handlers.RegisterValidators()

	utils.Logger.Info("starting_application")

	cfg := config.Load()

	// Подключение к БД
	conn, err := db.Connect(cfg)
	if err != nil {
		utils.Logger.Fatal("db_connection_failed", zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	// Redis опционален: без него живём без кэша и rate limit'а
	redisCache, err := cache.New(cfg, utils.Logger)
	if err != nil {
		utils.Logger.Warn("redis_unavailable_degraded_mode", zap.Error(err))
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	st := store.New(conn)
	seeder := services.NewSeeder(st, utils.Logger)
	stats := services.NewStatsService(st, redisCache, utils.Logger)
	quotes := services.NewQuoteService(cfg, utils.Logger)
	verifier := auth.NewJWTVerifier(cfg.AuthTokenSecret)
	h := handlers.New(st, redisCache, stats, quotes, utils.Logger)

	// Настройка Gin
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Middleware в правильном порядке
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(redisCache, 300, time.Minute))

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now(),
			"database":  "connected",
		})
	})

	// Защищенные эндпоинты
	api := r.Group("/api")
	api.Use(middleware.Auth(verifier, st, seeder, cfg.SeedHorizonDays, utils.Logger))
	{
		// Профиль
		api.GET("/profile", h.Profile)
		api.PUT("/profile/preferences", h.UpdatePreferences)

		// Задачи (расписание)
		api.GET("/tasks", h.ListTasks)
		api.POST("/tasks", h.CreateTask)
		api.PUT("/tasks/:id", h.UpdateTask)
		api.DELETE("/tasks/:id", h.DeleteTask)

		// Привычки
		api.GET("/habits", middleware.CacheResponses(redisCache, 30*time.Second), h.ListHabits)
		api.POST("/habits", h.CreateHabit)
		api.PUT("/habits/:id", h.UpdateHabit)
		api.POST("/habits/:id/log", h.LogHabit)
		api.DELETE("/habits/:id", h.DeleteHabit)
		api.GET("/habits/stats", h.HabitStats)

		// Дневник
		api.GET("/journal", h.ListJournal)
		api.POST("/journal", h.CreateJournalEntry)
		api.DELETE("/journal/:id", h.DeleteJournalEntry)

		// Цитата дня
		api.GET("/quote", middleware.CacheResponses(redisCache, time.Hour), h.DailyQuote)
	}

	// Метрики Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Запуск сервера
	startServer(r, cfg.Port)
}

func startServer(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", port))

	fmt.Println("\n🚀 ================================")
	fmt.Println("   Zen Snoopy Backend Started")
	fmt.Println("   ================================")
	fmt.Printf("   🌐 Server:  http://localhost:%s\n", port)
	fmt.Printf("   📊 Metrics: http://localhost:%s/metrics\n", port)
	fmt.Printf("   ❤️  Health: http://localhost:%s/health\n", port)
	fmt.Println("   ================================")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")
	fmt.Println("\n🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	utils.Logger.Info("server_stopped")
	fmt.Println("✅ Server stopped gracefully")
}
