package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/apexrebate/insight-service/internal/api"
	"github.com/apexrebate/insight-service/internal/config"
	"github.com/apexrebate/insight-service/internal/database"
	"github.com/apexrebate/insight-service/internal/insights"
	"github.com/apexrebate/insight-service/internal/services"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := initLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting ApexRebate Insight Service")

	// Load secrets from Vault if available, otherwise use config
	if vaultURL := viper.GetString("vault.url"); vaultURL != "" {
		if vaultToken := viper.GetString("vault.token"); vaultToken != "" {
			vaultClient, err := services.NewVaultClient(vaultURL, vaultToken, logger)
			if err != nil {
				logger.Warn("Failed to initialize Vault client, using config-based secrets", zap.Error(err))
			} else if secrets, err := vaultClient.LoadSecretsFromVault("insight-service"); err == nil {
				for key, value := range secrets {
					viper.Set(key, value)
				}
				logger.Info("Secrets loaded from Vault successfully")
			} else {
				logger.Warn("Failed to load secrets from Vault, using config", zap.Error(err))
			}
		}
	} else {
		logger.Info("Using config-based secrets (Vault not configured)")
	}

	// Initialize database
	db, err := database.Connect(logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Run database migrations FIRST
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Seed the achievement catalog
	if err := database.SeedAchievements(db); err != nil {
		logger.Fatal("Failed to seed achievement catalog", zap.Error(err))
	}

	// Initialize the report cache when Redis is configured
	var reportCache *services.ReportCache
	if redisAddr := viper.GetString("redis.addr"); redisAddr != "" {
		cacheTTL := time.Duration(viper.GetInt("redis.ttl")) * time.Second
		reportCache, err = services.NewReportCache(
			redisAddr,
			viper.GetString("redis.password"),
			viper.GetInt("redis.db"),
			cacheTTL,
			logger,
		)
		if err != nil {
			logger.Warn("Failed to initialize report cache, serving uncached", zap.Error(err))
			reportCache = nil
		} else {
			logger.Info("Report cache initialized", zap.String("addr", redisAddr))
			defer reportCache.Close()
		}
	} else {
		logger.Info("Report cache not configured, serving uncached")
	}

	// Initialize the insight engine
	engine := insights.NewEngine(engineConfig(), logger)

	// Initialize services
	insightService := services.NewInsightService(db, engine, reportCache, logger)

	// Initialize API handlers
	handlers := api.NewHandlers(insightService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(api.CORS())

	handlers.RegisterRoutes(router)

	// Start server
	port := viper.GetString("server.port")
	if port == "" {
		port = "8090"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// engineConfig applies the deployment overrides on top of the engine defaults
func engineConfig() insights.Config {
	cfg := insights.DefaultConfig()

	appCfg := config.Get()
	if appCfg.Insights.BaselineAvgEarnings > 0 {
		cfg.Baseline.AverageEarnings = appCfg.Insights.BaselineAvgEarnings
	}
	if appCfg.Insights.BaselineTotalUsers > 0 {
		cfg.Baseline.TotalUsers = appCfg.Insights.BaselineTotalUsers
	}
	if appCfg.Insights.ReferralGrowthMultiplier > 0 {
		cfg.ReferralGrowthMultiplier = appCfg.Insights.ReferralGrowthMultiplier
	}
	if appCfg.Insights.AchievementFallbackDays > 0 {
		cfg.AchievementFallbackDays = appCfg.Insights.AchievementFallbackDays
	}

	return cfg
}

func initLogger() (*zap.Logger, error) {
	level := viper.GetString("log.level")
	var logLevel zap.AtomicLevel

	switch level {
	case "debug":
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		logLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		logLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config := zap.NewProductionConfig()
	config.Level = logLevel
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}
