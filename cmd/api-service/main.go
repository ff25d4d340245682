package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang-stock-portfolio/internal/api/config"
	delivery "golang-stock-portfolio/internal/api/delivery/http"
	_ "golang-stock-portfolio/internal/api/docs"
	"golang-stock-portfolio/internal/api/repository"
	"golang-stock-portfolio/internal/api/service"
	"golang-stock-portfolio/pkg/auth"
	"golang-stock-portfolio/pkg/logger"
	"golang-stock-portfolio/pkg/postgres"
	"golang-stock-portfolio/pkg/redis"
	"golang-stock-portfolio/pkg/telegram"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock portfolio API",
	Run:   runServe,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh-prices",
	Short: "Refreshes the stored price of every stock once and exits",
	Run:   runRefresh,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger := mustBootstrap()
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Stock Portfolio API", logger.Field("name", cfg.App.Name), logger.Field("env", cfg.App.Env))

	db := mustOpenDatabase(cfg, appLogger)
	sqlDB, err := db.DB.DB()
	if err != nil {
		appLogger.Fatal("Failed to get database handle", logger.ErrorField(err))
	}
	defer sqlDB.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		SigningKey: cfg.JWT.SigningKey,
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		TTL:        cfg.JWT.TTL,
	}, nil)
	if err != nil {
		appLogger.Fatal("Failed to initialize token service", logger.ErrorField(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	stockRepo := repository.NewStockRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	portfolioRepo := repository.NewPortfolioRepository(db.DB)
	marketDataRepo := repository.NewMarketDataRepository(cfg.MarketData, appLogger)
	lookupRepo := withCache(cfg, marketDataRepo, redisClient, appLogger)

	// Initialize services
	resolver := service.NewStockResolver(stockRepo, lookupRepo, appLogger)
	accountSvc := service.NewAccountService(userRepo, tokens, auth.PasswordPolicy{
		MinLength:      cfg.Password.MinLength,
		RequireUpper:   cfg.Password.RequireUpper,
		RequireLower:   cfg.Password.RequireLower,
		RequireDigit:   cfg.Password.RequireDigit,
		RequireSpecial: cfg.Password.RequireSpecial,
	}, appLogger)
	stockSvc := service.NewStockService(stockRepo, commentRepo, appLogger)
	commentSvc := service.NewCommentService(commentRepo, resolver, appLogger, nil)
	portfolioSvc := service.NewPortfolioService(portfolioRepo, stockRepo, resolver, appLogger)

	if cfg.PriceRefresh.Enabled {
		refreshSvc := service.NewPriceRefreshService(stockRepo, marketDataRepo, newNotifier(cfg, appLogger), appLogger)
		if err := refreshSvc.Start(ctx, cfg.PriceRefresh.Cron); err != nil {
			appLogger.Fatal("Failed to schedule price refresh", logger.ErrorField(err))
		}
	}

	checks := map[string]delivery.HealthCheck{"database": sqlDB.PingContext}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	e := delivery.NewRouter(delivery.Handlers{
		Account:   delivery.NewAccountHandler(accountSvc, appLogger),
		Stock:     delivery.NewStockHandler(stockSvc, appLogger),
		Comment:   delivery.NewCommentHandler(commentSvc, appLogger),
		Portfolio: delivery.NewPortfolioHandler(portfolioSvc, appLogger),
		Health:    delivery.NewHealthHandler(checks, appLogger),
	}, tokens, appLogger)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func runRefresh(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger := mustBootstrap()
	defer func() { _ = appLogger.Sync() }()

	db := mustOpenDatabase(cfg, appLogger)
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	refreshSvc := service.NewPriceRefreshService(
		repository.NewStockRepository(db.DB),
		repository.NewMarketDataRepository(cfg.MarketData, appLogger),
		newNotifier(cfg, appLogger),
		appLogger,
	)
	result, err := refreshSvc.RefreshAll(ctx)
	if err != nil {
		appLogger.Fatal("Price refresh failed", logger.ErrorField(err))
	}
	fmt.Printf("Refreshed %d of %d stocks (%d without data, %d failed).\n",
		result.Updated, result.Total, len(result.Skipped), len(result.Failed))
}

func mustBootstrap() (*config.Config, *logger.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, appLogger
}

func mustOpenDatabase(cfg *config.Config, appLogger *logger.Logger) *postgres.DB {
	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	return db
}

// withCache wraps the market data lookup in the configured cache backend.
func withCache(cfg *config.Config, next repository.MarketDataRepository, redisClient *redis.Client, appLogger *logger.Logger) repository.MarketDataRepository {
	switch cfg.MarketData.CacheBackend {
	case "redis":
		return repository.NewCachedMarketDataRepository(next, repository.NewRedisStockCache(redisClient.Client, cfg.MarketData.CacheTTL, appLogger))
	case "none":
		return next
	default:
		return repository.NewCachedMarketDataRepository(next, repository.NewMemoryStockCache(cfg.MarketData.CacheTTL))
	}
}

func newNotifier(cfg *config.Config, appLogger *logger.Logger) telegram.Notifier {
	if cfg.Telegram.BotToken == "" {
		return telegram.NewNopNotifier()
	}
	notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Warn("Telegram notifier disabled", logger.ErrorField(err))
		return telegram.NewNopNotifier()
	}
	return notifier
}

// @title Stock Portfolio API
// @version 1.0
// @description Stocks, comments and per-user portfolios behind bearer token authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, refreshCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
