package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/engrosnet/catalog-service/config"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/engrosnet/catalog-service/internal/middleware"

	analyticsH "github.com/engrosnet/catalog-service/internal/analytics/handler"
	analyticsRepoPkg "github.com/engrosnet/catalog-service/internal/analytics/repository"
	analyticsUCPkg "github.com/engrosnet/catalog-service/internal/analytics/usecase"

	catalogH "github.com/engrosnet/catalog-service/internal/catalog/handler"
	catalogRepoPkg "github.com/engrosnet/catalog-service/internal/catalog/repository"
	catalogUCPkg "github.com/engrosnet/catalog-service/internal/catalog/usecase"

	catH "github.com/engrosnet/catalog-service/internal/category/handler"
	catRepoPkg "github.com/engrosnet/catalog-service/internal/category/repository"
	catUCPkg "github.com/engrosnet/catalog-service/internal/category/usecase"

	favRepoPkg "github.com/engrosnet/catalog-service/internal/favorite/repository"

	invListenerPkg "github.com/engrosnet/catalog-service/internal/inventory/listener"
	invRepoPkg "github.com/engrosnet/catalog-service/internal/inventory/repository"
	invUCPkg "github.com/engrosnet/catalog-service/internal/inventory/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	// 3. Connect to Database
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User,
		cfg.Postgres.Password, cfg.Postgres.DBName, cfg.Postgres.SSLMode)
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second)
	defer db.Close()
	appLogger.Info("connected to PostgreSQL", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka Consumer
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaReader.Close()
	appLogger.Info("connected to Kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Elasticsearch
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		// Quick search falls back to the database when the cluster is down.
		appLogger.Warn("could not connect to Elasticsearch", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize Repositories
	catalogRepo := catalogRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	favRepo := favRepoPkg.NewPGRepository(db)
	analyticsRepo := analyticsRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	invUC := invUCPkg.NewInventoryUseCase(invRepo, appLogger)
	catalogUC := catalogUCPkg.NewCatalogUseCase(catalogRepo, invUC, catRepo, favRepo, redisClient, esClient, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	analyticsUC := analyticsUCPkg.NewAnalyticsUseCase(analyticsRepo, catalogRepo, invUC, appLogger)

	// 9. Start the goods receipt listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	invListener := invListenerPkg.NewReceiptListener(kafkaReader, invUC, appLogger)
	go invListener.Start(ctx)

	// 10. Initialize Handlers & Routes
	catalogHandler := catalogH.NewCatalogHandler(catalogUC, appLogger)
	catHandler := catH.NewCategoryHandler(catUC, appLogger)
	analyticsHandler := analyticsH.NewAnalyticsHandler(analyticsUC, appLogger)

	if cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Auth(cfg.JWT.SecretKey))

	router.GET("/products", catalogHandler.List)
	router.GET("/products/:slug", catalogHandler.GetBySlug)
	router.GET("/search", catalogHandler.QuickSearch)

	admin := router.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/products", catalogHandler.List)
		admin.GET("/products/:id", catalogHandler.GetByID)
		admin.POST("/products", catalogHandler.Create)
		admin.PUT("/products/:id", catalogHandler.Update)
		admin.DELETE("/products/:id", catalogHandler.Delete)

		admin.GET("/categories", catHandler.List)
		admin.GET("/categories/:id", catHandler.Get)
		admin.POST("/categories", catHandler.Create)
		admin.PUT("/categories/:id", catHandler.Update)
		admin.DELETE("/categories/:id", catHandler.Delete)

		admin.GET("/analytics/low-stock", analyticsHandler.LowStock)
		admin.GET("/analytics/top-products", analyticsHandler.TopProducts)
		admin.GET("/analytics/revenue", analyticsHandler.Revenue)
		admin.GET("/analytics/status", analyticsHandler.Status)
	}

	// 11. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		appLogger.Info("starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	appLogger.Info("server stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	var zapCfg zap.Config
	if cfg.Server.AppEnv == "dev" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Encoding = cfg.Logger.Encoding
	if lvl, err := zap.ParseAtomicLevel(cfg.Logger.Level); err == nil {
		zapCfg.Level = lvl
	}
	zapCfg.DisableCaller = cfg.Logger.DisableCaller
	zapCfg.DisableStacktrace = cfg.Logger.DisableStacktrace

	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}
