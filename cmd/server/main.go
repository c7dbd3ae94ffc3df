package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/config"
	"github.com/pestozap/pestozap-backend/internal/database"
	"github.com/pestozap/pestozap-backend/internal/handler"
	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/pestozap/pestozap-backend/internal/middleware"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/redis"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/internal/storage"
	"github.com/pestozap/pestozap-backend/pkg/response"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("load config", zap.Error(err))
	}
	if cfg.Server.Mode == gin.DebugMode {
		logger.SetDebug()
	}
	log := logger.L()
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatal("init database", zap.Error(err))
	}
	defer database.Close()
	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	if err := redis.Init(&cfg.Redis); err != nil {
		log.Fatal("init redis", zap.Error(err))
	}
	defer redis.Close()
	log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))

	if err := database.AutoMigrate(model.All()...); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}

	privateKey, err := service.LoadPrivateKey(cfg.JWT.PrivateKeyPath)
	if err != nil {
		log.Fatal("load jwt key", zap.Error(err))
	}
	if cfg.JWT.PrivateKeyPath == "" {
		log.Warn("jwt.private_key_path not set, using an ephemeral key")
	}

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		log.Fatal("init storage", zap.Error(err))
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	uploadService := service.NewUploadService(store, &service.UploadConfig{
		MaxSize:      cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	})

	services := &handler.Services{
		Auth:  service.NewAuthService(userRepo),
		Users: service.NewUserService(userRepo, repository.NewUserProfileRepository(db), uploadService),
		Tokens: service.NewTokenService(&service.TokenServiceConfig{
			PrivateKey:    privateKey,
			KeyID:         "key-1",
			Issuer:        cfg.JWT.Issuer,
			AccessExpiry:  cfg.JWT.AccessExpiry,
			RefreshExpiry: cfg.JWT.RefreshExpiry,
			Revocations:   redis.NewTokenDenyList(redis.GetClient()),
		}),
		Blog: service.NewBlogService(
			repository.NewCategoryRepository(db),
			repository.NewTagRepository(db),
			repository.NewPostRepository(db),
			repository.NewCommentRepository(db),
			service.BlogOptions{
				Categories:    cfg.Blog.Categories,
				FeaturedLimit: cfg.Blog.FeaturedLimit,
				RelatedLimit:  cfg.Blog.RelatedLimit,
			},
		),
		Careers:   service.NewCareersService(repository.NewJobRepository(db), repository.NewApplicationRepository(db)),
		Enquiries: service.NewEnquiryService(repository.NewEnquiryRepository(db)),
		Offers:    service.NewOfferService(repository.NewOfferRepository(db)),
		Reviews:   service.NewReviewService(repository.NewReviewRepository(db)),
		Dashboard: service.NewDashboardService(
			repository.NewDashboardRepository(db),
			redis.NewJSONCache(redis.GetClient(), "dashboard:"),
			service.DashboardOptions{
				CacheTTL:      cfg.Dashboard.CacheTTL,
				ActivityLimit: cfg.Dashboard.ActivityLimit,
				Months:        cfg.Dashboard.Months,
			},
		),
		Uploads: uploadService,
	}

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins...))

	if local, ok := store.(*storage.Local); ok {
		router.Static("/media", local.Dir())
	}

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		if err := database.Ping(); err != nil {
			dbStatus = "error"
		}
		redisStatus := "ok"
		if err := redis.Ping(c.Request.Context()); err != nil {
			redisStatus = "error"
		}

		response.Success(c, gin.H{
			"status":   "ok",
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"redis":    redisStatus,
		})
	})

	api := router.Group("/api/v1")
	api.GET("/ping", func(c *gin.Context) {
		response.Success(c, "pong")
	})
	handler.RegisterRoutes(api, services)

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, response.CodeNotFound)
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
