package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rideguard/internal/config"
	handlers "rideguard/internal/handlers/shared"
	"rideguard/internal/middleware"
	mongorepo "rideguard/internal/repositories/mongodb"
	"rideguard/internal/services"
	"rideguard/pkg/cache"
	"rideguard/pkg/database"
	"rideguard/pkg/logger"
	"rideguard/pkg/maps"
	"rideguard/pkg/push"
	"rideguard/pkg/retry"
	"rideguard/pkg/sms"
	"rideguard/pkg/storage"
	"rideguard/pkg/websocket"
	"rideguard/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
		Caller: cfg.App.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	mongodb, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer mongodb.Close()

	if err := database.NewMigrator(mongodb.Database).Up(context.Background()); err != nil {
		log.WithError(err).Fatal("Failed to run database migrations")
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	smsProvider, err := buildSMSProvider(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize SMS provider")
	}

	pushProvider, err := buildPushProvider(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize push provider")
	}

	mapsProvider, err := maps.NewGoogleMapsProvider(cfg.Maps.GoogleMaps.APIKey)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize maps provider")
	}

	storageProvider, err := storage.NewAWSS3Storage(cfg.Storage.AWS.Region, cfg.Storage.AWS.Bucket)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage provider")
	}

	wsHandler := websocket.NewHandler(websocket.Options{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		PingInterval:    cfg.WebSocket.PingInterval,
		PongTimeout:     cfg.WebSocket.PongTimeout,
		AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
	})

	incidentRepo := mongorepo.NewIncidentRepository(mongodb.Database, redisCache)
	contactRepo := mongorepo.NewContactRepository(mongodb.Database)

	retryConfig := retry.Config{
		MaxAttempts:     cfg.Emergency.MaxRetryAttempts,
		InitialInterval: cfg.Emergency.RetryBackoff,
	}

	notifier := services.NewContactNotifier(contactRepo, smsProvider, pushProvider, redisCache, retryConfig, log)
	dispatcher := services.NewAuthorityDispatcher(cfg.Emergency, mapsProvider, smsProvider, retryConfig, log)
	trackingService := services.NewTrackingService(cfg.Emergency, redisCache, wsHandler, log)
	recordingService := services.NewRecordingService(cfg.Emergency, storageProvider, pushProvider, redisCache, log)
	emergencyService := services.NewEmergencyService(cfg.Emergency, incidentRepo, notifier, dispatcher, trackingService, recordingService, redisCache, log)
	contactService := services.NewContactService(contactRepo, log)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go trackingService.Run(sweepCtx)

	emergencyHandler := handlers.NewEmergencyHandler(emergencyService, recordingService)
	contactHandler := handlers.NewContactHandler(contactService)
	trackingHandler := handlers.NewTrackingHandler(trackingService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.LoggingMiddleware(log))

	v1 := router.Group("/api/v1")
	routes.SetupEmergencyRoutes(v1, cfg.Security, emergencyHandler, contactHandler, trackingHandler, wsHandler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Starting emergency orchestration server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}

func buildSMSProvider(cfg *config.Config) (sms.SMSProvider, error) {
	switch cfg.SMS.Provider {
	case "sns":
		return sms.NewAWSSNSProvider(cfg.SMS.AWS.Region)
	default:
		return sms.NewTwilioProvider(cfg.SMS.Twilio.AccountSID, cfg.SMS.Twilio.AuthToken, cfg.SMS.Twilio.FromNumber), nil
	}
}

func buildPushProvider(cfg *config.Config) (push.PushProvider, error) {
	switch cfg.Push.Provider {
	case "apns":
		return push.NewAPNSProvider(
			cfg.Push.APNS.KeyFile,
			cfg.Push.APNS.KeyID,
			cfg.Push.APNS.TeamID,
			cfg.Push.APNS.BundleID,
			cfg.Push.APNS.Production,
		)
	default:
		return push.NewFCMProvider(cfg.Push.FCM.Credentials)
	}
}
