package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	v1 "github.com/mangrove-registry/api/v1"
	"github.com/mangrove-registry/config"
	"github.com/mangrove-registry/database"
	"github.com/mangrove-registry/lib/blobstore"
	"github.com/mangrove-registry/lib/logger"
	"github.com/mangrove-registry/middleware"
	"github.com/mangrove-registry/services"
	"github.com/mangrove-registry/utils"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load environment variables
	config.LoadEnv()
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if err := cfg.Validate(); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Initialize database
	dbLogLevel := gormlogger.Warn
	if cfg.Env == "development" {
		dbLogLevel = gormlogger.Info
	}
	if err := database.Initialize(database.Options{
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.DBPath,
		Logger:      zl,
		LogLevel:    dbLogLevel,
	}); err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	zl.Info("database connection established", zap.String("dialect", database.DB.Dialector.Name()))

	blobs, err := newBlobStore(cfg)
	if err != nil {
		zl.Fatal("failed to initialize blob store", zap.Error(err))
	}

	clock := services.SystemClock()
	audit := services.NewAuditService(database.DB, clock)
	documents := services.NewDocumentService(database.DB, audit, clock)
	authService := services.NewAuthService(database.DB, cfg.JWTSecret, cfg.TokenTTL)

	// Bootstrap admin; without ADMIN_PASSWORD a one-time password is generated
	adminPassword, generated := cfg.AdminPassword, false
	if cfg.AdminEmail != "" && adminPassword == "" {
		if adminPassword, err = utils.GenerateSecurePassword(16); err != nil {
			zl.Fatal("failed to generate admin password", zap.Error(err))
		}
		generated = true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	created, err := authService.EnsureAdmin(ctx, cfg.AdminEmail, adminPassword)
	cancel()
	if err != nil {
		zl.Fatal("failed to create bootstrap admin", zap.Error(err))
	}
	if created {
		fields := []zap.Field{zap.String("email", cfg.AdminEmail)}
		if generated {
			fields = append(fields, zap.String("password", adminPassword))
		}
		zl.Warn("bootstrap admin created", fields...)
	}

	// Initialize router
	router := gin.New()
	router.Use(middleware.Recovery(zl), middleware.RequestLogger(zl))

	// CORS configuration
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 || cfg.CORSOrigins[0] == "*" {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsConfig))

	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// Register API routes
	v1.RegisterRoutes(router.Group("/api/v1"), v1.Dependencies{
		DB:             database.DB,
		Auth:           authService,
		Projects:       services.NewProjectService(database.DB, documents, audit, clock),
		Lifecycle:      services.NewLifecycleService(database.DB, audit, clock),
		Documents:      documents,
		Audit:          audit,
		Queries:        services.NewQueryService(database.DB),
		Blobs:          blobs,
		MaxUploadBytes: cfg.MaxUploadBytes,
		SecureCookie:   cfg.Env != "development",
		Logger:         zl,
	})

	// Start server
	zl.Info("mangrove registry starting",
		zap.String("port", cfg.Port),
		zap.String("blobBackend", cfg.BlobBackend))
	if err := router.Run(":" + cfg.Port); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}

func newBlobStore(cfg config.Config) (blobstore.Store, error) {
	if cfg.BlobBackend == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return blobstore.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Prefix)
	}
	return blobstore.NewLocalStore(cfg.BlobDir, cfg.S3Prefix)
}
