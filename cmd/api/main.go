package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/marktrack/marktrack-backend/internal/config"
	"github.com/marktrack/marktrack-backend/internal/handler"
	"github.com/marktrack/marktrack-backend/internal/middleware"
	"github.com/marktrack/marktrack-backend/internal/migration"
	"github.com/marktrack/marktrack-backend/internal/repository"
	"github.com/marktrack/marktrack-backend/internal/routes"
	"github.com/marktrack/marktrack-backend/internal/service"
	pkgcache "github.com/marktrack/marktrack-backend/pkg/cache"
	pkglogger "github.com/marktrack/marktrack-backend/pkg/logger"
	pkgredis "github.com/marktrack/marktrack-backend/pkg/redis"
	pkgstorage "github.com/marktrack/marktrack-backend/pkg/storage"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("starting marktrack-backend")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.GetLogger().Info().Msg("connected to MySQL")

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis (optional: saves and loads work without it)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("Redis unavailable, continuing without cache and edit locks")
		redisClient = nil
	} else {
		pkglogger.GetLogger().Info().Msg("connected to Redis")
	}
	cacheService := pkgcache.NewService(redisClient, cfg.Editor.CacheTTL())

	// S3-compatible object storage
	s3Client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		ForcePathStyle:  cfg.Storage.ForcePathStyle,
	})
	if err != nil {
		log.Fatalf("Failed to init object storage: %v", err)
	}
	pkglogger.GetLogger().Info().Str("endpoint", cfg.Storage.Endpoint).Msg("connected to object storage")

	// Repositories
	docRepo := repository.NewDocumentRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	shareRepo := repository.NewShareRepository(db)

	// Services
	ledger := service.NewVersionLedger(versionRepo, s3Client, cfg.Storage.DocumentBucket, cfg.Editor.KeepVersions)
	extractor := service.NewImageExtractor(s3Client, cfg.Storage.ImageBucket)
	docService := service.NewDocumentService(
		docRepo, versionRepo, userRepo, activityRepo, shareRepo,
		ledger, s3Client, cacheService, extractor,
		service.DocumentConfig{
			MaxInlineSize:   cfg.Editor.MaxInlineSize,
			MaxDocumentSize: cfg.Editor.MaxDocumentSize,
			DocumentBucket:  cfg.Storage.DocumentBucket,
			ImageBucket:     cfg.Storage.ImageBucket,
			AutosaveLockTTL: cfg.Editor.AutosaveLockTTL(),
		},
	)
	shareService := service.NewShareService(shareRepo, userRepo, docService, docRepo,
		service.ShareConfig{DefaultExpiry: cfg.Editor.ShareExpiry()})

	// Handlers
	documentHandler := handler.NewDocumentHandler(docService)
	versionHandler := handler.NewVersionHandler(docService)
	shareHandler := handler.NewShareHandler(shareService)
	mediaHandler := handler.NewMediaHandler(docService)

	// Router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		redisOK := cacheService.IsAvailable() && cacheService.Ping(c.Request.Context()) == nil
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "marktrack-backend",
			"redis":   redisOK,
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(router, documentHandler, versionHandler, shareHandler, mediaHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("invalid DSN: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["time_zone"] = "'+00:00'"

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
