package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-cms/portfolio-api/handlers"
	"github.com/portfolio-cms/portfolio-api/internal/admins"
	"github.com/portfolio-cms/portfolio-api/internal/cache"
	"github.com/portfolio-cms/portfolio-api/internal/config"
	"github.com/portfolio-cms/portfolio-api/internal/content/handler"
	"github.com/portfolio-cms/portfolio-api/internal/content/repository"
	"github.com/portfolio-cms/portfolio-api/internal/content/service"
	"github.com/portfolio-cms/portfolio-api/internal/database"
	"github.com/portfolio-cms/portfolio-api/internal/storage"
	"github.com/portfolio-cms/portfolio-api/internal/tokens"
	"github.com/portfolio-cms/portfolio-api/pkg/logger"
	"github.com/portfolio-cms/portfolio-api/pkg/metrics"
	"github.com/portfolio-cms/portfolio-api/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	if cfg.Log.File != "" {
		logger.SetFile(cfg.Log.File)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// The client connects lazily: with the database down the server still
	// starts and every store call fails with a 500.
	client, err := database.NewClient(cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Criticalf("invalid MongoDB configuration (%v), falling back to driver defaults", err)
		client, err = database.NewClient("", cfg.MongoDB.Timeout)
		if err != nil {
			logger.Fatalf("mongo client: %v", err)
		}
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB.Database)

	if err := database.Ping(ctx, client, cfg.MongoDB.Timeout); err != nil {
		logger.Criticalf("MongoDB unreachable at startup: %v", err)
	} else {
		ictx, cancel := context.WithTimeout(ctx, cfg.MongoDB.Timeout)
		if err := database.EnsureIndexes(ictx, db); err != nil {
			logger.Warnf("ensure indexes: %v", err)
		}
		cancel()
	}

	var contentCache cache.ContentCache
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s), content cache disabled: %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			contentCache = cache.NewRedisContentCache(redisClient, "portfolio:", cfg.Redis.CacheTTL)
			logger.Infof("content cache enabled on Redis %s:%s ttl=%s", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.CacheTTL)
		}
	}

	var uploads storage.Store
	if cfg.MinIO.Endpoint != "" {
		ms, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Fatalf("minio storage: %v", err)
		}
		uploads = ms
		r.GET(storage.URLPrefix+":name", handler.UploadRedirect(ms))
		logger.Infof("uploads stored in MinIO bucket %s", cfg.MinIO.Bucket)
	} else {
		ls, err := storage.NewLocalStorage(cfg.Uploads.Dir)
		if err != nil {
			logger.Fatalf("upload storage: %v", err)
		}
		uploads = ls
		r.Static(storage.URLPrefix, ls.Dir())
		logger.Infof("uploads stored in %s", ls.Dir())
	}

	tokenMgr := tokens.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	adminSvc := admins.NewService(admins.NewMongoRepository(db.Collection(database.AdminsCollection)), tokenMgr)

	// Bootstrap finishes before the listener binds so the first login can
	// never race the admin insert.
	bctx, cancel := context.WithTimeout(ctx, cfg.MongoDB.Timeout)
	if created, err := adminSvc.EnsureAdmin(bctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Errorf("admin bootstrap failed: %v", err)
	} else if created {
		logger.Infof("admin bootstrap: created %s", cfg.Admin.Email)
	}
	cancel()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the database answers a ping
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{"mongo": database.Ping(c.Request.Context(), client, 2*time.Second) == nil}
		if redisClient != nil {
			deps["redis"] = redisClient.Ping(c.Request.Context()).Err() == nil
		}
		status, code := "ready", http.StatusOK
		if !deps["mongo"] {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	api := r.Group(cfg.Server.APIPrefix)
	handlers.NewAuthHandler(adminSvc).Register(api)
	contentSvc := service.New(repository.NewMongoStore(db), contentCache)
	handler.RegisterContentRoutes(api, handler.New(contentSvc, uploads), middleware.AdminAuth(tokenMgr))
	handlers.RegisterSwagger(r, cfg.Server.APIPrefix)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Infof("Starting portfolio API on %s (prefix %s)", addr, cfg.Server.APIPrefix)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server failed: %v", err)
	}
}
