package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizlink/bizlink-admin/internal/config"
	"github.com/bizlink/bizlink-admin/internal/database"
	"github.com/bizlink/bizlink-admin/internal/events"
	"github.com/bizlink/bizlink-admin/internal/members"
	"github.com/bizlink/bizlink-admin/internal/notify"
	"github.com/bizlink/bizlink-admin/internal/oidc"
	"github.com/bizlink/bizlink-admin/internal/resources"
	"github.com/bizlink/bizlink-admin/internal/sessions"
	"github.com/bizlink/bizlink-admin/internal/storage"
	"github.com/bizlink/bizlink-admin/internal/tokens"
	"github.com/bizlink/bizlink-admin/pkg/logger"
	"github.com/bizlink/bizlink-admin/pkg/metrics"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetFormat(cfg.Server.LogFormat)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: keycloak=%v redis=%v minio=%v", cfg.Keycloak.URL != "", cfg.Redis.Host != "", cfg.Storage.MinIOEndpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := connectRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		sessions.SetBlacklistClient(rdb)
	}

	d := deps{cfg: cfg, redis: rdb}

	// Retry/backoff when connecting to MongoDB to tolerate startup races
	client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, 2*time.Second)
	switch {
	case err == nil:
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		db := client.Database(cfg.MongoDB.Database)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Fatalf("ensure indexes: %v", err)
		}
		d.mongo = client
		d.services = resources.NewMongoServices(db)
	case cfg.Server.Environment == "production":
		logger.Fatalf("could not connect to MongoDB: %v", err)
	default:
		logger.Warnf("could not connect to MongoDB (%v); using in-memory collections", err)
		d.services = resources.NewMemoryServices()
	}
	d.members = members.NewService(d.services.Members)
	d.verifier = buildVerifier(ctx, cfg, d.members)

	store, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	d.uploader = storage.NewUploader(store, cfg.Storage.MaxUploadBytes)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	var reminder *events.Reminder
	if cfg.Reminder.Enabled {
		reminder = events.NewReminder(d.services.Events.Repo(), notify.New(rdb, cfg.Notify.RedisChannel), cfg.Reminder.Interval, cfg.Reminder.Window)
		reminder.Start()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(d),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("Starting bizlink API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if reminder != nil {
		reminder.Stop()
	}
}

// connectRedis returns nil when Redis is not configured or not reachable;
// the blacklist, Redis rate limiter and notifier then fall back.
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Host + ":" + cfg.Port, Password: cfg.Password, DB: cfg.DB})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Host, cfg.Port, err)
		_ = rdb.Close()
		return nil
	}
	logger.Infof("Connected to Redis: %s:%s", cfg.Host, cfg.Port)
	return rdb
}

// buildVerifier accepts our own HS256 tokens and, when Keycloak is
// configured, admin SSO tokens mapped onto member ids.
func buildVerifier(ctx context.Context, cfg *config.Config, svc *members.Service) middleware.Verifier {
	chain := middleware.ChainVerifier{}
	if cfg.JWT.Secret != "" {
		chain = append(chain, tokens.NewHMACVerifier(cfg.JWT.Secret))
	} else {
		logger.Warnf("JWT_SECRET not set; member tokens cannot be verified")
	}
	if cfg.Keycloak.URL != "" && cfg.Keycloak.Realm != "" && cfg.Keycloak.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, oidc.Issuer(cfg.Keycloak.URL, cfg.Keycloak.Realm), cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			chain = append(chain, members.NewSSOVerifier(ver, svc))
		}
	}
	return chain
}
