package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bizlink/bizlink-admin/handlers"
	"github.com/bizlink/bizlink-admin/internal/companies"
	"github.com/bizlink/bizlink-admin/internal/config"
	"github.com/bizlink/bizlink-admin/internal/matching"
	"github.com/bizlink/bizlink-admin/internal/members"
	"github.com/bizlink/bizlink-admin/internal/resources"
	"github.com/bizlink/bizlink-admin/internal/storage"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

// deps is everything the router needs; main builds it from config.
type deps struct {
	cfg      *config.Config
	services resources.Services
	members  *members.Service
	verifier middleware.Verifier
	uploader *storage.Uploader
	mongo    *mongo.Client
	redis    *redis.Client
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func rateLimiter(cfg config.RateLimitConfig, client *redis.Client) gin.HandlerFunc {
	if cfg.UseRedis && client != nil {
		win := time.Duration(cfg.WindowSeconds) * time.Second
		return middleware.RedisRateLimitMiddleware(client, cfg.RPS, cfg.Burst, win)
	}
	return middleware.RateLimitMiddleware(cfg.RPS, cfg.Burst)
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(cors(), gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) { ready(c, d) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	if local, ok := d.uploader.Store().(*storage.LocalStore); ok {
		r.Static(local.Prefix(), local.Dir())
	}

	// company renames flow into asks and gives
	d.services.Companies.OnUpdate(companies.NewPropagator(d.services.Asks.Repo(), d.services.Gives.Repo()).Hook())

	api := r.Group("/api")
	members.RegisterPublicRoutes(api, d.members)

	authed := api.Group("", middleware.CookieAuthMiddleware(d.verifier, d.cfg.JWT.CookieName))
	// uploads are multipart POSTs; only header tokens are accepted so a
	// third-party form cannot ride the browser cookie
	bearer := api.Group("", middleware.AuthMiddleware(d.verifier))
	if d.cfg.RateLimit.Enabled {
		limit := rateLimiter(d.cfg.RateLimit, d.redis)
		authed.Use(limit)
		bearer.Use(limit)
	}
	resources.Mount(authed, d.services)
	members.RegisterRoutes(authed, d.members)
	finder := matching.NewFinder(d.services.Asks.Repo(), d.services.Gives.Repo(), d.services.Members.Repo())
	handlers.NewMatchHandler(finder, d.cfg.Matching.DefaultPageSize).Register(authed)
	handlers.NewUploadHandler(d.uploader).Register(bearer)
	handlers.NewAuthHandler(d.cfg, d.members).Register(authed)
	return r
}

// ready returns 200 only when Mongo (if used) and Redis (if configured) answer.
func ready(c *gin.Context, d deps) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	ok := true
	status := map[string]bool{}
	if d.mongo != nil {
		status["mongo"] = d.mongo.Ping(ctx, nil) == nil
		ok = ok && status["mongo"]
	} else {
		status["mongo"] = false
		status["memory"] = true
	}
	if d.cfg.Redis.Host != "" {
		status["redis"] = d.redis != nil && d.redis.Ping(ctx).Err() == nil
		ok = ok && status["redis"]
	}
	body := gin.H{"deps": status, "uptime": time.Since(startTime).String()}
	if !ok {
		body["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "ready"
	c.JSON(http.StatusOK, body)
}
