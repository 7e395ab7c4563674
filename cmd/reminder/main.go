package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizlink/bizlink-admin/internal/config"
	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/database"
	"github.com/bizlink/bizlink-admin/internal/events"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/internal/notify"
	"github.com/bizlink/bizlink-admin/internal/resources"
	"github.com/bizlink/bizlink-admin/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// reminder runs the calendar reminder sweep without the HTTP API, for
// deployments that keep REMINDER_ENABLED=false on the API replicas.
func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetFormat(cfg.Server.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, 2*time.Second)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	repo := crud.NewMongoRepo[*models.CalendarEvent](client.Database(cfg.MongoDB.Database).Collection(resources.ColEvents))

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
	}

	worker := events.NewReminder(repo, notify.New(rdb, cfg.Notify.RedisChannel), cfg.Reminder.Interval, cfg.Reminder.Window)
	if *once {
		res, err := worker.Sweep(ctx)
		if err != nil {
			logger.Fatalf("reminder sweep: %v", err)
		}
		logger.Infof("reminder sweep done: events=%d sent=%d failed=%d", res.Events, res.Sent, res.Failed)
		return
	}

	worker.Start()
	<-ctx.Done()
	worker.Stop()
}
