package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bizlink/bizlink-admin/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Message is one notification addressed to a member.
type Message struct {
	MemberID string    `json:"memberId"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Ref      string    `json:"ref,omitempty"`
	SentAt   time.Time `json:"sentAt"`
}

// Notifier hands messages to whatever delivers them (push gateway, mailer).
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

// LogNotifier only logs; used when no Redis is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, m Message) error {
	logger.Infow("notification", "member", m.MemberID, "kind", m.Kind, "title", m.Title)
	return nil
}

// RedisNotifier publishes messages as JSON on a pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (r *RedisNotifier) Notify(ctx context.Context, m Message) error {
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, b).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", r.channel, err)
	}
	return nil
}

// New picks the Redis notifier when a client is available.
func New(client *redis.Client, channel string) Notifier {
	if client == nil || channel == "" {
		return LogNotifier{}
	}
	return NewRedisNotifier(client, channel)
}
