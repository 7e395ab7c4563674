package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisNotifierPublishes(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, "bizlink:test")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	n := New(client, "bizlink:test")
	require.IsType(t, &RedisNotifier{}, n)
	require.NoError(t, n.Notify(ctx, Message{MemberID: "m1", Kind: "event-reminder", Title: "Chapter meeting"}))

	select {
	case msg := <-sub.Channel():
		var got Message
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		require.Equal(t, "m1", got.MemberID)
		require.Equal(t, "Chapter meeting", got.Title)
		require.False(t, got.SentAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestRedisNotifierError(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()
	m.Close()

	err = NewRedisNotifier(client, "bizlink:test").Notify(context.Background(), Message{MemberID: "m1"})
	require.Error(t, err)
}

func TestNewFallsBackToLog(t *testing.T) {
	require.Equal(t, LogNotifier{}, New(nil, "chan"))
	require.NoError(t, LogNotifier{}.Notify(context.Background(), Message{MemberID: "m1"}))
}
