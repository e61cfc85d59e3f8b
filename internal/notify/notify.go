// Package notify is the toast side channel. Services publish transient
// user-facing messages after successful mutations; delivery is
// fire-and-forget and a failed publish must never fail the mutation.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Level classifies a toast for the UI.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Toast is one auto-dismissing notification.
type Toast struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier is the abstraction over toast backends.
type Notifier interface {
	Publish(ctx context.Context, t Toast) error
	Stream(ctx context.Context) (<-chan Toast, error)
}

// InMemory is a channel-backed notifier for dev and tests. Publish drops
// the toast when the buffer is full rather than block a mutation.
type InMemory struct {
	ch chan Toast
}

// NewInMemory creates a bounded in-memory notifier.
func NewInMemory(size int) *InMemory {
	if size <= 0 {
		size = 64
	}
	return &InMemory{ch: make(chan Toast, size)}
}

// Publish enqueues a toast, dropping it when nobody keeps up.
func (n *InMemory) Publish(ctx context.Context, t Toast) error {
	select {
	case n.ch <- t:
	default:
	}
	return nil
}

// Stream returns a channel that closes when ctx is done.
func (n *InMemory) Stream(ctx context.Context) (<-chan Toast, error) {
	out := make(chan Toast)
	go func() {
		defer close(out)
		for {
			select {
			case t := <-n.ch:
				out <- t
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// RedisNotifier implements the side channel on a Redis list so a separate
// UI gateway can drain it. LPUSH/BRPOP semantics.
type RedisNotifier struct {
	client *redis.Client
	key    string
}

// NewRedisNotifier builds a notifier on the given list key.
func NewRedisNotifier(client *redis.Client, key string) *RedisNotifier {
	if key == "" {
		key = "classtrack:toasts"
	}
	return &RedisNotifier{client: client, key: key}
}

// Publish enqueues a toast.
func (n *RedisNotifier) Publish(ctx context.Context, t Toast) error {
	body, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return n.client.LPush(ctx, n.key, body).Err()
}

// Stream consumes toasts using BRPOP.
func (n *RedisNotifier) Stream(ctx context.Context) (<-chan Toast, error) {
	out := make(chan Toast)
	go func() {
		defer close(out)
		for {
			res, err := n.client.BRPop(ctx, 5*time.Second, n.key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if len(res) == 2 {
				var t Toast
				if err := json.Unmarshal([]byte(res[1]), &t); err == nil {
					out <- t
				}
			}
		}
	}()
	return out, nil
}

// Info builds an informational toast stamped now.
func Info(message string) Toast {
	return Toast{Level: LevelInfo, Message: message, At: time.Now().UTC()}
}
