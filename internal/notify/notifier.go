package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Broadcaster pushes a settings-change event keyed by classroom to
// subscribed student sessions.
type Broadcaster interface {
	Broadcast(ctx context.Context, classroom, signal string) error
}

// ChangeEvent is the published payload. Classroom is empty for broadcasts
// not scoped to a single classroom (e.g. deletion sweeps).
type ChangeEvent struct {
	Classroom string `json:"classroom,omitempty"`
	Signal    string `json:"signal"`
}

// RedisBroadcaster publishes change events on a pub/sub channel.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
}

// NewRedisBroadcaster returns a broadcaster publishing to the named channel.
func NewRedisBroadcaster(client *redis.Client, channel string) *RedisBroadcaster {
	if channel == "" {
		channel = "portal:settings"
	}
	return &RedisBroadcaster{client: client, channel: channel}
}

// Broadcast publishes the event. Errors are the caller's to log; delivery is
// best-effort on top of the always-written marker file.
func (b *RedisBroadcaster) Broadcast(ctx context.Context, classroom, signal string) error {
	payload, err := json.Marshal(ChangeEvent{Classroom: classroom, Signal: signal})
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Notifier couples the marker file with an optional push transport. The
// marker is always written first so file-polling consumers never miss a
// change even when the push transport is down.
type Notifier struct {
	marker      *Marker
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewNotifier builds a notifier. broadcaster may be nil.
func NewNotifier(marker *Marker, broadcaster Broadcaster, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{marker: marker, broadcaster: broadcaster, logger: logger}
}

// Publish rotates the marker and fans the new signal out.
func (n *Notifier) Publish(ctx context.Context, classroom string) (string, error) {
	signal, err := n.marker.Signal()
	if err != nil {
		return "", err
	}
	if n.broadcaster != nil {
		if err := n.broadcaster.Broadcast(ctx, classroom, signal); err != nil {
			n.logger.Warn("change broadcast failed", zap.String("classroom", classroom), zap.Error(err))
		}
	}
	return signal, nil
}

// Marker exposes the underlying marker for long-poll consumers.
func (n *Notifier) Marker() *Marker {
	return n.marker
}
