// Package notifications streams live feed updates to websocket clients.
package notifications

import (
	"context"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis pub/sub channel carrying new-post events.
// Publishing through Redis rather than in-process lets every server
// instance fan the event out to its own websocket clients.
const FeedChannel = "feed:new-posts"

// Notifier publishes feed events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier using the provided Redis client. A nil
// client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishNewPost announces a freshly published post to all feed
// subscribers. The payload is an already-serialized JSON document.
func (n *Notifier) PublishNewPost(ctx context.Context, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, FeedChannel, payload).Err()
}

// StartFeedSubscriber subscribes to the feed channel and calls onMessage
// for each incoming payload until ctx is cancelled.
func (n *Notifier) StartFeedSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in feed subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
