package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix  = "user:%d"
	GroupKeyPrefix = "group:%s"
	PostKeyPrefix  = "post:%d"
	IndexKeyPrefix = "posts:index:%d"
)

const (
	UserTTL  = 5 * time.Minute
	GroupTTL = 10 * time.Minute
	PostTTL  = 30 * time.Minute
	IndexTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func IndexKey(page int) string {
	return fmt.Sprintf(IndexKeyPrefix, page)
}

// Aside implements the cache-aside pattern: on a hit, dest is filled
// from Redis; on a miss, fetch runs and its result is stored under key.
// A nil client degrades to always calling fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
		// Corrupt entry: drop it and fall through to the source of truth.
		client.Del(ctx, key)
	} else if err != redis.Nil {
		// Redis trouble is not a reason to fail the request.
		return fetch()
	}

	if err := fetch(); err != nil {
		return err
	}

	if raw, err := json.Marshal(dest); err == nil {
		client.Set(ctx, key, raw, ttl)
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateIndex drops the cached first index page. Only the first
// page is ever cached, so one key is enough.
func InvalidateIndex(ctx context.Context) {
	Invalidate(ctx, IndexKey(1))
}
