package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	profileKeyPrefix = "profile:user:%s"
	profilesListKey  = "profiles:all"
	postKeyPrefix    = "post:%s"
	postsListKey     = "posts:all"
)

const (
	ProfileTTL = 10 * time.Minute
	PostTTL    = 5 * time.Minute
)

func ProfileKey(userID string) string {
	return fmt.Sprintf(profileKeyPrefix, userID)
}

func ProfilesListKey() string {
	return profilesListKey
}

func PostKey(postID string) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

func PostsListKey() string {
	return postsListKey
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err != nil {
		// Misses and transport errors are treated alike: fall through
		// to the source of truth.
		return false, nil
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL. Best effort.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if client == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	client.Set(ctx, key, b, ttl)
}

// Aside tries Redis first; on miss it calls fetch (which must write into
// dest), then stores the result with ttl.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if found, _ := GetJSON(ctx, key, dest); found {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a key. Best effort.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateProfile drops the per-user profile entry and the list entry.
func InvalidateProfile(ctx context.Context, userID string) {
	Invalidate(ctx, ProfileKey(userID), profilesListKey)
}

// InvalidatePost drops the per-post entry and the list entry.
func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID), postsListKey)
}
