package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix  = "user:%d"
	feedKeyPrefix  = "feed:%d:%d"
	musicKeyPrefix = "music:%d:%d"
)

const (
	UserTTL = 5 * time.Minute
	ListTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func FeedKey(page, limit int) string {
	return fmt.Sprintf(feedKeyPrefix, page, limit)
}

func MusicKey(page, limit int) string {
	return fmt.Sprintf(musicKeyPrefix, page, limit)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateFeed drops all cached feed pages. Pages are keyed by
// page+limit, so a pattern scan is needed.
func InvalidateFeed(ctx context.Context) {
	invalidatePattern(ctx, "feed:*")
}

// InvalidateMusic drops all cached music listing pages.
func InvalidateMusic(ctx context.Context) {
	invalidatePattern(ctx, "music:*")
}

func invalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
