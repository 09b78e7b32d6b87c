// Package cache holds the Redis-backed TTL cache for video enrichment
// lookups. Repeat lookups for the same place would otherwise burn YouTube
// quota; the search history store itself is deliberately uncached.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Akash17891234/weather-app-assessment/internal/weather"
)

const defaultTTL = time.Hour

// Connect parses redisURL, creates a client, and verifies connectivity with a ping.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// VideoCache stores video search results per location with a 1-hour TTL.
type VideoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVideoCache constructs a VideoCache with the default TTL.
func NewVideoCache(client *redis.Client) *VideoCache {
	return &VideoCache{client: client, ttl: defaultTTL}
}

// key normalizes the location so "Paris" and " PARIS " share an entry.
func key(location string) string {
	return "videos:" + strings.ToLower(strings.TrimSpace(location))
}

// Get retrieves cached videos for a location. ok is false on a miss; a cached
// empty list is a hit.
func (c *VideoCache) Get(ctx context.Context, location string) (videos []weather.Video, ok bool, err error) {
	val, err := c.client.Get(ctx, key(location)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get for location %s: %w", location, err)
	}

	if err := json.Unmarshal([]byte(val), &videos); err != nil {
		return nil, false, fmt.Errorf("unmarshaling cached videos for location %s: %w", location, err)
	}

	return videos, true, nil
}

// Set stores videos for a location with the configured TTL.
func (c *VideoCache) Set(ctx context.Context, location string, videos []weather.Video) error {
	b, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("marshaling videos for location %s: %w", location, err)
	}

	if err := c.client.Set(ctx, key(location), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for location %s: %w", location, err)
	}

	return nil
}
