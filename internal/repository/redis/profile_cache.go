package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketSense/domain"

	"github.com/redis/go-redis/v9"
)

// ProfileCache is a read-through cache for aggregated interest profiles.
// Entries are invalidated on every new activity, so a short TTL is only a
// backstop against missed invalidations.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{
		client: client,
		ttl:    ttl,
	}
}

func profileKey(identityKey string) string {
	return fmt.Sprintf("profile:%s", identityKey)
}

// Get returns nil, nil on a cache miss.
func (r *ProfileCache) Get(ctx context.Context, identityKey string) (*domain.InterestProfile, error) {
	val, err := r.client.Get(ctx, profileKey(identityKey)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile from Redis: %w", err)
	}

	var profile domain.InterestProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}

	return &profile, nil
}

func (r *ProfileCache) Set(ctx context.Context, identityKey string, profile *domain.InterestProfile) error {
	jsonData, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, profileKey(identityKey), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store profile in Redis: %w", err)
	}

	return nil
}

func (r *ProfileCache) Invalidate(ctx context.Context, identityKey string) error {
	if err := r.client.Del(ctx, profileKey(identityKey)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached profile: %w", err)
	}

	return nil
}
