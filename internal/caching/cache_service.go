package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Analytics caching
	GetUserAnalytics(ctx context.Context, userID uuid.UUID, section string) (map[string]interface{}, error)
	SetUserAnalytics(ctx context.Context, userID uuid.UUID, section string, analytics map[string]interface{}, ttl time.Duration) error
	InvalidateUserAnalytics(ctx context.Context, userID uuid.UUID) error

	// Rate limiting (fixed window counters)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error)
	RateLimitTTL(ctx context.Context, key string) (time.Duration, error)

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept both host:port and redis://host:port forms
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	} else {
		log.Printf("DEBUG: Redis connection established successfully")
	}

	return &redisCacheService{client: client}
}

func analyticsKey(userID uuid.UUID, section string) string {
	return fmt.Sprintf("leaseboard:analytics:%s:%s", userID.String(), section)
}

func (r *redisCacheService) GetUserAnalytics(ctx context.Context, userID uuid.UUID, section string) (map[string]interface{}, error) {
	data, err := r.client.Get(ctx, analyticsKey(userID, section)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var analytics map[string]interface{}
	if err := json.Unmarshal(data, &analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}

func (r *redisCacheService) SetUserAnalytics(ctx context.Context, userID uuid.UUID, section string, analytics map[string]interface{}, ttl time.Duration) error {
	data, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, analyticsKey(userID, section), data, ttl).Err()
}

func (r *redisCacheService) InvalidateUserAnalytics(ctx context.Context, userID uuid.UUID) error {
	pattern := fmt.Sprintf("leaseboard:analytics:%s:*", userID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

// IncrementRateLimit bumps the fixed-window counter and returns the new
// count. The window expiry is set on the first hit.
func (r *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	cacheKey := fmt.Sprintf("leaseboard:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}
	return count, nil
}

func (r *redisCacheService) RateLimitTTL(ctx context.Context, key string) (time.Duration, error) {
	cacheKey := fmt.Sprintf("leaseboard:ratelimit:%s", key)
	return r.client.TTL(ctx, cacheKey).Result()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
