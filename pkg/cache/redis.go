package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCacheConfig struct {
	Address   string `json:"address" yaml:"address"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
	Timeout   int    `json:"timeout" yaml:"timeout"`
}

type RedisCacheService struct {
	client    redis.UniversalClient
	keyPrefix string
	timeout   int
}

func NewRedisCacheService(configs RedisCacheConfig) (*RedisCacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     configs.Address,
		Username: configs.Username,
		Password: configs.Password,
		DB:       configs.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCacheService{
		client:    client,
		keyPrefix: configs.KeyPrefix,
		timeout:   configs.Timeout,
	}, nil
}

// NewRedisCacheServiceWithClient wraps an existing client, used in tests.
func NewRedisCacheServiceWithClient(client redis.UniversalClient, keyPrefix string, timeout int) *RedisCacheService {
	return &RedisCacheService{
		client:    client,
		keyPrefix: keyPrefix,
		timeout:   timeout,
	}
}

func (cacheService *RedisCacheService) getContext(parent context.Context) (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(cacheService.timeout)*time.Second)
}

func (cacheService *RedisCacheService) fullKey(key string) string {
	return cacheService.keyPrefix + key
}

func (cacheService *RedisCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := cacheService.getContext(ctx)
	defer cancel()

	val, err := cacheService.client.Get(ctx, cacheService.fullKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (cacheService *RedisCacheService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := cacheService.getContext(ctx)
	defer cancel()

	return cacheService.client.Set(ctx, cacheService.fullKey(key), value, ttl).Err()
}

func (cacheService *RedisCacheService) Update(ctx context.Context, key string, value []byte, preserveTTL bool, ttl time.Duration) error {
	ctx, cancel := cacheService.getContext(ctx)
	defer cancel()

	expiration := ttl
	if preserveTTL {
		expiration = redis.KeepTTL
	}
	ok, err := cacheService.client.SetXX(ctx, cacheService.fullKey(key), value, expiration).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (cacheService *RedisCacheService) Remove(ctx context.Context, key string) error {
	ctx, cancel := cacheService.getContext(ctx)
	defer cancel()

	return cacheService.client.Del(ctx, cacheService.fullKey(key)).Err()
}
