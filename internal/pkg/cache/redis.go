package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var ErrLockBusy = errors.New("system busy, please try again later (lock)")

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Store is the JSON cache surface the use cases depend on.
type Store interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// Locker hands out short-lived distributed locks.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

type RedisClient struct {
	Client *redis.Client
	locker *redislock.Client
}

func NewRedisClient(cfg *Config) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &RedisClient{Client: rdb, locker: redislock.New(rdb)}, nil
}

func (c *RedisClient) Close() error {
	return c.Client.Close()
}

func (c *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, data, ttl).Err()
}

// DeletePattern removes every key matching pattern. SCAN is used so large
// keyspaces do not block the server the way KEYS would.
func (c *RedisClient) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.Client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

func (c *RedisClient) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := c.locker.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 30),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockBusy
	}
	if err != nil {
		return nil, err
	}
	return func() {
		_ = lock.Release(context.Background())
	}, nil
}

type nopLocker struct{}

// NopLocker is used when Redis is disabled; the database row lock still applies.
func NopLocker() Locker { return nopLocker{} }

func (nopLocker) Lock(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}

type nopStore struct{}

func NopStore() Store { return nopStore{} }

func (nopStore) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }
func (nopStore) SetJSON(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (nopStore) DeletePattern(context.Context, string) error { return nil }

// ReportKey and ReportPattern namespace cached reports per owner so one write
// can drop every cached view of that owner's books.
func ReportKey(ownerID, name, variant string) string {
	return "reports:" + ownerID + ":" + name + ":" + variant
}

func ReportPattern(ownerID string) string {
	return "reports:" + ownerID + ":*"
}
