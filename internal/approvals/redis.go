package approvals

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisOptions configures the Redis-backed store. URL wins over Addr when set.
type RedisOptions struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps approval sets as Redis sets
type RedisStore struct {
	client *redis.Client
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// NewRedisStore builds a client and verifies the connection with a ping
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	var options *redis.Options
	if opts.URL != "" {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		options = parsed
	} else {
		options = &redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}
	}
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.MaxRetries = 3
	options.DialTimeout = 5 * time.Second
	options.ReadTimeout = 3 * time.Second
	options.WriteTimeout = 3 * time.Second

	store := &RedisStore{client: redis.NewClient(options)}
	if err := store.Ping(ctx); err != nil {
		store.client.Close()
		return nil, err
	}

	logrus.Infof("Connected to redis approval store at %s", options.Addr)
	return store, nil
}

func (s *RedisStore) Name() string {
	return "redis"
}

// Ping checks the connection within a short deadline
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Add(ctx context.Context, listingKey, reviewID string) error {
	if err := s.client.SAdd(ctx, Key(listingKey), reviewID).Err(); err != nil {
		return fmt.Errorf("failed to approve %s for %s: %w", reviewID, listingKey, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, listingKey, reviewID string) error {
	if err := s.client.SRem(ctx, Key(listingKey), reviewID).Err(); err != nil {
		return fmt.Errorf("failed to unapprove %s for %s: %w", reviewID, listingKey, err)
	}
	return nil
}

func (s *RedisStore) Members(ctx context.Context, listingKey string) ([]string, error) {
	members, err := s.client.SMembers(ctx, Key(listingKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals for %s: %w", listingKey, err)
	}
	if members == nil {
		members = []string{}
	}
	sort.Strings(members)
	return members, nil
}

// Close releases the connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
