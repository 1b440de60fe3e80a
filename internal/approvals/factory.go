package approvals

import (
	"context"

	"github.com/sirupsen/logrus"
)

// New returns a Redis store when one is configured, otherwise an in-memory store.
// A configured but unreachable Redis is an error, not a silent fallback.
func New(ctx context.Context, opts RedisOptions) (Store, error) {
	if opts.URL == "" && opts.Addr == "" {
		logrus.Warn("No KV_URL or REDIS_ADDR configured, approvals are kept in memory and lost on restart")
		return NewMemoryStore(), nil
	}
	store, err := NewRedisStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	return store, nil
}
