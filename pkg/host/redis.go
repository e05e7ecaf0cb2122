package host

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
)

// RedisConfig configures a Redis host.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// Redis stores files as string values under Prefix + path. Reads and writes
// share the key space, so an artifact uploaded under "/course/a.pdf" is read
// back with that same absolute path.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis connects to the Redis instance described by cfg.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisClient(client, cfg.Prefix, cfg.TTL), nil
}

// NewRedisClient wraps an existing client. A zero ttl keeps keys forever.
func NewRedisClient(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// ReadBytes returns the value stored for path.
func (r *Redis) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(path)).Bytes()
	if goerrors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteBytes stores content for relativePath.
func (r *Redis) WriteBytes(ctx context.Context, relativePath string, content []byte) error {
	if err := errors.ValidatePath(relativePath); err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(relativePath), content, r.ttl).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(path string) string {
	return r.prefix + path
}
