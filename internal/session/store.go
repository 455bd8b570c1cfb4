package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrInvalidStoreType is returned for an unknown driver name
	ErrInvalidStoreType = errors.New("session: invalid store type")
	// ErrInvalidConfig is returned when a driver is missing required options
	ErrInvalidConfig = errors.New("session: invalid store configuration")
)

// Store is the session repository. Storage can be swapped (in-memory,
// Redis) without touching the state machine.
type Store interface {
	// GetOrCreate returns the sender's session, creating one in the
	// WELCOME state when absent. The returned bool is true when the
	// session already existed.
	GetOrCreate(ctx context.Context, phone string) (*Session, bool, error)

	// Get returns the sender's session, or nil when absent
	Get(ctx context.Context, phone string) (*Session, error)

	// Save persists the session under the sender's id
	Save(ctx context.Context, phone string, s *Session) error

	// Delete removes the sender's session
	Delete(ctx context.Context, phone string) error

	// All returns a snapshot of every stored session keyed by sender,
	// for the reaper and for monitoring
	All(ctx context.Context) (map[string]*Session, error)

	// Close releases driver resources
	Close() error
}

// StoreType selects a session storage driver
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// StoreOption configures a session store
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
}

// WithRedisClient sets the Redis client for the redis driver
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the key TTL used by the redis driver
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// NewStore creates a session store for the given driver type
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(), nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = time.Hour
		}
		return &redisStore{client: config.redisClient, ttl: ttl}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}
