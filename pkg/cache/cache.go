package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkglogger "github.com/marktrack/marktrack-backend/pkg/logger"
)

// TTL constants
const (
	TTLDocument     = 5 * time.Minute  // fully resolved document payloads
	TTLAutosaveLock = 30 * time.Second // advisory edit lock
)

// Cache key prefixes
const (
	PrefixDocument     = "document:"
	PrefixAutosaveLock = "autosave_lock:"
)

// LockInfo describes the holder of an autosave advisory lock
type LockInfo struct {
	UserEmail string    `json:"user_email"`
	Timestamp time.Time `json:"timestamp"`
}

// Service is the Redis cache used by the document tiering layer.
// All operations degrade gracefully: a nil or unreachable Redis is
// treated as a cache miss, never an error for the caller.
type Service interface {
	// GetDocument loads a cached document payload into dest. Returns
	// false on a miss (including any Redis failure).
	GetDocument(ctx context.Context, docID uint64, dest interface{}) bool
	// SetDocument caches a fully resolved document payload
	SetDocument(ctx context.Context, docID uint64, data interface{})
	// InvalidateDocument drops the cached payload for a document
	InvalidateDocument(ctx context.Context, docID uint64)

	// AcquireAutosaveLock atomically acquires or refreshes the advisory
	// autosave lock for a document. It returns nil when the caller now
	// holds the lock, or the current holder when someone else does.
	AcquireAutosaveLock(ctx context.Context, docID uint64, userEmail string, ttl time.Duration) (*LockInfo, error)
	// GetAutosaveLock returns the current lock holder, or nil when unlocked
	GetAutosaveLock(ctx context.Context, docID uint64) *LockInfo

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// acquireLock sets the lock key only when it is absent or already owned
// by the requesting user, in a single atomic step. Returns the existing
// value when a different user holds the lock.
var acquireLock = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
  local holder = cjson.decode(cur)['user_email']
  if holder ~= ARGV[1] then
    return cur
  end
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return false
`)

// NewService creates the document cache service
func NewService(client *redis.Client, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = TTLDocument
	}
	return &redisCache{client: client, ttl: ttl}
}

// IsAvailable reports whether a Redis client is configured
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping verifies the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func documentKey(docID uint64) string {
	return fmt.Sprintf("%s%d", PrefixDocument, docID)
}

func lockKey(docID uint64) string {
	return fmt.Sprintf("%s%d", PrefixAutosaveLock, docID)
}

func (c *redisCache) GetDocument(ctx context.Context, docID uint64, dest interface{}) bool {
	if c.client == nil {
		return false
	}

	data, err := c.client.Get(ctx, documentKey(docID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			pkglogger.GetLogger().Warn().Err(err).Uint64("document_id", docID).Msg("cache read failed, treating as miss")
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("document_id", docID).Msg("cache entry corrupt, treating as miss")
		return false
	}
	return true
}

func (c *redisCache) SetDocument(ctx context.Context, docID uint64, data interface{}) {
	if c.client == nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("document_id", docID).Msg("cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, documentKey(docID), payload, c.ttl).Err(); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("document_id", docID).Msg("cache write failed")
	}
}

func (c *redisCache) InvalidateDocument(ctx context.Context, docID uint64) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, documentKey(docID)).Err(); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("document_id", docID).Msg("cache invalidation failed")
	}
}

func (c *redisCache) AcquireAutosaveLock(ctx context.Context, docID uint64, userEmail string, ttl time.Duration) (*LockInfo, error) {
	if c.client == nil {
		// No coordination backend: fail open so saves keep working
		return nil, nil
	}
	if ttl <= 0 {
		ttl = TTLAutosaveLock
	}

	info := LockInfo{UserEmail: userEmail, Timestamp: time.Now().UTC()}
	payload, err := json.Marshal(info)
	if err != nil {
		return nil, err
	}

	res, err := acquireLock.Run(ctx, c.client, []string{lockKey(docID)}, userEmail, payload, ttl.Milliseconds()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Lua false: lock acquired or refreshed
			return nil, nil
		}
		pkglogger.GetLogger().Warn().Err(err).Uint64("document_id", docID).Msg("autosave lock acquire failed, proceeding unlocked")
		return nil, nil
	}

	raw, ok := res.(string)
	if !ok {
		return nil, nil
	}

	var holder LockInfo
	if err := json.Unmarshal([]byte(raw), &holder); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("document_id", docID).Msg("autosave lock entry corrupt, proceeding unlocked")
		return nil, nil
	}
	return &holder, nil
}

func (c *redisCache) GetAutosaveLock(ctx context.Context, docID uint64) *LockInfo {
	if c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, lockKey(docID)).Bytes()
	if err != nil {
		return nil
	}

	var holder LockInfo
	if err := json.Unmarshal(data, &holder); err != nil {
		return nil
	}
	return &holder
}
