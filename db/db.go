package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The queries object for interacting with database and cache
type Queries struct {
	DB    *gorm.DB
	Cache *redis.Client
}

// Constructor for Queries
func NewQueries() *Queries {
	return &Queries{}
}

// Connect to Postgres
func (queries *Queries) ConnectDB(connStr string) error {
	return queries.Open(postgres.Open(connStr))
}

// Open the database with any gorm dialector. Tests use this with SQLite
func (queries *Queries) Open(dialector gorm.Dialector) error {
	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	queries.DB = conn
	return nil
}

// Run database auto migration
func (queries *Queries) AutoMigration() error {
	return queries.DB.AutoMigrate(&Ticket{}, &Admin{}, &RefreshToken{})
}

// Connect to Redis
func (queries *Queries) ConnectRedis(ctx context.Context, opt *redis.Options) error {
	queries.Cache = redis.NewClient(opt)
	_, err := queries.Cache.Ping(ctx).Result()
	if err != nil {
		return err
	}
	return nil
}

// Set cache value. If expired = 0, it will set the expiration time to 1 hour instead of no expiration.
// Without a Redis connection the cache is disabled and every call is a no-op
func (queries *Queries) SetCache(ctx context.Context, key string, val string, expired time.Duration) error {
	if queries.Cache == nil {
		return nil
	}
	if expired == 0 {
		expired = time.Hour
	}
	return queries.Cache.Set(ctx, key, val, expired).Err()
}

type ErrorCacheMiss struct {
	Message string
}

func (e *ErrorCacheMiss) Error() string {
	return "cache miss"
}

// Check if an error is a cache miss
func (queries *Queries) IsCacheMiss(err error) bool {
	var miss *ErrorCacheMiss
	return errors.As(err, &miss)
}

// Get cache value
func (queries *Queries) GetCache(ctx context.Context, key string) (string, error) {
	if queries.Cache == nil {
		return "", &ErrorCacheMiss{Message: "cache disabled"}
	}

	val, err := queries.Cache.Get(ctx, key).Result()

	// If actually found value, return the val
	if err == nil {
		return val, nil
	}

	// If redis error
	if err != redis.Nil {
		return "", err
	}

	// If the value of the key simply don't exists, or expired
	return "", &ErrorCacheMiss{Message: "cache miss"}
}

// Cache key of a ticket's public status
func TicketStatusKey(token string) string {
	return "ticket:status:" + token
}

// How long an invalidation marker blocks older fills
const statusTombstoneTTL = time.Minute

// Write ARGV[1] unless the entry already stored belongs to a newer ticket version (ARGV[2]).
// Entries are JSON objects carrying a "version" field
const StatusCacheScript = `
local current = redis.call('GET', KEYS[1])
if current then
	local ok, entry = pcall(cjson.decode, current)
	if ok and type(entry) == 'table' and tonumber(entry.version) and tonumber(entry.version) > tonumber(ARGV[2]) then
		return 0
	end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`

// Cached public status of one ticket version. A nil Status marks an invalidation
type cachedStatus struct {
	Version int             `json:"version"`
	Status  json.RawMessage `json:"status,omitempty"`
}

// Store an entry unless a newer version is already cached
func (queries *Queries) setStatusEntry(ctx context.Context, token string, entry cachedStatus, expired time.Duration) error {
	if queries.Cache == nil {
		return nil
	}
	if expired == 0 {
		expired = time.Hour
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return queries.Cache.Eval(ctx, StatusCacheScript, []string{TicketStatusKey(token)},
		string(data), entry.Version, expired.Milliseconds()).Err()
}

// Cache the public status of a ticket as read at the given version.
// A fill racing with a later write of the ticket is dropped, so a stale read never outlives the invalidation
func (queries *Queries) CacheTicketStatus(ctx context.Context, token string, version int, status []byte, expired time.Duration) error {
	return queries.setStatusEntry(ctx, token, cachedStatus{Version: version, Status: status}, expired)
}

// Get the cached public status of a ticket. Invalidated entries are reported as a cache miss
func (queries *Queries) GetCachedTicketStatus(ctx context.Context, token string) ([]byte, error) {
	val, err := queries.GetCache(ctx, TicketStatusKey(token))
	if err != nil {
		return nil, err
	}

	var entry cachedStatus
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("corrupted status cache entry: %w", err)
	}
	if len(entry.Status) == 0 {
		return nil, &ErrorCacheMiss{Message: "status invalidated"}
	}
	return entry.Status, nil
}

// Drop the cached public status of a ticket after it was written at the given version
func (queries *Queries) InvalidateTicket(ctx context.Context, token string, version int) error {
	return queries.setStatusEntry(ctx, token, cachedStatus{Version: version}, statusTombstoneTTL)
}
