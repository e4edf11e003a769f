package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound = errors.New("record not found")
)

// cacheTTL bounds how long a payload stays in Redis after a read.
const cacheTTL = 24 * time.Hour

type Repository interface {
	Save(ctx context.Context, payload string) (uint64, error)
	Get(ctx context.Context, id uint64) (string, error)
	Close() error
}

type PostgresRedisRepository struct {
	db     *sql.DB
	redis  *redis.Client
	logger *slog.Logger
}

func NewPostgresRedisRepository(db *sql.DB, redisClient *redis.Client) *PostgresRedisRepository {
	return &PostgresRedisRepository{
		db:     db,
		redis:  redisClient,
		logger: slog.Default().With("component", "repository"),
	}
}

func cacheKey(id uint64) string {
	return fmt.Sprintf("record:id:%d", id)
}

// Save stores an already obfuscated payload and returns its BIGSERIAL id.
func (r *PostgresRedisRepository) Save(ctx context.Context, payload string) (uint64, error) {
	var id uint64
	query := `INSERT INTO records (payload) VALUES ($1) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, payload).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save record: %w", err)
	}
	return id, nil
}

// Get retrieves the payload for a given ID using Read-Through caching.
//
// The caller should set an appropriate timeout on ctx. Redis errors other
// than a miss are logged and the lookup falls back to Postgres, so a Redis
// outage slows reads down without failing them.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//	payload, err := repo.Get(ctx, id)
func (r *PostgresRedisRepository) Get(ctx context.Context, id uint64) (string, error) {
	// BIGSERIAL never exceeds MaxInt64, and database/sql rejects such uint64 args
	if id > math.MaxInt64 {
		return "", ErrNotFound
	}
	key := cacheKey(id)

	// skip the cache when redis is nil (e.g., in tests)
	if r.redis != nil {
		val, err := r.redis.Get(ctx, key).Result()
		if err == nil {
			return val, nil
		}
		if !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "redis get failed", "key", key, "error", err)
		}
	}

	var payload string
	query := `SELECT payload FROM records WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get record for id %d: %w", id, err)
	}

	if r.redis != nil {
		if err := r.redis.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
			r.logger.WarnContext(ctx, "redis set failed", "key", key, "error", err)
		}
	}

	return payload, nil
}

// Close closes both database and Redis connections.
// Returns an error if either close operation fails.
func (r *PostgresRedisRepository) Close() error {
	var dbErr, redisErr error

	if r.db != nil {
		dbErr = r.db.Close()
	}

	if r.redis != nil {
		redisErr = r.redis.Close()
	}

	if dbErr != nil && redisErr != nil {
		return fmt.Errorf("failed to close connections: db=%v, redis=%v", dbErr, redisErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	if redisErr != nil {
		return fmt.Errorf("failed to close redis: %w", redisErr)
	}

	return nil
}
