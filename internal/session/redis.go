package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ store.SessionStore = (*RedisStore)(nil)

// RedisStore keeps conversation sessions in Redis so several bot replicas
// can share them. Entries expire after the configured TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, cfg models.SessionConfig) (*RedisStore, error) {
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session TTL must be positive, got %v", cfg.TTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:            cfg.RedisAddr,
		Password:        cfg.RedisPassword,
		DB:              cfg.RedisDB,
		PoolSize:        20,
		MinIdleConns:    2,
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			zap.L().Warn("Failed to close redis client after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	zap.L().Info("Redis session store connected", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.TTL))
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// Key formats the redis key for a user's session
func Key(telegramId int64) string {
	return fmt.Sprintf("session:v1:%d", telegramId)
}

func (r *RedisStore) LoadSession(ctx context.Context, telegramId int64) (models.Session, error) {
	empty := models.Session{TelegramId: telegramId}

	data, err := r.client.Get(ctx, Key(telegramId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return empty, nil
		}
		return empty, fmt.Errorf("session get: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt entry only loses the pending step
		zap.L().Warn("Discarding unreadable session", zap.Int64("telegram_id", telegramId), zap.Error(err))
		return empty, nil
	}
	session.TelegramId = telegramId
	return session, nil
}

func (r *RedisStore) SaveSession(ctx context.Context, session models.Session) error {
	key := Key(session.TelegramId)
	if !session.HasPendingTransfer() {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("session delete: %w", err)
		}
		return nil
	}

	session.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
