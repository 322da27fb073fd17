package session

import (
	"context"
	"testing"
	"time"

	"cityexchange-go/internal/models"

	"github.com/alicebob/miniredis/v2"
)

func TestKey(t *testing.T) {
	if got := Key(42); got != "session:v1:42" {
		t.Errorf("Expected session:v1:42, got %s", got)
	}
}

func TestNewRedisStore_Validation(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisStore(ctx, models.SessionConfig{TTL: time.Hour}); err == nil {
		t.Error("Expected error for empty address")
	}
	if _, err := NewRedisStore(ctx, models.SessionConfig{RedisAddr: "localhost:6379"}); err == nil {
		t.Error("Expected error for zero TTL")
	}
}

func setupRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), models.SessionConfig{RedisAddr: mr.Addr(), TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	s, mr := setupRedis(t)
	ctx := context.Background()

	if err := s.SaveSession(ctx, models.Session{TelegramId: 42, PendingTransferId: 11}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if ttl := mr.TTL(Key(42)); ttl != time.Minute {
		t.Errorf("Expected TTL of 1m, got %v", ttl)
	}

	loaded, err := s.LoadSession(ctx, 42)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded.TelegramId != 42 || loaded.PendingTransferId != 11 {
		t.Errorf("Unexpected session %+v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}

	if err := s.SaveSession(ctx, models.Session{TelegramId: 42}); err != nil {
		t.Fatalf("SaveSession clear failed: %v", err)
	}
	if mr.Exists(Key(42)) {
		t.Error("Expected cleared session to be deleted")
	}
	loaded, err = s.LoadSession(ctx, 42)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded.HasPendingTransfer() {
		t.Error("Expected cleared session")
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	s, mr := setupRedis(t)
	ctx := context.Background()

	if err := s.SaveSession(ctx, models.Session{TelegramId: 7, PendingTransferId: 3}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	loaded, err := s.LoadSession(ctx, 7)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded.HasPendingTransfer() || loaded.TelegramId != 7 {
		t.Errorf("Expected empty session after expiry, got %+v", loaded)
	}
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	s, mr := setupRedis(t)

	if err := mr.Set(Key(5), "{not json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	loaded, err := s.LoadSession(context.Background(), 5)
	if err != nil {
		t.Fatalf("Expected corrupt entry to be discarded, got %v", err)
	}
	if loaded.HasPendingTransfer() || loaded.TelegramId != 5 {
		t.Errorf("Expected empty session, got %+v", loaded)
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, mr := setupRedis(t)
	mr.Close()

	if _, err := s.LoadSession(context.Background(), 1); err == nil {
		t.Error("Expected error when redis is unavailable")
	}
}
