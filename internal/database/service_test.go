package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

var baseTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A second connection would see a different in-memory database
	db.SetMaxOpenConns(1)

	service := newService(db)
	service.now = func() time.Time { return baseTime }

	// Use the actual schema initialization
	if err := service.InitSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func TestUpsertUser_CreatesThenUpdates(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	first, err := service.UpsertUser(ctx, store.UpsertUserParams{TelegramId: 42, Username: "ivan", FirstName: "Ivan"})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	second, err := service.UpsertUser(ctx, store.UpsertUserParams{TelegramId: 42, Username: "ivan_p", FirstName: "Ivan", LastName: "Petrov"})
	if err != nil {
		t.Fatalf("Second UpsertUser failed: %v", err)
	}

	if first.Id != second.Id {
		t.Errorf("Expected the same user row, got ids %d and %d", first.Id, second.Id)
	}
	if second.Username != "ivan_p" || second.LastName != "Petrov" {
		t.Errorf("Expected updated identity, got %+v", second)
	}

	users, err := service.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(users))
	}
}

func TestGetUserByTelegramId_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetUserByTelegramId(context.Background(), 999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMessageTemplates(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := service.GetMessageTemplate(ctx, models.MessageAbout); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unset template, got %v", err)
	}

	if err := service.SetMessageTemplate(ctx, models.MessageAbout, "first"); err != nil {
		t.Fatalf("SetMessageTemplate failed: %v", err)
	}
	if err := service.SetMessageTemplate(ctx, models.MessageAbout, "second"); err != nil {
		t.Fatalf("SetMessageTemplate overwrite failed: %v", err)
	}

	tmpl, err := service.GetMessageTemplate(ctx, models.MessageAbout)
	if err != nil {
		t.Fatalf("GetMessageTemplate failed: %v", err)
	}
	if tmpl.Text != "second" {
		t.Errorf("Expected text 'second', got %q", tmpl.Text)
	}

	if err := service.SetMessageTemplate(ctx, models.MessageType("bogus"), "x"); err == nil {
		t.Error("Expected error for unknown message type")
	}

	templates, err := service.ListMessageTemplates(ctx)
	if err != nil {
		t.Fatalf("ListMessageTemplates failed: %v", err)
	}
	if len(templates) != 1 {
		t.Errorf("Expected 1 template, got %d", len(templates))
	}
}

func TestExchangeRates(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.UpsertExchangeRate(ctx, store.UpsertRateParams{CurrencyFrom: "usdt", CurrencyTo: "rub", Rate: mustDecimal(t, "95.5"), IsActive: true}); err != nil {
		t.Fatalf("UpsertExchangeRate failed: %v", err)
	}
	if err := service.UpsertExchangeRate(ctx, store.UpsertRateParams{CurrencyFrom: "RUB", CurrencyTo: "USDT", Rate: mustDecimal(t, "0.0105"), IsActive: false}); err != nil {
		t.Fatalf("UpsertExchangeRate failed: %v", err)
	}

	err := service.UpsertExchangeRate(ctx, store.UpsertRateParams{CurrencyFrom: "USD", CurrencyTo: "usd", Rate: mustDecimal(t, "1"), IsActive: true})
	if !errors.Is(err, store.ErrInvalidRate) {
		t.Errorf("Expected ErrInvalidRate for identical currencies, got %v", err)
	}

	rates, err := service.ListActiveExchangeRates(ctx)
	if err != nil {
		t.Fatalf("ListActiveExchangeRates failed: %v", err)
	}
	if len(rates) != 1 {
		t.Fatalf("Expected 1 active rate, got %d", len(rates))
	}
	if rates[0].CurrencyFrom != "USDT" || rates[0].CurrencyTo != "RUB" {
		t.Errorf("Expected USDT → RUB, got %s → %s", rates[0].CurrencyFrom, rates[0].CurrencyTo)
	}
	if !rates[0].Rate.Equal(mustDecimal(t, "95.5")) {
		t.Errorf("Expected rate 95.5, got %s", rates[0].Rate)
	}
}

func TestAdminDestinations(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.UpsertAdminDestination(ctx, store.UpsertDestinationParams{ChatId: 100, Name: "ops", IsActive: true}); err != nil {
		t.Fatalf("UpsertAdminDestination failed: %v", err)
	}
	if err := service.UpsertAdminDestination(ctx, store.UpsertDestinationParams{ChatId: 200, Name: "old", IsActive: false}); err != nil {
		t.Fatalf("UpsertAdminDestination failed: %v", err)
	}
	if err := service.UpsertAdminDestination(ctx, store.UpsertDestinationParams{ChatId: -1001234567890, Name: "group", IsActive: false}); err != nil {
		t.Fatalf("Expected group chat id to be accepted: %v", err)
	}
	if err := service.UpsertAdminDestination(ctx, store.UpsertDestinationParams{ChatId: 0, IsActive: true}); err == nil {
		t.Error("Expected error for missing chat ID")
	}

	active, err := service.ListActiveAdminDestinations(ctx)
	if err != nil {
		t.Fatalf("ListActiveAdminDestinations failed: %v", err)
	}
	if len(active) != 1 || active[0].ChatId != 100 {
		t.Errorf("Expected only chat 100 to be active, got %+v", active)
	}

	// Deactivate and check it drops out immediately
	if err := service.UpsertAdminDestination(ctx, store.UpsertDestinationParams{ChatId: 100, Name: "ops", IsActive: false}); err != nil {
		t.Fatalf("UpsertAdminDestination failed: %v", err)
	}
	active, err = service.ListActiveAdminDestinations(ctx)
	if err != nil {
		t.Fatalf("ListActiveAdminDestinations failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected no active destinations, got %d", len(active))
	}

	all, err := service.ListAdminDestinations(ctx)
	if err != nil {
		t.Fatalf("ListAdminDestinations failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 destinations, got %d", len(all))
	}
}

func TestSessions(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	session, err := service.LoadSession(ctx, 42)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if session.HasPendingTransfer() {
		t.Error("Expected empty session for unknown user")
	}

	session.PendingTransferId = 7
	if err := service.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	loaded, err := service.LoadSession(ctx, 42)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded.PendingTransferId != 7 {
		t.Errorf("Expected pending transfer 7, got %d", loaded.PendingTransferId)
	}

	loaded.PendingTransferId = 0
	if err := service.SaveSession(ctx, loaded); err != nil {
		t.Fatalf("SaveSession clear failed: %v", err)
	}

	var count int
	if err := service.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected cleared session row to be deleted, got %d rows", count)
	}
}
