package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"
)

func TestCreateTransferRequest_ChatFlow(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user, err := service.UpsertUser(ctx, store.UpsertUserParams{TelegramId: 42, Username: "ivan", FirstName: "Ivan"})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	transfer, err := service.CreateTransferRequest(ctx, store.CreateTransferParams{UserId: &user.Id, Country: models.CountryTurkey})
	if err != nil {
		t.Fatalf("CreateTransferRequest failed: %v", err)
	}
	if transfer.Status != models.TransferStatusNew {
		t.Errorf("Expected status new, got %s", transfer.Status)
	}
	if transfer.ContactPhone != "" {
		t.Errorf("Expected empty contact phone, got %q", transfer.ContactPhone)
	}
	if transfer.Owner == nil || transfer.Owner.TelegramId != 42 {
		t.Fatalf("Expected owner with telegram id 42, got %+v", transfer.Owner)
	}

	updated, err := service.AttachTransferContact(ctx, transfer.Id, store.AttachContactParams{
		Phone:     "+998901234567",
		FirstName: "Ivan",
	})
	if err != nil {
		t.Fatalf("AttachTransferContact failed: %v", err)
	}
	if updated.ContactPhone != "+998901234567" || updated.ContactFirstName != "Ivan" {
		t.Errorf("Expected contact attached, got %+v", updated)
	}
}

func TestCreateTransferRequest_Validation(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := service.CreateTransferRequest(ctx, store.CreateTransferParams{Country: models.Country("mars")}); err == nil {
		t.Error("Expected error for unsupported country")
	}

	if _, err := service.AttachTransferContact(ctx, 999, store.AttachContactParams{Phone: "1"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetLatestTransferRequest(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := service.GetLatestTransferRequest(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on empty table, got %v", err)
	}

	if _, err := service.CreateTransferRequest(ctx, store.CreateTransferParams{
		Country: models.CountryUae, ContactPhone: "+1", CreatedAt: baseTime.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("CreateTransferRequest failed: %v", err)
	}
	latest, err := service.CreateTransferRequest(ctx, store.CreateTransferParams{
		Country: models.CountryKyrgyzstan, ContactPhone: "+2", CreatedAt: baseTime,
	})
	if err != nil {
		t.Fatalf("CreateTransferRequest failed: %v", err)
	}

	got, err := service.GetLatestTransferRequest(ctx)
	if err != nil {
		t.Fatalf("GetLatestTransferRequest failed: %v", err)
	}
	if got.Id != latest.Id {
		t.Errorf("Expected latest id %d, got %d", latest.Id, got.Id)
	}
	if got.Owner != nil {
		t.Errorf("Expected web transfer without owner, got %+v", got.Owner)
	}
}

func TestUpdateTransferStatus(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	transfer, err := service.CreateTransferRequest(ctx, store.CreateTransferParams{Country: models.CountryUzbekistan, ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("CreateTransferRequest failed: %v", err)
	}

	if err := service.UpdateTransferStatus(ctx, transfer.Id, models.TransferStatusInProgress); err != nil {
		t.Fatalf("UpdateTransferStatus failed: %v", err)
	}
	if err := service.UpdateTransferStatus(ctx, transfer.Id, models.TransferStatus("done")); !errors.Is(err, store.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}

	loaded, err := service.GetTransferRequest(ctx, transfer.Id)
	if err != nil {
		t.Fatalf("GetTransferRequest failed: %v", err)
	}
	if loaded.Status != models.TransferStatusInProgress {
		t.Errorf("Expected in_progress, got %s", loaded.Status)
	}
}

func TestTransferRequests_DeletedWithOwner(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user, err := service.UpsertUser(ctx, store.UpsertUserParams{TelegramId: 42})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	transfer, err := service.CreateTransferRequest(ctx, store.CreateTransferParams{UserId: &user.Id, Country: models.CountryTurkey})
	if err != nil {
		t.Fatalf("CreateTransferRequest failed: %v", err)
	}

	if _, err := service.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", user.Id); err != nil {
		t.Fatalf("Delete user failed: %v", err)
	}

	if _, err := service.GetTransferRequest(ctx, transfer.Id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected transfer to be removed with its owner, got %v", err)
	}
}
