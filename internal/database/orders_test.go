package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Invalid decimal %q: %v", s, err)
	}
	return d
}

func createOrder(t *testing.T, service *Service, telegramUserId *int64, createdAt time.Time) *models.ExchangeOrder {
	t.Helper()
	order, err := service.CreateExchangeOrder(context.Background(), store.CreateOrderParams{
		TelegramUserId:  telegramUserId,
		OrderType:       models.OrderTypeSell,
		Amount:          mustDecimal(t, "100"),
		ExchangeRate:    mustDecimal(t, "95.5"),
		AmountToReceive: mustDecimal(t, "9550"),
		FullName:        "Ivan Petrov",
		WalletAddress:   "TXyz123",
		CreatedAt:       createdAt,
	})
	if err != nil {
		t.Fatalf("CreateExchangeOrder failed: %v", err)
	}
	return order
}

func TestCreateExchangeOrder(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	userId := int64(42)
	order := createOrder(t, service, &userId, baseTime)

	if order.Status != models.OrderStatusPending {
		t.Errorf("Expected status pending, got %s", order.Status)
	}
	if order.TelegramUserId == nil || *order.TelegramUserId != userId {
		t.Errorf("Expected telegram user %d, got %v", userId, order.TelegramUserId)
	}
	if order.Amount.StringFixed(models.AmountPlaces) != "100.00" {
		t.Errorf("Expected amount 100.00, got %s", order.Amount)
	}
	if order.ExchangeRate.StringFixed(models.RatePlaces) != "95.5000" {
		t.Errorf("Expected rate 95.5000, got %s", order.ExchangeRate)
	}
	if !order.AmountToReceive.Equal(mustDecimal(t, "9550")) {
		t.Errorf("Expected amount to receive 9550, got %s", order.AmountToReceive)
	}
	if !order.CreatedAt.Equal(baseTime) {
		t.Errorf("Expected created_at %v, got %v", baseTime, order.CreatedAt)
	}
}

func TestCreateExchangeOrder_WithoutUser(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	order := createOrder(t, service, nil, baseTime)
	if order.TelegramUserId != nil {
		t.Errorf("Expected nil telegram user, got %d", *order.TelegramUserId)
	}
}

func TestListOrdersByTelegramUser_NewestFirst(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := int64(42)
	other := int64(7)

	older := createOrder(t, service, &userId, baseTime.Add(-2*time.Hour))
	newer := createOrder(t, service, &userId, baseTime.Add(-1*time.Hour))
	createOrder(t, service, &other, baseTime)

	orders, err := service.ListOrdersByTelegramUser(ctx, userId)
	if err != nil {
		t.Fatalf("ListOrdersByTelegramUser failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if orders[0].Id != newer.Id || orders[1].Id != older.Id {
		t.Errorf("Expected newest first, got ids %d, %d", orders[0].Id, orders[1].Id)
	}

	none, err := service.ListOrdersByTelegramUser(ctx, 555)
	if err != nil {
		t.Fatalf("ListOrdersByTelegramUser failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("Expected empty non-nil list, got %v", none)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	order := createOrder(t, service, nil, baseTime)

	if err := service.UpdateOrderStatus(ctx, order.Id, models.OrderStatusProcessed); err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	if err := service.UpdateOrderStatus(ctx, order.Id, models.OrderStatus("lost")); !errors.Is(err, store.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
	if err := service.UpdateOrderStatus(ctx, 9999, models.OrderStatusCancelled); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	loaded, err := service.GetExchangeOrder(ctx, order.Id)
	if err != nil {
		t.Fatalf("GetExchangeOrder failed: %v", err)
	}
	if loaded.Status != models.OrderStatusProcessed {
		t.Errorf("Expected status processed, got %s", loaded.Status)
	}
}

func TestCancelExpiredOrders(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	now := baseTime
	cutoff := now.Add(-4 * time.Hour)

	expired := createOrder(t, service, nil, now.Add(-5*time.Hour))
	fresh := createOrder(t, service, nil, now.Add(-3*time.Hour-59*time.Minute))
	processed := createOrder(t, service, nil, now.Add(-6*time.Hour))
	if err := service.UpdateOrderStatus(ctx, processed.Id, models.OrderStatusProcessed); err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}

	count, err := service.CancelExpiredOrders(ctx, cutoff, now)
	if err != nil {
		t.Fatalf("CancelExpiredOrders failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 cancelled order, got %d", count)
	}

	expectStatus := func(id int64, want models.OrderStatus) {
		t.Helper()
		order, err := service.GetExchangeOrder(ctx, id)
		if err != nil {
			t.Fatalf("GetExchangeOrder failed: %v", err)
		}
		if order.Status != want {
			t.Errorf("Order %d: expected status %s, got %s", id, want, order.Status)
		}
	}
	expectStatus(expired.Id, models.OrderStatusCancelled)
	expectStatus(fresh.Id, models.OrderStatusPending)
	expectStatus(processed.Id, models.OrderStatusProcessed)

	// A second run finds nothing left to cancel
	count, err = service.CancelExpiredOrders(ctx, cutoff, now)
	if err != nil {
		t.Fatalf("Second CancelExpiredOrders failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 cancelled orders on rerun, got %d", count)
	}
}
