package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func scanOrder(row rowScanner) (*models.ExchangeOrder, error) {
	var order models.ExchangeOrder
	var telegramUserId sql.NullInt64
	var orderType, status string
	var amountStr, rateStr, receiveStr string
	var notes sql.NullString

	err := row.Scan(&order.Id, &telegramUserId, &orderType, &amountStr, &rateStr, &receiveStr,
		&order.FullName, &order.WalletAddress, &status, &notes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	order.TelegramUserId = int64Ptr(telegramUserId)
	order.OrderType = models.OrderType(orderType)
	order.Status = models.OrderStatus(status)
	order.Notes = notes.String

	order.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	order.ExchangeRate, err = decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exchange rate '%s': %w", rateStr, err)
	}
	order.AmountToReceive, err = decimal.NewFromString(receiveStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount to receive '%s': %w", receiveStr, err)
	}

	return &order, nil
}

// CreateExchangeOrder persists a validated order in status "pending"
func (s *Service) CreateExchangeOrder(ctx context.Context, params store.CreateOrderParams) (*models.ExchangeOrder, error) {
	zap.L().Info("Creating exchange order",
		zap.String("order_type", string(params.OrderType)),
		zap.String("amount", params.Amount.String()),
		zap.String("exchange_rate", params.ExchangeRate.String()),
		zap.String("amount_to_receive", params.AmountToReceive.String()))

	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	result, err := s.db.ExecContext(ctx, queryInsertOrder,
		nullInt64(params.TelegramUserId),
		string(params.OrderType),
		params.Amount.StringFixed(models.AmountPlaces),
		params.ExchangeRate.StringFixed(models.RatePlaces),
		params.AmountToReceive.StringFixed(models.AmountPlaces),
		params.FullName,
		params.WalletAddress,
		string(models.OrderStatusPending),
		createdAt.UTC(), createdAt.UTC())
	if err != nil {
		zap.L().Error("Failed to insert exchange order", zap.Error(err))
		return nil, fmt.Errorf("unable to insert exchange order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("unable to get exchange order id: %w", err)
	}

	zap.L().Info("Exchange order created", zap.Int64("order_id", id))
	return s.GetExchangeOrder(ctx, id)
}

func (s *Service) GetExchangeOrder(ctx context.Context, orderId int64) (*models.ExchangeOrder, error) {
	order, err := scanOrder(s.db.QueryRowContext(ctx, queryGetOrder, orderId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("exchange order %d: %w", orderId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query exchange order: %w", err)
	}
	return order, nil
}

// ListOrdersByTelegramUser returns the user's orders, newest first
func (s *Service) ListOrdersByTelegramUser(ctx context.Context, telegramUserId int64) ([]models.ExchangeOrder, error) {
	zap.L().Debug("Querying orders for user", zap.Int64("telegram_user_id", telegramUserId))

	rows, err := s.db.QueryContext(ctx, queryListOrdersByTelegramUser, telegramUserId)
	if err != nil {
		return nil, fmt.Errorf("unable to query user orders: %w", err)
	}
	defer closeRows(rows)

	orders := []models.ExchangeOrder{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during order row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus is an operator action
func (s *Service) UpdateOrderStatus(ctx context.Context, orderId int64, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%q: %w", status, store.ErrInvalidStatus)
	}

	result, err := s.db.ExecContext(ctx, queryUpdateOrderStatus, string(status), s.now(), orderId)
	if err != nil {
		return fmt.Errorf("unable to update order status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("exchange order %d: %w", orderId, store.ErrNotFound)
	}

	zap.L().Info("Order status updated", zap.Int64("order_id", orderId), zap.String("status", string(status)))
	return nil
}

// CancelExpiredOrders moves every pending order created before cutoff to
// "cancelled" in one conditional UPDATE.
func (s *Service) CancelExpiredOrders(ctx context.Context, cutoff, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, queryCancelExpiredOrders, now.UTC(), cutoff.UTC())
	if err != nil {
		zap.L().Error("Failed to cancel expired orders", zap.Time("cutoff", cutoff), zap.Error(err))
		return 0, fmt.Errorf("unable to cancel expired orders: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unable to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
