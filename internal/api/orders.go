/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateOrderRequest is the raw order submission. Nil fields were absent from the request.
type CreateOrderRequest struct {
	TelegramUserId *int64
	OrderType      *string
	Amount         *string
	ExchangeRate   *string
	FullName       *string
	WalletAddress  *string
}

// ComputeAmountToReceive applies the direction-dependent formula:
// selling USDT pays amount × rate RUB, buying USDT pays amount ÷ rate USDT.
func ComputeAmountToReceive(orderType models.OrderType, amount, rate decimal.Decimal) decimal.Decimal {
	if orderType == models.OrderTypeSell {
		return amount.Mul(rate).RoundBank(models.AmountPlaces)
	}
	return amount.Div(rate).RoundBank(models.AmountPlaces)
}

// CreateOrder validates, prices and stores an exchange order, then notifies
// administrators. Notification problems never fail the call.
func (s *ExchangeService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.ExchangeOrder, error) {
	params, verr := validateOrder(req)
	if verr != nil {
		zap.L().Info("Rejected exchange order", zap.String("field", verr.Field), zap.String("reason", verr.Message))
		rejectedRequests.WithLabelValues("order", verr.Field).Inc()
		return nil, verr
	}
	params.CreatedAt = s.now()

	order, err := s.store.CreateExchangeOrder(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("unable to create exchange order: %w", err)
	}
	ordersCreated.WithLabelValues(string(order.OrderType)).Inc()

	s.notifier.NotifyOrder(context.WithoutCancel(ctx), order.Id)
	return order, nil
}

func validateOrder(req CreateOrderRequest) (store.CreateOrderParams, *ValidationError) {
	var params store.CreateOrderParams

	fields := []struct {
		name  string
		value *string
	}{
		{"order_type", req.OrderType},
		{"amount", req.Amount},
		{"exchange_rate", req.ExchangeRate},
		{"full_name", req.FullName},
		{"wallet_address", req.WalletAddress},
	}
	for _, f := range fields {
		if f.value == nil {
			return params, required(f.name)
		}
	}

	orderType := models.OrderType(*req.OrderType)
	if !orderType.Valid() {
		return params, invalid("order_type", `Тип заявки должен быть "buy" или "sell"`)
	}

	amount, err := parseBounded(*req.Amount, models.AmountDigits, models.AmountPlaces)
	if err != nil {
		return params, invalid("amount", "Неверный формат числовых значений")
	}
	rate, err := parseBounded(*req.ExchangeRate, models.RateDigits, models.RatePlaces)
	if err != nil {
		return params, invalid("exchange_rate", "Неверный формат числовых значений")
	}

	amount = amount.RoundBank(models.AmountPlaces)
	rate = rate.RoundBank(models.RatePlaces)
	if !amount.IsPositive() {
		return params, invalid("amount", "Сумма должна быть больше нуля")
	}
	if !rate.IsPositive() {
		return params, invalid("exchange_rate", "Курс обмена должен быть больше нуля")
	}

	fullName := strings.TrimSpace(*req.FullName)
	if fullName == "" {
		return params, invalid("full_name", "Ф.И.О не может быть пустым")
	}
	wallet := strings.TrimSpace(*req.WalletAddress)
	if wallet == "" {
		return params, invalid("wallet_address", "Адрес кошелька не может быть пустым")
	}

	return store.CreateOrderParams{
		TelegramUserId:  req.TelegramUserId,
		OrderType:       orderType,
		Amount:          amount,
		ExchangeRate:    rate,
		AmountToReceive: ComputeAmountToReceive(orderType, amount, rate),
		FullName:        fullName,
		WalletAddress:   wallet,
	}, nil
}

// ParseTelegramUserId validates the telegram_user_id query value
func ParseTelegramUserId(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid("telegram_user_id", "telegram_user_id обязателен")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalid("telegram_user_id", "Неверный формат telegram_user_id")
	}
	return id, nil
}

// ListUserOrders returns the user's orders, newest first
func (s *ExchangeService) ListUserOrders(ctx context.Context, telegramUserId int64) ([]models.ExchangeOrder, error) {
	orders, err := s.store.ListOrdersByTelegramUser(ctx, telegramUserId)
	if err != nil {
		return nil, fmt.Errorf("unable to list user orders: %w", err)
	}
	return orders, nil
}

// parseBounded parses a decimal whose integer part fits in maxDigits-places
// digits. The exponent is checked before any rescaling since rounding a value
// like 1e200000000 allocates a coefficient of that many digits.
func parseBounded(raw string, maxDigits, places int) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	exp := int(d.Exponent())
	if exp > maxDigits || exp < -maxDigits {
		return decimal.Zero, fmt.Errorf("exponent %d out of range", exp)
	}
	if d.IsZero() {
		return d, nil
	}
	if intDigits := d.NumDigits() + exp; intDigits > maxDigits-places {
		return decimal.Zero, fmt.Errorf("%d integer digits, at most %d allowed", intDigits, maxDigits-places)
	}
	return d, nil
}
