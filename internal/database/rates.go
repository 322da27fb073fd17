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

package database

import (
	"context"
	"fmt"
	"strings"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Service) ListActiveExchangeRates(ctx context.Context) ([]models.ExchangeRate, error) {
	zap.L().Debug("Querying active exchange rates")

	rows, err := s.db.QueryContext(ctx, queryListActiveExchangeRates)
	if err != nil {
		zap.L().Error("Failed to query exchange rates", zap.Error(err))
		return nil, fmt.Errorf("unable to query exchange rates: %w", err)
	}
	defer closeRows(rows)

	var rates []models.ExchangeRate
	for rows.Next() {
		var rate models.ExchangeRate
		var rateStr string
		if err := rows.Scan(&rate.Id, &rate.CurrencyFrom, &rate.CurrencyTo, &rateStr,
			&rate.IsActive, &rate.CreatedAt, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan exchange rate: %w", err)
		}

		rate.Rate, err = decimal.NewFromString(rateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate '%s': %w", rateStr, err)
		}

		rates = append(rates, rate)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during exchange rate row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating exchange rate rows: %w", err)
	}

	return rates, nil
}

func (s *Service) UpsertExchangeRate(ctx context.Context, params store.UpsertRateParams) error {
	from := strings.ToUpper(strings.TrimSpace(params.CurrencyFrom))
	to := strings.ToUpper(strings.TrimSpace(params.CurrencyTo))
	if from == "" || to == "" {
		return fmt.Errorf("currency_from and currency_to are required")
	}
	if from == to {
		return fmt.Errorf("%s → %s: %w", from, to, store.ErrInvalidRate)
	}
	if !params.Rate.IsPositive() {
		return fmt.Errorf("rate must be positive, got %s", params.Rate.String())
	}

	now := s.now()
	_, err := s.db.ExecContext(ctx, queryUpsertExchangeRate,
		from, to, params.Rate.StringFixed(models.RatePlaces), params.IsActive, now, now)
	if err != nil {
		zap.L().Error("Failed to store exchange rate",
			zap.String("currency_from", from),
			zap.String("currency_to", to),
			zap.Error(err))
		return fmt.Errorf("unable to store exchange rate: %w", err)
	}

	zap.L().Info("Exchange rate updated",
		zap.String("currency_from", from),
		zap.String("currency_to", to),
		zap.String("rate", params.Rate.StringFixed(models.RatePlaces)),
		zap.Bool("active", params.IsActive))
	return nil
}
