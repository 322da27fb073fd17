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
	"time"

	"cityexchange-go/internal/notify"
	"cityexchange-go/internal/store"
)

// Notifier announces newly persisted requests to administrators
type Notifier interface {
	NotifyTransfer(ctx context.Context, transferId int64) notify.Result
	NotifyOrder(ctx context.Context, orderId int64) notify.Result
}

// ExchangeService validates and records requests coming from the web client
type ExchangeService struct {
	store    store.RequestStore
	notifier Notifier
	now      func() time.Time
}

func NewExchangeService(store store.RequestStore, notifier Notifier) *ExchangeService {
	return &ExchangeService{
		store:    store,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ExchangeService) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// ValidationError reports bad client input. Message is shown to the caller as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func required(field string) *ValidationError {
	return invalid(field, fmt.Sprintf("Поле %s обязательно для заполнения", field))
}
