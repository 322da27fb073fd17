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

package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/telegram"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	kindTransfer  = "transfer"
	kindOrder     = "order"
	kindBroadcast = "broadcast"
)

// Sender delivers one text message to one chat
type Sender interface {
	SendMessage(ctx context.Context, chatId int64, text string) error
}

// RecordReader is the part of the request store the notifier reads
type RecordReader interface {
	GetTransferRequest(ctx context.Context, transferId int64) (*models.TransferRequest, error)
	GetExchangeOrder(ctx context.Context, orderId int64) (*models.ExchangeOrder, error)
	ListActiveAdminDestinations(ctx context.Context) ([]models.AdminDestination, error)
}

// Result summarizes one fan-out run
type Result struct {
	DispatchId string
	Attempted  int
	Succeeded  int
	Failed     int
}

type Notifier struct {
	store  RecordReader
	sender Sender
	loc    *time.Location
}

// NewNotifier builds a notifier. A nil sender is allowed: every dispatch is
// then logged as misconfigured and makes no attempts.
func NewNotifier(store RecordReader, sender Sender, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{store: store, sender: sender, loc: loc}
}

// NotifyTransfer announces a persisted transfer request to every active destination.
// It never fails; the outcome is logged and returned for callers that care.
func (n *Notifier) NotifyTransfer(ctx context.Context, transferId int64) Result {
	result := Result{DispatchId: uuid.New().String()}
	logger := zap.L().With(
		zap.String("dispatch_id", result.DispatchId),
		zap.String("kind", kindTransfer),
		zap.Int64("transfer_id", transferId))

	transfer, err := n.store.GetTransferRequest(ctx, transferId)
	if err != nil {
		logger.Error("Unable to load transfer request for notification", zap.Error(err))
		return result
	}

	return n.dispatch(ctx, logger, kindTransfer, result, FormatTransfer(transfer, n.loc))
}

// NotifyOrder announces a persisted exchange order to every active destination
func (n *Notifier) NotifyOrder(ctx context.Context, orderId int64) Result {
	result := Result{DispatchId: uuid.New().String()}
	logger := zap.L().With(
		zap.String("dispatch_id", result.DispatchId),
		zap.String("kind", kindOrder),
		zap.Int64("order_id", orderId))

	order, err := n.store.GetExchangeOrder(ctx, orderId)
	if err != nil {
		logger.Error("Unable to load exchange order for notification", zap.Error(err))
		return result
	}

	return n.dispatch(ctx, logger, kindOrder, result, FormatOrder(order, n.loc))
}

// SendTest delivers text to the active destinations, or to chatId alone when
// it is non-zero.
func (n *Notifier) SendTest(ctx context.Context, chatId int64, text string) Result {
	result := Result{DispatchId: uuid.New().String()}
	logger := zap.L().With(zap.String("dispatch_id", result.DispatchId), zap.String("kind", "test"))

	if chatId == 0 {
		return n.dispatch(ctx, logger, "test", result, text)
	}
	if n.sender == nil {
		logger.Error("Notification bot is not configured; skipping dispatch")
		return result
	}
	return deliver(ctx, logger, n.sender, "test", result, []int64{chatId}, text, 0)
}

func (n *Notifier) dispatch(ctx context.Context, logger *zap.Logger, kind string, result Result, text string) Result {
	if n.sender == nil {
		logger.Error("Notification bot is not configured; skipping dispatch")
		return result
	}

	destinations, err := n.store.ListActiveAdminDestinations(ctx)
	if err != nil {
		logger.Error("Unable to load admin destinations", zap.Error(err))
		return result
	}
	if len(destinations) == 0 {
		logger.Warn("No active admin destinations; notification not sent")
		return result
	}

	chatIds := make([]int64, len(destinations))
	for i, d := range destinations {
		chatIds[i] = d.ChatId
	}

	return deliver(ctx, logger, n.sender, kind, result, chatIds, text, 0)
}

// deliver sends text to every chat concurrently and waits for all sends.
// Each goroutine owns one result slot, so failures stay isolated. A positive
// limit caps the number of sends in flight.
func deliver(ctx context.Context, logger *zap.Logger, sender Sender, kind string, result Result, chatIds []int64, text string, limit int) Result {
	dispatchesTotal.WithLabelValues(kind).Inc()
	errs := make([]error, len(chatIds))

	var sem chan struct{}
	if limit > 0 {
		sem = make(chan struct{}, limit)
	}

	var wg sync.WaitGroup
	for i, chatId := range chatIds {
		wg.Add(1)
		if sem != nil {
			sem <- struct{}{}
		}
		go func(slot int, chatId int64) {
			defer wg.Done()
			if sem != nil {
				defer func() { <-sem }()
			}
			defer func() {
				if r := recover(); r != nil {
					errs[slot] = fmt.Errorf("panic during send: %v", r)
				}
			}()
			errs[slot] = sender.SendMessage(ctx, chatId, text)
		}(i, chatId)
	}
	wg.Wait()

	result.Attempted = len(chatIds)
	for i, err := range errs {
		if err != nil {
			result.Failed++
			deliveriesTotal.WithLabelValues(kind, "failed").Inc()
			logger.Error("Notification delivery failed",
				zap.Int64("chat_id", chatIds[i]),
				zap.String("hint", telegram.DescribeSendError(err)),
				zap.Error(err))
			continue
		}
		result.Succeeded++
		deliveriesTotal.WithLabelValues(kind, "sent").Inc()
	}

	logger.Info("Notification dispatch finished",
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result
}
