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

package sweeper

import (
	"context"
	"fmt"
	"time"

	"cityexchange-go/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var ordersExpired = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cityexchange_orders_expired_total",
	Help: "Pending exchange orders cancelled by the expiry sweep",
})

// OrderCanceller is the single store call the sweep needs
type OrderCanceller interface {
	CancelExpiredOrders(ctx context.Context, cutoff, now time.Time) (int64, error)
}

// Sweeper cancels pending exchange orders older than the configured age
type Sweeper struct {
	store        OrderCanceller
	interval     time.Duration
	maxAge       time.Duration
	runOnStartup bool
	now          func() time.Time

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewSweeper(store OrderCanceller, cfg models.SweeperConfig) (*Sweeper, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("sweeper interval must be positive, got %v", cfg.Interval)
	}
	if cfg.OrderMaxAge <= 0 {
		return nil, fmt.Errorf("order max age must be positive, got %v", cfg.OrderMaxAge)
	}

	return &Sweeper{
		store:        store,
		interval:     cfg.Interval,
		maxAge:       cfg.OrderMaxAge,
		runOnStartup: cfg.RunOnStartup,
		now:          func() time.Time { return time.Now().UTC() },
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}, nil
}

// RunOnce cancels every pending order created strictly before now minus the
// max age. Running it again immediately is a no-op.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	now := s.now()
	cutoff := now.Add(-s.maxAge)

	count, err := s.store.CancelExpiredOrders(ctx, cutoff, now)
	if err != nil {
		zap.L().Error("Expiry sweep failed", zap.Time("cutoff", cutoff), zap.Error(err))
		return 0, fmt.Errorf("expiry sweep failed: %w", err)
	}

	if count > 0 {
		ordersExpired.Add(float64(count))
		zap.L().Info("Cancelled expired orders", zap.Int64("count", count), zap.Time("cutoff", cutoff))
	} else {
		zap.L().Debug("No expired orders", zap.Time("cutoff", cutoff))
	}
	return count, nil
}

// Start launches the periodic sweep in the background
func (s *Sweeper) Start(ctx context.Context) {
	zap.L().Info("Starting expiry sweeper",
		zap.Duration("interval", s.interval),
		zap.Duration("order_max_age", s.maxAge))

	go s.loop(ctx)
}

// Stop signals the loop and waits for the sweep in progress to finish
func (s *Sweeper) Stop() {
	zap.L().Info("Stopping expiry sweeper")
	close(s.stopChan)
	<-s.doneChan
	zap.L().Info("Expiry sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.doneChan)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.runOnStartup {
		s.sweep(ctx)
	}

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweep isolates loop iterations; a failed run is retried on the next tick
func (s *Sweeper) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Expiry sweep panicked", zap.Any("panic", r))
		}
	}()
	_, _ = s.RunOnce(ctx)
}
