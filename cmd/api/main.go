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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cityexchange-go/internal/api"
	"cityexchange-go/internal/common"
	"cityexchange-go/internal/config"
	"cityexchange-go/internal/server"

	"go.uber.org/zap"
)

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Starting City Exchange API", zap.String("addr", cfg.Server.Addr), zap.String("prefix", cfg.Server.Prefix))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	handler := server.NewHandler(api.NewExchangeService(services.DbService, services.Notifier))
	if err := server.NewServer(handler, cfg.Server).Run(ctx); err != nil {
		zap.L().Error("API server failed", zap.Error(err))
		return
	}
	zap.L().Info("API server stopped")
}
