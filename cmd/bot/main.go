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

	"cityexchange-go/internal/bot"
	"cityexchange-go/internal/common"
	"cityexchange-go/internal/config"
	"cityexchange-go/internal/conversation"
	"cityexchange-go/internal/telegram"

	"go.uber.org/zap"
)

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Telegram.BotToken == "" {
		zap.L().Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Starting City Exchange bot")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	customerBot, err := telegram.NewService(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		zap.L().Fatal("Failed to start customer bot", zap.Error(err))
	}

	engine := conversation.NewEngine(services.DbService, bot.NewReplier(customerBot), services.Notifier)
	runner := bot.NewRunner(customerBot, engine, services.Sessions, cfg.Telegram.UpdateTimeout)

	zap.L().Info("Bot running, press Ctrl+C to stop", zap.String("username", customerBot.Username()))
	if err := runner.Run(ctx); err != nil {
		zap.L().Error("Bot runner failed", zap.Error(err))
		return
	}
	zap.L().Info("Bot stopped")
}
