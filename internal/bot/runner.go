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

package bot

import (
	"context"
	"time"

	"cityexchange-go/internal/conversation"
	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// UpdateSource yields Telegram updates until ctx is cancelled
type UpdateSource interface {
	Updates(ctx context.Context, timeout int) tgbotapi.UpdatesChannel
}

// Dispatcher handles one customer message
type Dispatcher interface {
	Dispatch(ctx context.Context, in conversation.Inbound, session models.Session) models.Session
}

// Runner drives the customer bot: it reads updates, restores the session,
// dispatches, and persists the resulting session.
type Runner struct {
	source        UpdateSource
	engine        Dispatcher
	sessions      store.SessionStore
	updateTimeout int
}

func NewRunner(source UpdateSource, engine Dispatcher, sessions store.SessionStore, updateTimeout int) *Runner {
	return &Runner{
		source:        source,
		engine:        engine,
		sessions:      sessions,
		updateTimeout: updateTimeout,
	}
}

// Run blocks until ctx is cancelled or the update channel closes.
// Updates are handled one at a time in arrival order.
func (r *Runner) Run(ctx context.Context) error {
	zap.L().Info("Bot runner started", zap.Int("update_timeout", r.updateTimeout))
	updates := r.source.Updates(ctx, r.updateTimeout)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Bot runner stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				zap.L().Info("Update channel closed")
				return nil
			}
			r.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes a single update. Unsupported updates are ignored.
func (r *Runner) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	in, ok := InboundFromUpdate(update)
	if !ok {
		return
	}

	logger := zap.L().With(zap.Int("update_id", update.UpdateID), zap.Int64("telegram_id", in.From.TelegramId))

	session, err := r.sessions.LoadSession(ctx, in.From.TelegramId)
	if err != nil {
		logger.Error("Unable to load session", zap.Error(err))
		session = models.Session{TelegramId: in.From.TelegramId}
	}

	next := r.engine.Dispatch(ctx, in, session)
	next.TelegramId = in.From.TelegramId
	next.UpdatedAt = time.Now().UTC()

	if next.PendingTransferId == session.PendingTransferId && err == nil {
		return
	}
	if err := r.sessions.SaveSession(ctx, next); err != nil {
		logger.Error("Unable to save session", zap.Int64("pending_transfer_id", next.PendingTransferId), zap.Error(err))
	}
}

// InboundFromUpdate extracts a customer message from a private chat.
// Group chats are skipped so the bot can sit in an administrator group.
func InboundFromUpdate(update tgbotapi.Update) (conversation.Inbound, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
		return conversation.Inbound{}, false
	}

	in := conversation.Inbound{
		ChatId: msg.Chat.ID,
		From: conversation.Sender{
			TelegramId: msg.From.ID,
			Username:   msg.From.UserName,
			FirstName:  msg.From.FirstName,
			LastName:   msg.From.LastName,
		},
	}

	switch {
	case msg.Contact != nil:
		in.Contact = &conversation.Contact{
			Phone:     msg.Contact.PhoneNumber,
			FirstName: msg.Contact.FirstName,
			LastName:  msg.Contact.LastName,
		}
	case msg.Text != "":
		in.Text = msg.Text
	default:
		return conversation.Inbound{}, false
	}
	return in, true
}
