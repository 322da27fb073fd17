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

package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/notify"
	"cityexchange-go/internal/store"

	"go.uber.org/zap"
)

const (
	textUseMenu        = "Пожалуйста, используйте кнопки меню для навигации."
	textGenericError   = "Произошла ошибка. Пожалуйста, попробуйте позже."
	textStartOver      = "Произошла ошибка. Пожалуйста, начните заново."
	textTransferFailed = "Произошла ошибка при создании заявки. Попробуйте позже."
	textContactFailed  = "Произошла ошибка при сохранении контакта. Попробуйте позже."
	textRatesHeader    = "📊 Актуальные курсы обмена:"
)

// Store is the part of the request store the conversation uses
type Store interface {
	UpsertUser(ctx context.Context, params store.UpsertUserParams) (*models.User, error)
	GetMessageTemplate(ctx context.Context, messageType models.MessageType) (*models.MessageTemplate, error)
	ListActiveExchangeRates(ctx context.Context) ([]models.ExchangeRate, error)
	CreateTransferRequest(ctx context.Context, params store.CreateTransferParams) (*models.TransferRequest, error)
	AttachTransferContact(ctx context.Context, transferId int64, params store.AttachContactParams) (*models.TransferRequest, error)
}

// Replier sends one reply to the customer
type Replier interface {
	Reply(ctx context.Context, reply Reply) error
}

// Notifier announces a completed transfer request to administrators
type Notifier interface {
	NotifyTransfer(ctx context.Context, transferId int64) notify.Result
}

// Sender identifies who wrote the message
type Sender struct {
	TelegramId int64
	Username   string
	FirstName  string
	LastName   string
}

// Contact is a phone number shared through the contact button
type Contact struct {
	Phone     string
	FirstName string
	LastName  string
}

// Inbound is one customer message. Exactly one of Text or Contact is set.
type Inbound struct {
	ChatId  int64
	From    Sender
	Text    string
	Contact *Contact
}

type Reply struct {
	ChatId   int64
	Text     string
	Keyboard Keyboard
}

type Engine struct {
	store    Store
	replier  Replier
	notifier Notifier
	now      func() time.Time
}

func NewEngine(store Store, replier Replier, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		replier:  replier,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch handles one inbound message and returns the session to persist.
// It sends at most one reply and never fails; problems are logged and the
// customer gets a generic error text.
func (e *Engine) Dispatch(ctx context.Context, in Inbound, session models.Session) (result models.Session) {
	result = session
	logger := zap.L().With(zap.Int64("telegram_id", in.From.TelegramId), zap.Int64("chat_id", in.ChatId))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Conversation handler panicked", zap.Any("panic", r))
			e.reply(ctx, logger, in.ChatId, textGenericError, KeyboardMain)
			result = session
		}
	}()

	user, userErr := e.store.UpsertUser(ctx, store.UpsertUserParams{
		TelegramId: in.From.TelegramId,
		Username:   in.From.Username,
		FirstName:  in.From.FirstName,
		LastName:   in.From.LastName,
	})
	if userErr != nil {
		logger.Error("Unable to resolve user", zap.Error(userErr))
	}

	if in.Contact != nil {
		return e.handleContact(ctx, logger, in, session)
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return session
	}

	cmd := Normalize(text)
	logger.Debug("Handling message", zap.String("command", string(cmd)))

	switch cmd {
	case CommandStart:
		e.replyTemplate(ctx, logger, in.ChatId, models.MessageStart, KeyboardMain)
	case CommandAbout:
		e.replyTemplate(ctx, logger, in.ChatId, models.MessageAbout, KeyboardMain)
	case CommandCompliance:
		e.replyTemplate(ctx, logger, in.ChatId, models.MessageAml, KeyboardMain)
	case CommandContactUs:
		e.replyTemplate(ctx, logger, in.ChatId, models.MessageContact, KeyboardMain)
	case CommandLocation:
		e.replyTemplate(ctx, logger, in.ChatId, models.MessageLocation, KeyboardMain)
	case CommandTransferEntry:
		e.replyTemplate(ctx, logger, in.ChatId, models.MessageCityex24Question, KeyboardCountries)
	case CommandRates:
		e.reply(ctx, logger, in.ChatId, e.ratesText(ctx, logger), KeyboardMain)
	case CommandUnknown:
		e.reply(ctx, logger, in.ChatId, textUseMenu, KeyboardMain)
	default:
		country, ok := cmd.Country()
		if !ok {
			e.reply(ctx, logger, in.ChatId, textUseMenu, KeyboardMain)
			return session
		}
		if userErr != nil {
			e.reply(ctx, logger, in.ChatId, textGenericError, KeyboardMain)
			return session
		}
		return e.handleCountry(ctx, logger, in, user, country, session)
	}

	return session
}

func (e *Engine) handleCountry(ctx context.Context, logger *zap.Logger, in Inbound, user *models.User, country models.Country, session models.Session) models.Session {
	transfer, err := e.store.CreateTransferRequest(ctx, store.CreateTransferParams{
		UserId:    &user.Id,
		Country:   country,
		CreatedAt: e.now(),
	})
	if err != nil {
		logger.Error("Unable to create transfer request", zap.String("country", string(country)), zap.Error(err))
		e.reply(ctx, logger, in.ChatId, textTransferFailed, KeyboardMain)
		return session
	}

	logger.Info("Transfer request awaiting contact", zap.Int64("transfer_id", transfer.Id), zap.String("country", string(country)))
	session.PendingTransferId = transfer.Id
	e.replyTemplate(ctx, logger, in.ChatId, models.MessageCityex24ContactRequest, KeyboardShareContact)
	return session
}

func (e *Engine) handleContact(ctx context.Context, logger *zap.Logger, in Inbound, session models.Session) models.Session {
	if !session.HasPendingTransfer() {
		logger.Warn("Contact received without a pending transfer request")
		e.reply(ctx, logger, in.ChatId, textStartOver, KeyboardMain)
		return session
	}

	transferId := session.PendingTransferId
	_, err := e.store.AttachTransferContact(ctx, transferId, store.AttachContactParams{
		Phone:     in.Contact.Phone,
		FirstName: in.Contact.FirstName,
		LastName:  in.Contact.LastName,
		UpdatedAt: e.now(),
	})
	if err != nil {
		logger.Error("Unable to attach contact", zap.Int64("transfer_id", transferId), zap.Error(err))
		e.reply(ctx, logger, in.ChatId, textContactFailed, KeyboardMain)
		return session
	}

	session.PendingTransferId = 0
	e.replyTemplate(ctx, logger, in.ChatId, models.MessageCityex24Confirmation, KeyboardMain)

	e.notifier.NotifyTransfer(ctx, transferId)
	return session
}

// ratesText lists active rates under the optional courses template
func (e *Engine) ratesText(ctx context.Context, logger *zap.Logger) string {
	courses, configured := e.template(ctx, logger, models.MessageCourses)

	rates, err := e.store.ListActiveExchangeRates(ctx)
	if err != nil {
		logger.Error("Unable to load exchange rates", zap.Error(err))
		return textGenericError
	}
	if len(rates) == 0 {
		return courses
	}

	var b strings.Builder
	if configured {
		b.WriteString(courses)
		b.WriteString("\n\n")
	}
	b.WriteString(textRatesHeader)
	b.WriteString("\n")
	for _, r := range rates {
		fmt.Fprintf(&b, "\n💱 %s → %s: %s", r.CurrencyFrom, r.CurrencyTo, r.Rate.StringFixed(models.RatePlaces))
	}
	return b.String()
}

// template returns the configured text, or the fallback with configured=false
func (e *Engine) template(ctx context.Context, logger *zap.Logger, messageType models.MessageType) (string, bool) {
	tmpl, err := e.store.GetMessageTemplate(ctx, messageType)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Error("Unable to load message template", zap.String("message_type", string(messageType)), zap.Error(err))
		}
		return messageType.Fallback(), false
	}
	if strings.TrimSpace(tmpl.Text) == "" || tmpl.Text == models.TemplateNotConfigured {
		return messageType.Fallback(), false
	}
	return tmpl.Text, true
}

func (e *Engine) replyTemplate(ctx context.Context, logger *zap.Logger, chatId int64, messageType models.MessageType, keyboard Keyboard) {
	text, _ := e.template(ctx, logger, messageType)
	e.reply(ctx, logger, chatId, text, keyboard)
}

func (e *Engine) reply(ctx context.Context, logger *zap.Logger, chatId int64, text string, keyboard Keyboard) {
	if err := e.replier.Reply(ctx, Reply{ChatId: chatId, Text: text, Keyboard: keyboard}); err != nil {
		logger.Warn("Unable to send reply", zap.Error(err))
	}
}
