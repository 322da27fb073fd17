package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Service is a thin wrapper over one bot token. The customer bot and the
// administrator notification bot each get their own Service.
type Service struct {
	api *tgbotapi.BotAPI
}

func NewService(token string, debug bool) (*Service, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("bot token cannot be empty")
	}

	httpClient, err := createCustomHttpClient()
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot api: %s", DescribeSendError(err))
	}
	api.Debug = debug

	zap.L().Info("Telegram bot authorized", zap.String("username", api.Self.UserName))
	return &Service{api: api}, nil
}

func createCustomHttpClient() (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 90 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	// Long polling holds requests open for the update timeout
	return &http.Client{
		Transport: tr,
		Timeout:   120 * time.Second,
	}, nil
}

func (s *Service) Username() string {
	return s.api.Self.UserName
}

// SendMessage delivers a plain text message
func (s *Service) SendMessage(ctx context.Context, chatId int64, text string) error {
	return s.SendReply(ctx, chatId, text, nil)
}

// SendReply delivers a text message with an optional reply markup
// (keyboard, keyboard removal). A nil markup leaves the client keyboard as is.
func (s *Service) SendReply(ctx context.Context, chatId int64, text string, markup any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatId, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("unable to send message to chat %d: %w", chatId, err)
	}
	return nil
}

// Updates starts long polling. The channel is closed once ctx is cancelled.
func (s *Service) Updates(ctx context.Context, timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	updates := s.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		s.api.StopReceivingUpdates()
	}()

	return updates
}

// DescribeSendError turns a Bot API failure into an operator hint
func DescribeSendError(err error) string {
	if err == nil {
		return ""
	}

	code, message := 0, err.Error()
	var apiErr *tgbotapi.Error
	var apiErrValue tgbotapi.Error
	switch {
	case errors.As(err, &apiErr):
		code, message = apiErr.Code, apiErr.Message
	case errors.As(err, &apiErrValue):
		code, message = apiErrValue.Code, apiErrValue.Message
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "chat not found"):
		return "chat not found: the recipient has not started a conversation with the notification bot"
	case code == http.StatusUnauthorized || strings.Contains(lower, "unauthorized"):
		return "unauthorized: the notification bot token is invalid"
	case code == http.StatusForbidden || strings.Contains(lower, "blocked"):
		return "forbidden: the bot was blocked or removed from the chat"
	case code == http.StatusTooManyRequests:
		return "rate limited by telegram: " + message
	case code != 0:
		return fmt.Sprintf("telegram error %d: %s", code, message)
	}
	return message
}
