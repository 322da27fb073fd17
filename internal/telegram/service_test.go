package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestDescribeSendError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"chat not found", &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}, "has not started"},
		{"wrapped unauthorized", fmt.Errorf("send: %w", &tgbotapi.Error{Code: 401, Message: "Unauthorized"}), "token is invalid"},
		{"blocked", &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}, "blocked"},
		{"rate limited", &tgbotapi.Error{Code: 429, Message: "Too Many Requests: retry after 5"}, "rate limited"},
		{"other api error", &tgbotapi.Error{Code: 400, Message: "Bad Request: message is too long"}, "telegram error 400"},
		{"transport", errors.New("dial tcp: i/o timeout"), "dial tcp: i/o timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DescribeSendError(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("Expected empty description, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Expected description containing %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewService_EmptyToken(t *testing.T) {
	if _, err := NewService("  ", false); err == nil {
		t.Error("Expected error for empty token")
	}
}

func TestSendReply_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Service{}
	if err := s.SendReply(ctx, 1, "hello", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
