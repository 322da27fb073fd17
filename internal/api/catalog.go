package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"
)

func (s *ExchangeService) ListActiveRates(ctx context.Context) ([]models.ExchangeRate, error) {
	rates, err := s.store.ListActiveExchangeRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to list exchange rates: %w", err)
	}
	return rates, nil
}

// GetBotMessage returns a template text for the web client. An unset
// template yields the "not configured" placeholder rather than an error.
func (s *ExchangeService) GetBotMessage(ctx context.Context, rawType string) (string, error) {
	if rawType == "" {
		return "", invalid("message_type", "message_type обязателен")
	}

	messageType := models.MessageType(rawType)
	if !messageType.Valid() {
		valid := make([]string, len(models.MessageTypes))
		for i, t := range models.MessageTypes {
			valid[i] = string(t)
		}
		return "", invalid("message_type", "Неверный тип сообщения. Допустимые типы: "+strings.Join(valid, ", "))
	}

	tmpl, err := s.store.GetMessageTemplate(ctx, messageType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.TemplateNotConfigured, nil
		}
		return "", fmt.Errorf("unable to load bot message: %w", err)
	}
	return tmpl.Text, nil
}
