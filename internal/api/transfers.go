package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"go.uber.org/zap"
)

// CreateTransferRequest is a web transfer submission. Nil fields were absent.
type CreateTransferRequest struct {
	TelegramUserId   *int64
	Country          *string
	ContactPhone     *string
	ContactFirstName string
	ContactLastName  string
}

// CreateTransfer records a transfer request with its contact already known
// and notifies administrators.
func (s *ExchangeService) CreateTransfer(ctx context.Context, req CreateTransferRequest) (*models.TransferRequest, error) {
	if req.Country == nil {
		return nil, required("country")
	}
	if req.ContactPhone == nil {
		return nil, required("contact_phone")
	}

	country := models.Country(*req.Country)
	if !country.Valid() {
		return nil, invalid("country", "Неверная страна")
	}
	phone := strings.TrimSpace(*req.ContactPhone)
	if phone == "" {
		return nil, invalid("contact_phone", "Телефон не может быть пустым")
	}

	params := store.CreateTransferParams{
		Country:          country,
		ContactPhone:     phone,
		ContactFirstName: req.ContactFirstName,
		ContactLastName:  req.ContactLastName,
		CreatedAt:        s.now(),
	}

	if req.TelegramUserId != nil && *req.TelegramUserId != 0 {
		user, err := s.linkWebUser(ctx, *req.TelegramUserId, req.ContactFirstName, req.ContactLastName)
		if err != nil {
			return nil, err
		}
		params.UserId = &user.Id
	}

	transfer, err := s.store.CreateTransferRequest(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("unable to create transfer request: %w", err)
	}
	transfersCreated.WithLabelValues(string(transfer.Country)).Inc()

	s.notifier.NotifyTransfer(context.WithoutCancel(ctx), transfer.Id)
	return transfer, nil
}

// linkWebUser finds or creates the chat user behind a web submission. Stored
// names are only replaced by non-empty submitted ones.
func (s *ExchangeService) linkWebUser(ctx context.Context, telegramId int64, firstName, lastName string) (*models.User, error) {
	params := store.UpsertUserParams{TelegramId: telegramId, FirstName: firstName, LastName: lastName}

	existing, err := s.store.GetUserByTelegramId(ctx, telegramId)
	switch {
	case err == nil:
		params.Username = existing.Username
		if firstName == "" {
			params.FirstName = existing.FirstName
		}
		if lastName == "" {
			params.LastName = existing.LastName
		}
	case errors.Is(err, store.ErrNotFound):
		zap.L().Info("Creating user from web submission", zap.Int64("telegram_id", telegramId))
	default:
		return nil, fmt.Errorf("unable to look up user: %w", err)
	}

	user, err := s.store.UpsertUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("unable to store user: %w", err)
	}
	return user, nil
}
