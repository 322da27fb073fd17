package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cityexchange-go/internal/models"
)

func (s *Service) LoadSession(ctx context.Context, telegramId int64) (models.Session, error) {
	session := models.Session{TelegramId: telegramId}
	err := s.db.QueryRowContext(ctx, queryGetSession, telegramId).
		Scan(&session.TelegramId, &session.PendingTransferId, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{TelegramId: telegramId}, nil
		}
		return session, fmt.Errorf("unable to load session: %w", err)
	}
	return session, nil
}

func (s *Service) SaveSession(ctx context.Context, session models.Session) error {
	if !session.HasPendingTransfer() {
		if _, err := s.db.ExecContext(ctx, queryDeleteSession, session.TelegramId); err != nil {
			return fmt.Errorf("unable to clear session: %w", err)
		}
		return nil
	}

	if _, err := s.db.ExecContext(ctx, queryUpsertSession, session.TelegramId, session.PendingTransferId, s.now()); err != nil {
		return fmt.Errorf("unable to save session: %w", err)
	}
	return nil
}
