package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"go.uber.org/zap"
)

func scanTemplate(row rowScanner) (*models.MessageTemplate, error) {
	var tmpl models.MessageTemplate
	var messageType string
	if err := row.Scan(&tmpl.Id, &messageType, &tmpl.Text, &tmpl.UpdatedAt); err != nil {
		return nil, err
	}
	tmpl.MessageType = models.MessageType(messageType)
	return &tmpl, nil
}

func (s *Service) GetMessageTemplate(ctx context.Context, messageType models.MessageType) (*models.MessageTemplate, error) {
	tmpl, err := scanTemplate(s.db.QueryRowContext(ctx, queryGetMessageTemplate, string(messageType)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("template %s: %w", messageType, store.ErrNotFound)
		}
		zap.L().Error("Failed to query message template", zap.String("message_type", string(messageType)), zap.Error(err))
		return nil, fmt.Errorf("unable to query message template: %w", err)
	}
	return tmpl, nil
}

func (s *Service) SetMessageTemplate(ctx context.Context, messageType models.MessageType, text string) error {
	if !messageType.Valid() {
		return fmt.Errorf("unknown message type %q", messageType)
	}

	if _, err := s.db.ExecContext(ctx, queryUpsertMessageTemplate, string(messageType), text, s.now()); err != nil {
		zap.L().Error("Failed to store message template", zap.String("message_type", string(messageType)), zap.Error(err))
		return fmt.Errorf("unable to store message template: %w", err)
	}

	zap.L().Info("Message template updated", zap.String("message_type", string(messageType)))
	return nil
}

func (s *Service) ListMessageTemplates(ctx context.Context) ([]models.MessageTemplate, error) {
	rows, err := s.db.QueryContext(ctx, queryListMessageTemplates)
	if err != nil {
		return nil, fmt.Errorf("unable to query message templates: %w", err)
	}
	defer closeRows(rows)

	var templates []models.MessageTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan message template: %w", err)
		}
		templates = append(templates, *tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message templates: %w", err)
	}

	return templates, nil
}
