package database

import (
	"context"
	"database/sql"
	"fmt"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) queryDestinations(ctx context.Context, query string) ([]models.AdminDestination, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		zap.L().Error("Failed to query admin destinations", zap.Error(err))
		return nil, fmt.Errorf("unable to query admin destinations: %w", err)
	}
	defer closeRows(rows)

	var destinations []models.AdminDestination
	for rows.Next() {
		var d models.AdminDestination
		var name sql.NullString
		if err := rows.Scan(&d.Id, &d.ChatId, &name, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan admin destination: %w", err)
		}
		d.Name = name.String
		destinations = append(destinations, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin destinations: %w", err)
	}

	return destinations, nil
}

// ListActiveAdminDestinations always reads from the database so operator
// changes apply to the next notification.
func (s *Service) ListActiveAdminDestinations(ctx context.Context) ([]models.AdminDestination, error) {
	return s.queryDestinations(ctx, queryListActiveAdminDestinations)
}

func (s *Service) ListAdminDestinations(ctx context.Context) ([]models.AdminDestination, error) {
	return s.queryDestinations(ctx, queryListAdminDestinations)
}

func (s *Service) UpsertAdminDestination(ctx context.Context, params store.UpsertDestinationParams) error {
	// Group and channel chats have negative ids
	if params.ChatId == 0 {
		return fmt.Errorf("chat ID is required")
	}

	now := s.now()
	if _, err := s.db.ExecContext(ctx, queryUpsertAdminDestination,
		params.ChatId, nullString(params.Name), params.IsActive, now, now); err != nil {
		zap.L().Error("Failed to store admin destination", zap.Int64("chat_id", params.ChatId), zap.Error(err))
		return fmt.Errorf("unable to store admin destination: %w", err)
	}

	zap.L().Info("Admin destination updated",
		zap.Int64("chat_id", params.ChatId),
		zap.String("name", params.Name),
		zap.Bool("active", params.IsActive))
	return nil
}
