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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var username, firstName, lastName sql.NullString
	if err := row.Scan(&user.Id, &user.TelegramId, &username, &firstName, &lastName, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.Username = username.String
	user.FirstName = firstName.String
	user.LastName = lastName.String
	return &user, nil
}

// UpsertUser creates the user on first contact and overwrites name and handle afterwards
func (s *Service) UpsertUser(ctx context.Context, params store.UpsertUserParams) (*models.User, error) {
	zap.L().Debug("Upserting user", zap.Int64("telegram_id", params.TelegramId))

	now := s.now()
	_, err := s.db.ExecContext(ctx, queryUpsertUser,
		params.TelegramId,
		nullString(params.Username),
		nullString(params.FirstName),
		nullString(params.LastName),
		now, now)
	if err != nil {
		zap.L().Error("Failed to upsert user", zap.Int64("telegram_id", params.TelegramId), zap.Error(err))
		return nil, fmt.Errorf("unable to upsert user: %w", err)
	}

	return s.GetUserByTelegramId(ctx, params.TelegramId)
}

func (s *Service) GetUserByTelegramId(ctx context.Context, telegramId int64) (*models.User, error) {
	zap.L().Debug("Querying user by telegram ID", zap.Int64("telegram_id", telegramId))

	user, err := scanUser(s.db.QueryRowContext(ctx, queryGetUserByTelegramId, telegramId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", telegramId, store.ErrNotFound)
		}
		zap.L().Error("Failed to query user by telegram ID", zap.Int64("telegram_id", telegramId), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by telegram ID: %w", err)
	}

	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	zap.L().Debug("Querying users")

	rows, err := s.db.QueryContext(ctx, queryListUsers)
	if err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer closeRows(rows)

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}
		users = append(users, *user)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during user row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	zap.L().Info("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}
