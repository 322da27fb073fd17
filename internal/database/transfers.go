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

func scanTransfer(row rowScanner) (*models.TransferRequest, error) {
	var t models.TransferRequest
	var userId sql.NullInt64
	var country, status string
	var phone, firstName, lastName, notes sql.NullString
	var ownerId, ownerTelegramId sql.NullInt64
	var ownerUsername, ownerFirstName, ownerLastName sql.NullString

	err := row.Scan(&t.Id, &userId, &country, &status, &phone, &firstName, &lastName, &notes,
		&t.CreatedAt, &t.UpdatedAt,
		&ownerId, &ownerTelegramId, &ownerUsername, &ownerFirstName, &ownerLastName)
	if err != nil {
		return nil, err
	}

	t.UserId = int64Ptr(userId)
	t.Country = models.Country(country)
	t.Status = models.TransferStatus(status)
	t.ContactPhone = phone.String
	t.ContactFirstName = firstName.String
	t.ContactLastName = lastName.String
	t.Notes = notes.String

	if ownerId.Valid {
		t.Owner = &models.User{
			Id:         ownerId.Int64,
			TelegramId: ownerTelegramId.Int64,
			Username:   ownerUsername.String,
			FirstName:  ownerFirstName.String,
			LastName:   ownerLastName.String,
		}
	}

	return &t, nil
}

// CreateTransferRequest stores a new request in status "new"
func (s *Service) CreateTransferRequest(ctx context.Context, params store.CreateTransferParams) (*models.TransferRequest, error) {
	if !params.Country.Valid() {
		return nil, fmt.Errorf("unsupported country %q", params.Country)
	}

	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	zap.L().Info("Creating transfer request",
		zap.String("country", string(params.Country)),
		zap.Bool("has_owner", params.UserId != nil))

	result, err := s.db.ExecContext(ctx, queryInsertTransfer,
		nullInt64(params.UserId),
		string(params.Country),
		string(models.TransferStatusNew),
		nullString(params.ContactPhone),
		nullString(params.ContactFirstName),
		nullString(params.ContactLastName),
		createdAt.UTC(), createdAt.UTC())
	if err != nil {
		zap.L().Error("Failed to insert transfer request", zap.Error(err))
		return nil, fmt.Errorf("unable to insert transfer request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("unable to get transfer request id: %w", err)
	}

	return s.GetTransferRequest(ctx, id)
}

// AttachTransferContact stores the contact shared in the second conversation step
func (s *Service) AttachTransferContact(ctx context.Context, transferId int64, params store.AttachContactParams) (*models.TransferRequest, error) {
	updatedAt := params.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	result, err := s.db.ExecContext(ctx, queryAttachTransferContact,
		nullString(params.Phone),
		nullString(params.FirstName),
		nullString(params.LastName),
		updatedAt.UTC(),
		transferId)
	if err != nil {
		zap.L().Error("Failed to attach contact", zap.Int64("transfer_id", transferId), zap.Error(err))
		return nil, fmt.Errorf("unable to attach contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("transfer request %d: %w", transferId, store.ErrNotFound)
	}

	zap.L().Info("Contact attached to transfer request", zap.Int64("transfer_id", transferId))
	return s.GetTransferRequest(ctx, transferId)
}

func (s *Service) GetTransferRequest(ctx context.Context, transferId int64) (*models.TransferRequest, error) {
	t, err := scanTransfer(s.db.QueryRowContext(ctx, queryGetTransfer, transferId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transfer request %d: %w", transferId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query transfer request: %w", err)
	}
	return t, nil
}

func (s *Service) GetLatestTransferRequest(ctx context.Context) (*models.TransferRequest, error) {
	t, err := scanTransfer(s.db.QueryRowContext(ctx, queryGetLatestTransfer))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("latest transfer request: %w", store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query latest transfer request: %w", err)
	}
	return t, nil
}

// UpdateTransferStatus is an operator action; nothing in the request flow calls it
func (s *Service) UpdateTransferStatus(ctx context.Context, transferId int64, status models.TransferStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%q: %w", status, store.ErrInvalidStatus)
	}

	result, err := s.db.ExecContext(ctx, queryUpdateTransferStatus, string(status), s.now(), transferId)
	if err != nil {
		return fmt.Errorf("unable to update transfer status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transfer request %d: %w", transferId, store.ErrNotFound)
	}

	zap.L().Info("Transfer status updated", zap.Int64("transfer_id", transferId), zap.String("status", string(status)))
	return nil
}
