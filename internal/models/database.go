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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a customer known through the chat bot
type User struct {
	Id         int64     `db:"id"`
	TelegramId int64     `db:"telegram_id"`
	Username   string    `db:"username"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// MessageTemplate holds the operator-managed text for one message type
type MessageTemplate struct {
	Id          int64       `db:"id"`
	MessageType MessageType `db:"message_type"`
	Text        string      `db:"text"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

// ExchangeRate is a directed currency pair quote
type ExchangeRate struct {
	Id           int64           `db:"id"`
	CurrencyFrom string          `db:"currency_from"`
	CurrencyTo   string          `db:"currency_to"`
	Rate         decimal.Decimal `db:"rate"`
	IsActive     bool            `db:"is_active"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// TransferRequest is a customer's request to send money to a supported country.
// UserId is nil for web submissions without a chat identity.
type TransferRequest struct {
	Id               int64          `db:"id"`
	UserId           *int64         `db:"user_id"`
	Country          Country        `db:"country"`
	Status           TransferStatus `db:"status"`
	ContactPhone     string         `db:"contact_phone"`
	ContactFirstName string         `db:"contact_first_name"`
	ContactLastName  string         `db:"contact_last_name"`
	Notes            string         `db:"notes"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`

	// Owner is populated by reads that join the users table
	Owner *User `db:"-"`
}

// ExchangeOrder is a request to buy or sell currency at a quoted rate.
// ExchangeRate and AmountToReceive are fixed at creation.
type ExchangeOrder struct {
	Id              int64           `db:"id"`
	TelegramUserId  *int64          `db:"telegram_user_id"`
	OrderType       OrderType       `db:"order_type"`
	Amount          decimal.Decimal `db:"amount"`
	ExchangeRate    decimal.Decimal `db:"exchange_rate"`
	AmountToReceive decimal.Decimal `db:"amount_to_receive"`
	FullName        string          `db:"full_name"`
	WalletAddress   string          `db:"wallet_address"`
	Status          OrderStatus     `db:"status"`
	Notes           string          `db:"notes"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// AdminDestination is a chat that receives new-request notifications
type AdminDestination struct {
	Id        int64     `db:"id"`
	ChatId    int64     `db:"chat_id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Session is the per-user conversation scratch value
type Session struct {
	TelegramId        int64     `db:"telegram_id" json:"telegram_id"`
	PendingTransferId int64     `db:"pending_transfer_id" json:"pending_transfer_id,omitempty"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// HasPendingTransfer reports whether the user is expected to share a contact next
func (s Session) HasPendingTransfer() bool {
	return s.PendingTransferId > 0
}
