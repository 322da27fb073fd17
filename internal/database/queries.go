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

const (
	// User queries
	queryUpsertUser = `
		INSERT INTO users (telegram_id, username, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(telegram_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			updated_at = excluded.updated_at`

	queryGetUserByTelegramId = `
		SELECT id, telegram_id, username, first_name, last_name, created_at, updated_at
		FROM users
		WHERE telegram_id = ?`

	queryListUsers = `
		SELECT id, telegram_id, username, first_name, last_name, created_at, updated_at
		FROM users
		ORDER BY created_at DESC, id DESC`

	// Template queries
	queryGetMessageTemplate = `
		SELECT id, message_type, text, updated_at
		FROM bot_messages
		WHERE message_type = ?`

	queryUpsertMessageTemplate = `
		INSERT INTO bot_messages (message_type, text, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(message_type) DO UPDATE SET
			text = excluded.text,
			updated_at = excluded.updated_at`

	queryListMessageTemplates = `
		SELECT id, message_type, text, updated_at
		FROM bot_messages
		ORDER BY message_type`

	// Exchange rate queries
	queryListActiveExchangeRates = `
		SELECT id, currency_from, currency_to, rate, is_active, created_at, updated_at
		FROM exchange_rates
		WHERE is_active = 1
		ORDER BY currency_from, currency_to`

	queryUpsertExchangeRate = `
		INSERT INTO exchange_rates (currency_from, currency_to, rate, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(currency_from, currency_to) DO UPDATE SET
			rate = excluded.rate,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`

	// Transfer request queries
	queryInsertTransfer = `
		INSERT INTO transfer_requests (
			user_id, country, status, contact_phone, contact_first_name, contact_last_name, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryAttachTransferContact = `
		UPDATE transfer_requests
		SET contact_phone = ?, contact_first_name = ?, contact_last_name = ?, updated_at = ?
		WHERE id = ?`

	querySelectTransfer = `
		SELECT t.id, t.user_id, t.country, t.status, t.contact_phone, t.contact_first_name,
		       t.contact_last_name, t.notes, t.created_at, t.updated_at,
		       u.id, u.telegram_id, u.username, u.first_name, u.last_name
		FROM transfer_requests t
		LEFT JOIN users u ON u.id = t.user_id`

	queryGetTransfer = querySelectTransfer + `
		WHERE t.id = ?`

	queryGetLatestTransfer = querySelectTransfer + `
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT 1`

	queryUpdateTransferStatus = `
		UPDATE transfer_requests SET status = ?, updated_at = ? WHERE id = ?`

	// Exchange order queries
	queryInsertOrder = `
		INSERT INTO exchange_orders (
			telegram_user_id, order_type, amount, exchange_rate, amount_to_receive,
			full_name, wallet_address, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	querySelectOrder = `
		SELECT id, telegram_user_id, order_type, amount, exchange_rate, amount_to_receive,
		       full_name, wallet_address, status, notes, created_at, updated_at
		FROM exchange_orders`

	queryGetOrder = querySelectOrder + `
		WHERE id = ?`

	queryListOrdersByTelegramUser = querySelectOrder + `
		WHERE telegram_user_id = ?
		ORDER BY created_at DESC, id DESC`

	queryUpdateOrderStatus = `
		UPDATE exchange_orders SET status = ?, updated_at = ? WHERE id = ?`

	// The status predicate is re-checked at write time so an order an operator
	// has just processed is never cancelled.
	queryCancelExpiredOrders = `
		UPDATE exchange_orders
		SET status = 'cancelled', updated_at = ?
		WHERE status = 'pending' AND created_at < ?`

	// Admin destination queries
	queryListActiveAdminDestinations = `
		SELECT id, chat_id, name, is_active, created_at, updated_at
		FROM admin_chats
		WHERE is_active = 1
		ORDER BY created_at DESC, id DESC`

	queryListAdminDestinations = `
		SELECT id, chat_id, name, is_active, created_at, updated_at
		FROM admin_chats
		ORDER BY created_at DESC, id DESC`

	queryUpsertAdminDestination = `
		INSERT INTO admin_chats (chat_id, name, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			name = excluded.name,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`

	// Session queries
	queryGetSession = `
		SELECT telegram_id, pending_transfer_id, updated_at
		FROM sessions
		WHERE telegram_id = ?`

	queryUpsertSession = `
		INSERT INTO sessions (telegram_id, pending_transfer_id, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(telegram_id) DO UPDATE SET
			pending_transfer_id = excluded.pending_transfer_id,
			updated_at = excluded.updated_at`

	queryDeleteSession = `
		DELETE FROM sessions WHERE telegram_id = ?`
)
