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

import "time"

// OrderRecord is the wire form of an exchange order. Decimals are fixed-precision strings.
type OrderRecord struct {
	Id               int64      `json:"id"`
	OrderType        OrderType  `json:"order_type"`
	OrderTypeDisplay string     `json:"order_type_display,omitempty"`
	Amount           string     `json:"amount"`
	ExchangeRate     string     `json:"exchange_rate"`
	AmountToReceive  string     `json:"amount_to_receive"`
	FullName         string     `json:"full_name"`
	WalletAddress    string     `json:"wallet_address"`
	Status           string     `json:"status"`
	StatusDisplay    string     `json:"status_display,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// TransferRecord is the wire form of a transfer request
type TransferRecord struct {
	Id               int64     `json:"id"`
	Country          Country   `json:"country"`
	ContactPhone     string    `json:"contact_phone"`
	ContactFirstName string    `json:"contact_first_name"`
	ContactLastName  string    `json:"contact_last_name"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// RateRecord is the wire form of an active exchange rate
type RateRecord struct {
	CurrencyFrom string `json:"currency_from"`
	CurrencyTo   string `json:"currency_to"`
	Rate         string `json:"rate"`
}

// NewOrderRecord converts an order for API output
func NewOrderRecord(o ExchangeOrder, withDisplay bool) OrderRecord {
	rec := OrderRecord{
		Id:              o.Id,
		OrderType:       o.OrderType,
		Amount:          o.Amount.StringFixed(AmountPlaces),
		ExchangeRate:    o.ExchangeRate.StringFixed(RatePlaces),
		AmountToReceive: o.AmountToReceive.StringFixed(AmountPlaces),
		FullName:        o.FullName,
		WalletAddress:   o.WalletAddress,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
	if withDisplay {
		rec.OrderTypeDisplay = o.OrderType.Label()
		rec.StatusDisplay = o.Status.Label()
		updatedAt := o.UpdatedAt
		rec.UpdatedAt = &updatedAt
	}
	return rec
}

// NewTransferRecord converts a transfer request for API output
func NewTransferRecord(t TransferRequest) TransferRecord {
	return TransferRecord{
		Id:               t.Id,
		Country:          t.Country,
		ContactPhone:     t.ContactPhone,
		ContactFirstName: t.ContactFirstName,
		ContactLastName:  t.ContactLastName,
		Status:           string(t.Status),
		CreatedAt:        t.CreatedAt,
	}
}

// NewRateRecord converts an exchange rate for API output
func NewRateRecord(r ExchangeRate) RateRecord {
	return RateRecord{
		CurrencyFrom: r.CurrencyFrom,
		CurrencyTo:   r.CurrencyTo,
		Rate:         r.Rate.StringFixed(RatePlaces),
	}
}
