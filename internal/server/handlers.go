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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cityexchange-go/internal/api"
	"cityexchange-go/internal/models"

	"go.uber.org/zap"
)

const (
	errBadJson  = "Неверный формат JSON"
	errInternal = "Внутренняя ошибка сервера"
)

// ExchangeService is the intake surface the handlers expose
type ExchangeService interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*models.ExchangeOrder, error)
	CreateTransfer(ctx context.Context, req api.CreateTransferRequest) (*models.TransferRequest, error)
	ListActiveRates(ctx context.Context) ([]models.ExchangeRate, error)
	ListUserOrders(ctx context.Context, telegramUserId int64) ([]models.ExchangeOrder, error)
	GetBotMessage(ctx context.Context, messageType string) (string, error)
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	svc ExchangeService
}

func NewHandler(svc ExchangeService) *Handler {
	return &Handler{svc: svc}
}

type createOrderBody struct {
	TelegramUserId *flexId     `json:"telegram_user_id"`
	OrderType      *flexString `json:"order_type"`
	Amount         *flexString `json:"amount"`
	ExchangeRate   *flexString `json:"exchange_rate"`
	FullName       *flexString `json:"full_name"`
	WalletAddress  *flexString `json:"wallet_address"`
}

type createOrderResponse struct {
	Success bool               `json:"success"`
	OrderId int64              `json:"order_id"`
	Order   models.OrderRecord `json:"order"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body createOrderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errBadJson)
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), api.CreateOrderRequest{
		TelegramUserId: body.TelegramUserId.ptr(),
		OrderType:      body.OrderType.ptr(),
		Amount:         body.Amount.ptr(),
		ExchangeRate:   body.ExchangeRate.ptr(),
		FullName:       body.FullName.ptr(),
		WalletAddress:  body.WalletAddress.ptr(),
	})
	if err != nil {
		h.failure(w, r, "Unable to create exchange order", err)
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		Success: true,
		OrderId: order.Id,
		Order:   models.NewOrderRecord(*order, false),
	})
}

type createTransferBody struct {
	TelegramUserId   *flexId     `json:"telegram_user_id"`
	Country          *flexString `json:"country"`
	ContactPhone     *flexString `json:"contact_phone"`
	ContactFirstName *flexString `json:"contact_first_name"`
	ContactLastName  *flexString `json:"contact_last_name"`
}

type createTransferResponse struct {
	Success    bool                  `json:"success"`
	TransferId int64                 `json:"transfer_id"`
	Transfer   models.TransferRecord `json:"transfer"`
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var body createTransferBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errBadJson)
		return
	}

	transfer, err := h.svc.CreateTransfer(r.Context(), api.CreateTransferRequest{
		TelegramUserId:   body.TelegramUserId.ptr(),
		Country:          body.Country.ptr(),
		ContactPhone:     body.ContactPhone.ptr(),
		ContactFirstName: body.ContactFirstName.value(),
		ContactLastName:  body.ContactLastName.value(),
	})
	if err != nil {
		h.failure(w, r, "Unable to create transfer request", err)
		return
	}

	writeJSON(w, http.StatusCreated, createTransferResponse{
		Success:    true,
		TransferId: transfer.Id,
		Transfer:   models.NewTransferRecord(*transfer),
	})
}

type ratesResponse struct {
	Success bool                `json:"success"`
	Rates   []models.RateRecord `json:"rates"`
}

func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.ListActiveRates(r.Context())
	if err != nil {
		h.failure(w, r, "Unable to list exchange rates", err)
		return
	}

	records := make([]models.RateRecord, 0, len(rates))
	for _, rate := range rates {
		records = append(records, models.NewRateRecord(rate))
	}
	writeJSON(w, http.StatusOK, ratesResponse{Success: true, Rates: records})
}

type ordersResponse struct {
	Success bool                 `json:"success"`
	Orders  []models.OrderRecord `json:"orders"`
}

func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	telegramUserId, err := api.ParseTelegramUserId(r.URL.Query().Get("telegram_user_id"))
	if err != nil {
		h.failure(w, r, "Invalid orders query", err)
		return
	}

	orders, err := h.svc.ListUserOrders(r.Context(), telegramUserId)
	if err != nil {
		h.failure(w, r, "Unable to list user orders", err)
		return
	}

	records := make([]models.OrderRecord, 0, len(orders))
	for _, order := range orders {
		records = append(records, models.NewOrderRecord(order, true))
	}
	writeJSON(w, http.StatusOK, ordersResponse{Success: true, Orders: records})
}

type botMessageResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

func (h *Handler) GetBotMessage(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.GetBotMessage(r.Context(), r.URL.Query().Get("message_type"))
	if err != nil {
		h.failure(w, r, "Unable to load bot message", err)
		return
	}
	writeJSON(w, http.StatusOK, botMessageResponse{Success: true, Text: text})
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.HealthCheck(r.Context()); err != nil {
		zap.L().Error("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// failure maps validation errors to 400 and everything else to a generic 500
func (h *Handler) failure(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}

	zap.L().Error(msg, zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, errInternal)
}
