package store

import (
	"context"
	"errors"
	"time"

	"cityexchange-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRate   = errors.New("currency_from and currency_to must differ")
	ErrInvalidStatus = errors.New("invalid status")
)

// UpsertUserParams carries the identity observed on an inbound message.
type UpsertUserParams struct {
	TelegramId int64
	Username   string
	FirstName  string
	LastName   string
}

// CreateTransferParams contains the parameters for creating a transfer request.
// Contact fields are empty for chat-created requests until the contact step.
type CreateTransferParams struct {
	UserId           *int64
	Country          models.Country
	ContactPhone     string
	ContactFirstName string
	ContactLastName  string
	CreatedAt        time.Time
}

// AttachContactParams carries a shared contact for a pending transfer request.
type AttachContactParams struct {
	Phone     string
	FirstName string
	LastName  string
	UpdatedAt time.Time
}

// CreateOrderParams contains an already validated and computed exchange order.
type CreateOrderParams struct {
	TelegramUserId  *int64
	OrderType       models.OrderType
	Amount          decimal.Decimal
	ExchangeRate    decimal.Decimal
	AmountToReceive decimal.Decimal
	FullName        string
	WalletAddress   string
	CreatedAt       time.Time
}

// UpsertRateParams describes an operator change to an exchange rate.
type UpsertRateParams struct {
	CurrencyFrom string
	CurrencyTo   string
	Rate         decimal.Decimal
	IsActive     bool
}

// UpsertDestinationParams describes an operator change to a notification destination.
type UpsertDestinationParams struct {
	ChatId   int64
	Name     string
	IsActive bool
}

// RequestStore defines the contract every persistence backend must satisfy.
type RequestStore interface {
	// --- Users ---
	UpsertUser(ctx context.Context, params UpsertUserParams) (*models.User, error)
	GetUserByTelegramId(ctx context.Context, telegramId int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// --- Templates ---
	GetMessageTemplate(ctx context.Context, messageType models.MessageType) (*models.MessageTemplate, error)
	SetMessageTemplate(ctx context.Context, messageType models.MessageType, text string) error
	ListMessageTemplates(ctx context.Context) ([]models.MessageTemplate, error)

	// --- Exchange rates ---
	ListActiveExchangeRates(ctx context.Context) ([]models.ExchangeRate, error)
	UpsertExchangeRate(ctx context.Context, params UpsertRateParams) error

	// --- Transfer requests ---
	CreateTransferRequest(ctx context.Context, params CreateTransferParams) (*models.TransferRequest, error)
	AttachTransferContact(ctx context.Context, transferId int64, params AttachContactParams) (*models.TransferRequest, error)
	GetTransferRequest(ctx context.Context, transferId int64) (*models.TransferRequest, error)
	GetLatestTransferRequest(ctx context.Context) (*models.TransferRequest, error)
	UpdateTransferStatus(ctx context.Context, transferId int64, status models.TransferStatus) error

	// --- Exchange orders ---
	CreateExchangeOrder(ctx context.Context, params CreateOrderParams) (*models.ExchangeOrder, error)
	GetExchangeOrder(ctx context.Context, orderId int64) (*models.ExchangeOrder, error)
	ListOrdersByTelegramUser(ctx context.Context, telegramUserId int64) ([]models.ExchangeOrder, error)
	UpdateOrderStatus(ctx context.Context, orderId int64, status models.OrderStatus) error
	CancelExpiredOrders(ctx context.Context, cutoff, now time.Time) (int64, error)

	// --- Admin destinations ---
	ListActiveAdminDestinations(ctx context.Context) ([]models.AdminDestination, error)
	ListAdminDestinations(ctx context.Context) ([]models.AdminDestination, error)
	UpsertAdminDestination(ctx context.Context, params UpsertDestinationParams) error

	// --- Lifecycle ---
	Ping(ctx context.Context) error
	Close()
}

// SessionStore persists conversation scratch data between messages.
type SessionStore interface {
	// LoadSession returns an empty session when none is stored.
	LoadSession(ctx context.Context, telegramId int64) (models.Session, error)
	// SaveSession deletes the stored session when it carries no pending transfer.
	SaveSession(ctx context.Context, session models.Session) error
}
