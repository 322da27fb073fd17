package notify

import (
	"context"
	"strings"

	"cityexchange-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// broadcastConcurrency keeps broadcasts under the Bot API send rate
const broadcastConcurrency = 8

// UserLister is the part of the request store the broadcaster reads
type UserLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Broadcaster sends one operator message to every known customer through
// the customer-facing bot.
type Broadcaster struct {
	users  UserLister
	sender Sender
}

func NewBroadcaster(users UserLister, sender Sender) *Broadcaster {
	return &Broadcaster{users: users, sender: sender}
}

func (b *Broadcaster) Broadcast(ctx context.Context, text string) Result {
	result := Result{DispatchId: uuid.New().String()}
	logger := zap.L().With(zap.String("dispatch_id", result.DispatchId), zap.String("kind", kindBroadcast))

	if strings.TrimSpace(text) == "" {
		logger.Warn("Refusing to broadcast an empty message")
		return result
	}
	if b.sender == nil {
		logger.Error("Customer bot is not configured; skipping broadcast")
		return result
	}

	users, err := b.users.ListUsers(ctx)
	if err != nil {
		logger.Error("Unable to load users for broadcast", zap.Error(err))
		return result
	}
	if len(users) == 0 {
		logger.Warn("No users to broadcast to")
		return result
	}

	chatIds := make([]int64, len(users))
	for i, u := range users {
		chatIds[i] = u.TelegramId
	}

	logger.Info("Broadcasting message", zap.Int("recipients", len(chatIds)))
	return deliver(ctx, logger, b.sender, kindBroadcast, result, chatIds, text, broadcastConcurrency)
}
