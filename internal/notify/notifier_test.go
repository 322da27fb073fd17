package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

var tashkent = time.FixedZone("UTC+5", 5*60*60)

type fakeStore struct {
	transfers    map[int64]*models.TransferRequest
	orders       map[int64]*models.ExchangeOrder
	destinations []models.AdminDestination
	users        []models.User
	destErr      error
}

func (f *fakeStore) GetTransferRequest(ctx context.Context, id int64) (*models.TransferRequest, error) {
	if t, ok := f.transfers[id]; ok {
		return t, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetExchangeOrder(ctx context.Context, id int64) (*models.ExchangeOrder, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListActiveAdminDestinations(ctx context.Context) ([]models.AdminDestination, error) {
	return f.destinations, f.destErr
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

type fakeSender struct {
	mu     sync.Mutex
	fail   map[int64]error
	sent   map[int64]string
	panics map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{fail: map[int64]error{}, sent: map[int64]string{}, panics: map[int64]bool{}}
}

func (f *fakeSender) SendMessage(ctx context.Context, chatId int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics[chatId] {
		panic("boom")
	}
	if err, ok := f.fail[chatId]; ok {
		return err
	}
	f.sent[chatId] = text
	return nil
}

func sampleTransfer() *models.TransferRequest {
	return &models.TransferRequest{
		Id:               12,
		Country:          models.CountryTurkey,
		Status:           models.TransferStatusNew,
		ContactPhone:     "+998901234567",
		ContactFirstName: "Ivan",
		CreatedAt:        time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Owner:            &models.User{TelegramId: 42, Username: "ivan"},
	}
}

func sampleOrder() *models.ExchangeOrder {
	userId := int64(42)
	return &models.ExchangeOrder{
		Id:              7,
		TelegramUserId:  &userId,
		OrderType:       models.OrderTypeBuy,
		Amount:          decimal.RequireFromString("1000"),
		ExchangeRate:    decimal.RequireFromString("95.5"),
		AmountToReceive: decimal.RequireFromString("10.47"),
		FullName:        "Ivan Petrov",
		WalletAddress:   "TXyz123",
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Date(2025, 3, 14, 20, 5, 0, 0, time.UTC),
	}
}

func TestNotifyTransfer_IsolatesFailures(t *testing.T) {
	fs := &fakeStore{
		transfers:    map[int64]*models.TransferRequest{12: sampleTransfer()},
		destinations: []models.AdminDestination{{ChatId: 1, IsActive: true}, {ChatId: 2, IsActive: true}},
	}
	sender := newFakeSender()
	sender.fail[1] = &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}

	n := NewNotifier(fs, sender, tashkent)
	result := n.NotifyTransfer(context.Background(), 12)

	if result.Attempted != 2 || result.Succeeded != 1 || result.Failed != 1 {
		t.Errorf("Expected 2 attempted / 1 ok / 1 failed, got %+v", result)
	}
	if _, ok := sender.sent[2]; !ok {
		t.Error("Expected chat 2 to receive the notification")
	}
	if result.DispatchId == "" {
		t.Error("Expected a dispatch id")
	}
}

func TestNotifyTransfer_FailureOrderDoesNotMatter(t *testing.T) {
	fs := &fakeStore{
		transfers:    map[int64]*models.TransferRequest{12: sampleTransfer()},
		destinations: []models.AdminDestination{{ChatId: 1}, {ChatId: 2}},
	}
	sender := newFakeSender()
	sender.fail[2] = errors.New("network down")

	result := NewNotifier(fs, sender, tashkent).NotifyTransfer(context.Background(), 12)
	if result.Succeeded != 1 || result.Failed != 1 {
		t.Errorf("Expected 1 ok / 1 failed, got %+v", result)
	}
	if _, ok := sender.sent[1]; !ok {
		t.Error("Expected chat 1 to receive the notification")
	}
}

func TestNotifyOrder_PanicIsContained(t *testing.T) {
	fs := &fakeStore{
		orders:       map[int64]*models.ExchangeOrder{7: sampleOrder()},
		destinations: []models.AdminDestination{{ChatId: 1}, {ChatId: 2}},
	}
	sender := newFakeSender()
	sender.panics[1] = true

	result := NewNotifier(fs, sender, tashkent).NotifyOrder(context.Background(), 7)
	if result.Succeeded != 1 || result.Failed != 1 {
		t.Errorf("Expected 1 ok / 1 failed, got %+v", result)
	}
}

func TestNotify_NoDestinations(t *testing.T) {
	fs := &fakeStore{orders: map[int64]*models.ExchangeOrder{7: sampleOrder()}}
	sender := newFakeSender()

	result := NewNotifier(fs, sender, tashkent).NotifyOrder(context.Background(), 7)
	if result.Attempted != 0 {
		t.Errorf("Expected zero attempts, got %d", result.Attempted)
	}
	if len(sender.sent) != 0 {
		t.Errorf("Expected no messages sent, got %d", len(sender.sent))
	}
}

func TestNotify_NoSenderConfigured(t *testing.T) {
	fs := &fakeStore{
		orders:       map[int64]*models.ExchangeOrder{7: sampleOrder()},
		destinations: []models.AdminDestination{{ChatId: 1}},
	}

	result := NewNotifier(fs, nil, tashkent).NotifyOrder(context.Background(), 7)
	if result.Attempted != 0 {
		t.Errorf("Expected zero attempts without a sender, got %d", result.Attempted)
	}
}

func TestNotify_MissingRecordOrStoreFailure(t *testing.T) {
	fs := &fakeStore{destErr: errors.New("disk I/O error"), transfers: map[int64]*models.TransferRequest{12: sampleTransfer()}}
	n := NewNotifier(fs, newFakeSender(), tashkent)

	if result := n.NotifyOrder(context.Background(), 999); result.Attempted != 0 {
		t.Errorf("Expected zero attempts for a missing order, got %d", result.Attempted)
	}
	if result := n.NotifyTransfer(context.Background(), 12); result.Attempted != 0 {
		t.Errorf("Expected zero attempts when destinations cannot be read, got %d", result.Attempted)
	}
}

func TestSendTest_DirectChat(t *testing.T) {
	fs := &fakeStore{destinations: []models.AdminDestination{{ChatId: 1}}}
	sender := newFakeSender()

	result := NewNotifier(fs, sender, tashkent).SendTest(context.Background(), 99, "ping")
	if result.Attempted != 1 || result.Succeeded != 1 {
		t.Errorf("Expected a single successful attempt, got %+v", result)
	}
	if sender.sent[99] != "ping" {
		t.Errorf("Expected chat 99 to receive 'ping', got %q", sender.sent[99])
	}
	if _, ok := sender.sent[1]; ok {
		t.Error("Expected active destinations to be skipped when a chat is given")
	}
}

func TestBroadcast(t *testing.T) {
	fs := &fakeStore{users: []models.User{{TelegramId: 10}, {TelegramId: 11}, {TelegramId: 12}}}
	sender := newFakeSender()
	sender.fail[11] = &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}

	b := NewBroadcaster(fs, sender)
	result := b.Broadcast(context.Background(), "Курсы обновлены")
	if result.Attempted != 3 || result.Succeeded != 2 || result.Failed != 1 {
		t.Errorf("Expected 3 attempted / 2 ok / 1 failed, got %+v", result)
	}

	if result := b.Broadcast(context.Background(), "   "); result.Attempted != 0 {
		t.Errorf("Expected empty broadcast to be refused, got %+v", result)
	}
}

func TestFormatTransfer(t *testing.T) {
	text := FormatTransfer(sampleTransfer(), tashkent)

	want := "🔔 Новая заявка Cityex24\n\n" +
		"👤 Пользователь: @ivan\n" +
		"🌍 Страна: 🇹🇷 Турция\n" +
		"📞 Контакт: Ivan\n📱 +998901234567\n" +
		"📅 Дата: 14.03.2025 14:30\n" +
		"🆔 ID заявки: 12"
	if text != want {
		t.Errorf("Unexpected transfer text:\n%s\nwant:\n%s", text, want)
	}
}

func TestFormatTransfer_UserLine(t *testing.T) {
	tests := []struct {
		name     string
		transfer models.TransferRequest
		want     string
	}{
		{"owner full name", models.TransferRequest{Owner: &models.User{FirstName: "Ivan", LastName: "Petrov", Username: "ivan"}}, "👤 Пользователь: Ivan Petrov\n"},
		{"owner id only", models.TransferRequest{Owner: &models.User{TelegramId: 42}}, "👤 Пользователь: ID: 42\n"},
		{"web with contact name", models.TransferRequest{ContactFirstName: "Anna", ContactPhone: "+1"}, "👤 Пользователь: Anna\n"},
		{"web anonymous", models.TransferRequest{ContactPhone: "+1"}, "👤 Пользователь: Веб-заявка\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.transfer.Country = models.CountryUae
			text := FormatTransfer(&tt.transfer, tashkent)
			if !strings.Contains(text, tt.want) {
				t.Errorf("Expected %q in:\n%s", tt.want, text)
			}
		})
	}

	noContact := FormatTransfer(&models.TransferRequest{Country: models.CountryUae}, tashkent)
	if strings.Contains(noContact, "📞") {
		t.Errorf("Expected no contact line, got:\n%s", noContact)
	}
	phoneOnly := FormatTransfer(&models.TransferRequest{Country: models.CountryUae, ContactPhone: "+1"}, tashkent)
	if !strings.Contains(phoneOnly, "📞 Контакт: 📱 +1\n") {
		t.Errorf("Expected phone-only contact line, got:\n%s", phoneOnly)
	}
}

func TestFormatOrder(t *testing.T) {
	text := FormatOrder(sampleOrder(), tashkent)

	want := "🔔 Новая транзакция на обмен\n\n" +
		"🆔 Номер заявки: #7\n" +
		"📋 Тип: Покупка\n" +
		"💰 Сумма: 1000,00 RUB\n" +
		"💱 Курс: 95,5000\n" +
		"💵 К получению: 10,47 USDT\n" +
		"👤 Ф.И.О: Ivan Petrov\n" +
		"🔗 Адрес кошелька: TXyz123\n" +
		"👤 Telegram ID: 42\n" +
		"📅 Дата: 15.03.2025 01:05\n" +
		"📊 Статус: Ожидание"
	if text != want {
		t.Errorf("Unexpected order text:\n%s\nwant:\n%s", text, want)
	}

	sell := sampleOrder()
	sell.OrderType = models.OrderTypeSell
	sell.TelegramUserId = nil
	text = FormatOrder(sell, tashkent)
	if !strings.Contains(text, "💰 Сумма: 1000,00 USDT") || !strings.Contains(text, "💵 К получению: 10,47 RUB") {
		t.Errorf("Expected sell currencies, got:\n%s", text)
	}
	if strings.Contains(text, "Telegram ID") {
		t.Errorf("Expected no Telegram ID line, got:\n%s", text)
	}
}
