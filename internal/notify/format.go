package notify

import (
	"fmt"
	"strings"
	"time"

	"cityexchange-go/internal/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "02.01.2006 15:04"

// FormatTransfer renders the administrator summary of a transfer request.
// The request must be loaded with its owner.
func FormatTransfer(t *models.TransferRequest, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("🔔 Новая заявка Cityex24\n\n")
	fmt.Fprintf(&b, "👤 Пользователь: %s\n", transferUserLine(t))
	fmt.Fprintf(&b, "🌍 Страна: %s\n", t.Country.Label())
	if contact := transferContactLine(t); contact != "" {
		fmt.Fprintf(&b, "📞 Контакт: %s\n", contact)
	}
	fmt.Fprintf(&b, "📅 Дата: %s\n", formatDate(t.CreatedAt, loc))
	fmt.Fprintf(&b, "🆔 ID заявки: %d", t.Id)
	return b.String()
}

// FormatOrder renders the administrator summary of an exchange order
func FormatOrder(o *models.ExchangeOrder, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("🔔 Новая транзакция на обмен\n\n")
	fmt.Fprintf(&b, "🆔 Номер заявки: #%d\n", o.Id)
	fmt.Fprintf(&b, "📋 Тип: %s\n", o.OrderType.Label())
	fmt.Fprintf(&b, "💰 Сумма: %s %s\n", formatDecimal(o.Amount, models.AmountPlaces), o.OrderType.SourceCurrency())
	fmt.Fprintf(&b, "💱 Курс: %s\n", formatDecimal(o.ExchangeRate, models.RatePlaces))
	fmt.Fprintf(&b, "💵 К получению: %s %s\n", formatDecimal(o.AmountToReceive, models.AmountPlaces), o.OrderType.TargetCurrency())
	fmt.Fprintf(&b, "👤 Ф.И.О: %s\n", o.FullName)
	fmt.Fprintf(&b, "🔗 Адрес кошелька: %s\n", o.WalletAddress)
	if o.TelegramUserId != nil {
		fmt.Fprintf(&b, "👤 Telegram ID: %d\n", *o.TelegramUserId)
	}
	fmt.Fprintf(&b, "📅 Дата: %s\n", formatDate(o.CreatedAt, loc))
	fmt.Fprintf(&b, "📊 Статус: %s", o.Status.Label())
	return b.String()
}

func transferUserLine(t *models.TransferRequest) string {
	if t.Owner != nil {
		if name := joinName(t.Owner.FirstName, t.Owner.LastName); name != "" {
			return name
		}
		if t.Owner.Username != "" {
			return "@" + t.Owner.Username
		}
		return fmt.Sprintf("ID: %d", t.Owner.TelegramId)
	}

	if name := joinName(t.ContactFirstName, t.ContactLastName); name != "" {
		return name
	}
	return "Веб-заявка"
}

func transferContactLine(t *models.TransferRequest) string {
	if t.ContactPhone == "" {
		return ""
	}
	if name := joinName(t.ContactFirstName, t.ContactLastName); name != "" {
		return fmt.Sprintf("%s\n📱 %s", name, t.ContactPhone)
	}
	return "📱 " + t.ContactPhone
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// formatDecimal renders a fixed-precision value with a comma separator
func formatDecimal(d decimal.Decimal, places int32) string {
	return strings.Replace(d.StringFixed(places), ".", ",", 1)
}

func formatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}
