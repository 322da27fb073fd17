package bot

import (
	"context"

	"cityexchange-go/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ReplySender is the transport call the replier needs
type ReplySender interface {
	SendReply(ctx context.Context, chatId int64, text string, markup any) error
}

// Replier renders conversation replies as Telegram messages
type Replier struct {
	sender ReplySender
}

func NewReplier(sender ReplySender) *Replier {
	return &Replier{sender: sender}
}

func (r *Replier) Reply(ctx context.Context, reply conversation.Reply) error {
	return r.sender.SendReply(ctx, reply.ChatId, reply.Text, Markup(reply.Keyboard))
}

// Markup builds the reply keyboard for k. KeyboardNone yields nil so the
// client keeps whatever keyboard it shows.
func Markup(k conversation.Keyboard) any {
	switch k {
	case conversation.KeyboardMain:
		return textKeyboard(conversation.MainMenuRows)
	case conversation.KeyboardCountries:
		return textKeyboard(conversation.CountryRows())
	case conversation.KeyboardShareContact:
		markup := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(conversation.LabelShareContact)),
		)
		markup.ResizeKeyboard = true
		markup.OneTimeKeyboard = true
		return markup
	}
	return nil
}

func textKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			line = append(line, tgbotapi.NewKeyboardButton(label))
		}
		buttons = append(buttons, tgbotapi.NewKeyboardButtonRow(line...))
	}

	markup := tgbotapi.NewReplyKeyboard(buttons...)
	markup.ResizeKeyboard = true
	return markup
}
