package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotGateway sends messages through the Bot API. HTML parse mode
// matches the link markup the formatter emits.
type BotGateway struct {
	bot *tgbotapi.BotAPI
}

// NewBotGateway wraps an authorized Bot API client.
func NewBotGateway(bot *tgbotapi.BotAPI) *BotGateway {
	return &BotGateway{bot: bot}
}

// SendMessage delivers one text message to one chat. Satisfies
// broadcast.Gateway and the router's Sender.
func (g *BotGateway) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := g.bot.Send(msg)
	return err
}
