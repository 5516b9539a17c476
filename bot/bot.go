// Package bot provides the Telegram operator channel: delivery alerts for
// the sync loop and a minimal command interface.
package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Palindrome-NT/attendance-logs-script/internal/obs"
)

var (
	bot          *tgbotapi.BotAPI
	targetChatID int64
)

// Init initializes the Telegram Bot
func Init(token string, authorizedChatIDStr string) error {
	var err error
	bot, err = tgbotapi.NewBotAPI(token)
	if err != nil {
		return err
	}

	bot.Debug = false
	obs.Logger().Info("telegram bot authorized", "account", bot.Self.UserName)

	if authorizedChatIDStr != "" {
		id, err := strconv.ParseInt(authorizedChatIDStr, 10, 64)
		if err == nil {
			targetChatID = id
		}
	}

	return nil
}

// StartPolling starts the update loop
func StartPolling() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
			msg.ParseMode = "Markdown"

			switch update.Message.Command() {
			case "start":
				msg.Text = "🕐 *Attendance sync worker*\n\n" +
					"*Commands:*\n" +
					"/getid - show this chat's id\n\n" +
					"Delivery alerts are sent to the authorized admin chat."

			case "getid":
				msg.Text = fmt.Sprintf("Chat ID: `%d`", update.Message.Chat.ID)

			default:
				msg.Text = "Unknown command, use /start"
			}

			if _, err := bot.Send(msg); err != nil {
				obs.Logger().Warn("bot send failed", "error", err)
			}
		}
	}()
}

// SendNotification sends message to the admin chat
func SendNotification(message string) {
	if bot == nil || targetChatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(targetChatID, message)
	msg.ParseMode = "Markdown"
	if _, err := bot.Send(msg); err != nil {
		obs.Logger().Warn("bot send failed", "chat_id", targetChatID, "error", err)
	}
}
