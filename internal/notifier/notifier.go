// Package notifier pushes operational events (signups, reply failures) to a
// Telegram chat. Disabled deployments get a nil notifier; every method is
// nil-safe.
package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"neuraslide/internal/config"
)

type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// New creates the Telegram notifier, or nil when disabled.
func New(cfg *config.Config, logger *zap.Logger) (*Notifier, error) {
	if !cfg.Notifier.Enabled || cfg.Notifier.TelegramBotToken == "" {
		logger.Info("Telegram notifier is disabled")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifier.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &Notifier{
		api:    botAPI,
		chatID: cfg.Notifier.ChatID,
		logger: logger,
	}, nil
}

func (n *Notifier) NotifySignup(email string) {
	n.send(fmt.Sprintf("🆕 New signup: %s", email))
}

func (n *Notifier) NotifyReplyFailure(automationName string, conversationID int64, cause error) {
	n.send(fmt.Sprintf("⚠️ Automated reply failed\nAutomation: %s\nConversation: %d\nError: %v",
		automationName, conversationID, cause))
}

func (n *Notifier) send(text string) {
	if n == nil {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send Telegram notification", zap.Error(err))
	}
}
