// internal/app/notifier.go
package app

import (
	"context"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// TelegramNotifier delivers status messages to a single chat.
// Each Notify makes at most one send attempt; failed messages are dropped.
type TelegramNotifier struct {
	client  domainTelegram.Client
	chatID  int64
	limiter *rate.Limiter
	logger  logrus.FieldLogger
}

func NewTelegramNotifier(
	client domainTelegram.Client,
	chatID int64,
	limiter *rate.Limiter, // nil disables pacing
	logger logrus.FieldLogger,
) *TelegramNotifier {
	return &TelegramNotifier{
		client:  client,
		chatID:  chatID,
		limiter: limiter,
		logger:  logger.WithField("component", "notifier"),
	}
}

// Notify sends message and returns a *homework.DeliveryError on failure.
func (n *TelegramNotifier) Notify(ctx context.Context, message string) error {
	log := n.logger.WithField("chat_id", n.chatID)

	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			log.WithError(err).Error("Notification not sent: rate limiter wait aborted")
			return &homework.DeliveryError{Err: err}
		}
	}

	log.Debug("Sending notification")
	err := n.client.SendMessage(n.chatID, message, &telebot.SendOptions{DisableWebPagePreview: true})
	if err != nil {
		log.WithError(err).Error("Bot failed to send notification")
		return &homework.DeliveryError{Err: err}
	}
	log.WithField("text", message).Info("Bot sent notification")
	return nil
}
