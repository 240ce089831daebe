package notification

import (
	"oselya/utils"

	"go.uber.org/zap"
)

// Sender pushes a plain-text message to one chat. Satisfied by the
// Telegram transport; tests supply a recording fake.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// NotificationService delivers booking-related messages outside the
// request/response cycle of the dialogue itself.
type NotificationService interface {
	NotifyOwner(text string) error
	NotifyClient(chatID int64, text string) error
}

// DefaultNotificationService implements NotificationService over a Sender.
type DefaultNotificationService struct {
	Sender      Sender
	OwnerChatID int64
}

// NewNotificationService returns a ready NotificationService.
func NewNotificationService(sender Sender, ownerChatID int64) *DefaultNotificationService {
	return &DefaultNotificationService{Sender: sender, OwnerChatID: ownerChatID}
}

// NotifyOwner sends a message to the configured owner chat. With no owner
// chat configured the message is logged and dropped.
func (s *DefaultNotificationService) NotifyOwner(text string) error {
	if s.OwnerChatID == 0 {
		utils.GetLogger().Warn("owner chat not configured, dropping notification")
		return nil
	}
	return s.Sender.SendMessage(s.OwnerChatID, text)
}

// NotifyClient sends a message to a client chat.
func (s *DefaultNotificationService) NotifyClient(chatID int64, text string) error {
	return s.Sender.SendMessage(chatID, text)
}

var _ NotificationService = (*DefaultNotificationService)(nil)

// LogDelivery records the outcome of a best-effort delivery attempt.
func LogDelivery(kind string, chatID int64, err error) {
	logger := utils.GetLogger()
	if err != nil {
		logger.Error("notification delivery failed",
			zap.String("kind", kind), zap.Int64("chatId", chatID), zap.Error(err))
		return
	}
	logger.Info("notification delivered",
		zap.String("kind", kind), zap.Int64("chatId", chatID))
}
