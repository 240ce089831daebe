package notification_test

import (
	"testing"

	"oselya/models"
	"oselya/services/notification"

	"github.com/stretchr/testify/assert"
)

func TestOwnerBookingText(t *testing.T) {
	res := models.Reservation{
		ID:           "res-1",
		ChatID:       42,
		Username:     "olena",
		ServiceType:  models.ServiceDeep,
		PropertyType: models.PropertyApartment,
		AreaM2:       60,
		FinalPrice:   4560,
		Date:         "2026-03-05",
		Time:         "10:00",
		Address:      "вул. Шевченка 10, кв. 5",
	}

	text := notification.OwnerBookingText(res)
	assert.Contains(t, text, "НОВЕ БРОНЮВАННЯ")
	assert.Contains(t, text, "@olena")
	assert.Contains(t, text, "Генеральне")
	assert.Contains(t, text, "Квартира")
	assert.Contains(t, text, "60 м²")
	assert.Contains(t, text, "4560 грн")
	assert.Contains(t, text, "10:00")
	assert.Contains(t, text, "вул. Шевченка 10, кв. 5")
}

func TestOwnerBookingTextOmitsUnsetFields(t *testing.T) {
	// The direct booking path carries no quote.
	res := models.Reservation{
		ChatID:  42,
		Date:    "2026-03-05",
		Time:    "10:00",
		Address: "вул. Франка 3",
	}

	text := notification.OwnerBookingText(res)
	assert.NotContains(t, text, "Вартість")
	assert.NotContains(t, text, "Площа")
	assert.Contains(t, text, "вул. Франка 3")
}

func TestReminderText(t *testing.T) {
	res := models.Reservation{
		Time:    "10:00",
		Address: "вул. Франка 3",
	}

	text := notification.ReminderText(res)
	assert.Contains(t, text, "Нагадування")
	assert.Contains(t, text, "Завтра о 10:00")
	assert.Contains(t, text, "вул. Франка 3")
}

type recordingSender struct {
	chatIDs []int64
	texts   []string
}

func (s *recordingSender) SendMessage(chatID int64, text string) error {
	s.chatIDs = append(s.chatIDs, chatID)
	s.texts = append(s.texts, text)
	return nil
}

func TestNotifyOwnerUsesConfiguredChat(t *testing.T) {
	sender := &recordingSender{}
	svc := notification.NewNotificationService(sender, 777)

	assert.NoError(t, svc.NotifyOwner("hello"))
	assert.Equal(t, []int64{777}, sender.chatIDs)
}

func TestNotifyOwnerDropsWhenUnconfigured(t *testing.T) {
	sender := &recordingSender{}
	svc := notification.NewNotificationService(sender, 0)

	assert.NoError(t, svc.NotifyOwner("hello"))
	assert.Empty(t, sender.chatIDs)
}
