package notification

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"oselya/models"
	"oselya/services/schedule"
)

// OwnerBookingText builds the new-booking message sent to the business
// owner's chat.
func OwnerBookingText(res models.Reservation) string {
	var b strings.Builder
	b.WriteString("🔔 НОВЕ БРОНЮВАННЯ\n")

	fmt.Fprintf(&b, "\n👤 Клієнт: %d", res.ChatID)
	if res.Username != "" {
		fmt.Fprintf(&b, " (@%s)", res.Username)
	}
	if n, ok := models.ServiceTypeNames[res.ServiceType]; ok {
		fmt.Fprintf(&b, "\n🧹 Тип прибирання: %s", n)
	}
	if n, ok := models.PropertyTypeNames[res.PropertyType]; ok {
		fmt.Fprintf(&b, "\n🏠 Тип житла: %s", n)
	}
	if res.AreaM2 > 0 {
		fmt.Fprintf(&b, "\n📏 Площа: %s м²", strconv.FormatFloat(res.AreaM2, 'f', -1, 64))
	}
	if res.FinalPrice > 0 {
		fmt.Fprintf(&b, "\n💰 Вартість: %s грн", strconv.FormatFloat(res.FinalPrice, 'f', -1, 64))
	}
	if res.Date != "" {
		fmt.Fprintf(&b, "\n📅 Дата: %s", formatDate(res.Date))
	}
	if res.Time != "" {
		fmt.Fprintf(&b, "\n🕐 Час: %s", res.Time)
	}
	fmt.Fprintf(&b, "\n📍 Адреса: %s", res.Address)

	return b.String()
}

// ReminderText builds the day-before reminder sent to the client.
func ReminderText(res models.Reservation) string {
	var b strings.Builder
	b.WriteString("🔔 Нагадування про прибирання!\n")
	fmt.Fprintf(&b, "\nЗавтра о %s до вас приїде наша команда.", res.Time)
	fmt.Fprintf(&b, "\n📍 Адреса: %s", res.Address)
	b.WriteString("\n\nЯкщо плани змінилися, будь ласка, повідомте нас заздалегідь.")
	return b.String()
}

func formatDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return schedule.FormatDateUA(d)
}
