package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"oselya/models"
	"oselya/services/calendar"
	"oselya/services/notification"
	"oselya/services/schedule"
	"oselya/utils"

	"go.uber.org/zap"
)

// finalize turns a completed draft into a persisted reservation. The user
// confirmation is unconditional once the draft is persisted: calendar
// submission and owner notification are best-effort side effects and their
// failures are logged, never surfaced to the client.
func (f *DefaultBookingFlow) finalize(ctx context.Context, client models.ClientInfo, draft *models.BookingDraft) (models.Reply, error) {
	logger := utils.GetLogger()

	if draft.Address == "" {
		return f.stateLost(ctx, draft.ChatID, "address missing at finalization")
	}

	start, err := f.startTime(draft)
	if err != nil {
		return f.stateLost(ctx, draft.ChatID, "stored date/time unparseable")
	}

	res := models.Reservation{
		ChatID:          draft.ChatID,
		Username:        client.Username,
		ServiceType:     draft.ServiceType,
		PropertyType:    draft.PropertyType,
		AreaM2:          draft.AreaM2,
		Date:            draft.SelectedDate,
		Time:            draft.SelectedTime,
		Address:         draft.Address,
		CalendarAddress: draft.AddressForCalendar,
		StartsAt:        start,
	}
	if draft.Quote != nil {
		res.FinalPrice = draft.Quote.FinalPrice
	}

	if !start.IsZero() {
		end := start.Add(time.Duration(f.Config.CleaningDurationHours) * time.Hour)
		eventID, insertErr := f.Calendar.InsertEvent(ctx, calendar.EventInput{
			Title:       fmt.Sprintf("Прибирання: %s", ServiceTypeName(draft.ServiceType)),
			Description: calendarDescription(client, draft),
			Location:    draft.AddressForCalendar,
			Start:       start,
			End:         end,
		})
		if insertErr != nil {
			logger.Error("calendar event submission failed",
				zap.Int64("chatId", draft.ChatID),
				zap.String("date", draft.SelectedDate),
				zap.Error(insertErr))
		} else {
			res.CalendarEventID = eventID
		}
	}

	id, err := f.Reservations.Create(ctx, res)
	if err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}
	res.ID = id

	logger.Info("reservation finalized",
		zap.Int64("chatId", draft.ChatID),
		zap.String("reservationId", id),
		zap.String("date", res.Date),
		zap.String("time", res.Time),
		zap.Bool("calendarWritten", res.CalendarEventID != ""))

	f.dispatchNotifications(ctx, res, start)

	if err := f.Store.Clear(ctx, draft.ChatID); err != nil {
		logger.Error("failed to clear draft after finalization",
			zap.Int64("chatId", draft.ChatID), zap.Error(err))
	}

	return models.Reply{Text: confirmationMessage(draft), RemoveKeyboard: true}, nil
}

// dispatchNotifications queues the owner notification and, when the
// appointment is far enough out, the day-before reminder.
func (f *DefaultBookingFlow) dispatchNotifications(ctx context.Context, res models.Reservation, start time.Time) {
	logger := utils.GetLogger()

	if f.Dispatcher == nil {
		return
	}

	ownerPayload := models.OwnerNotifyPayload{
		ReservationID: res.ID,
		Text:          notification.OwnerBookingText(res),
	}
	if err := f.Dispatcher.DispatchOwnerNotification(ctx, ownerPayload); err != nil {
		logger.Error("owner notification dispatch failed",
			zap.String("reservationId", res.ID), zap.Error(err))
	}

	if start.IsZero() || f.Config.ReminderLead <= 0 {
		return
	}
	fireAt := start.Add(-f.Config.ReminderLead)
	if !fireAt.After(f.Now()) {
		return
	}
	reminderPayload := models.ReminderPayload{
		ReservationID: res.ID,
		Text:          notification.ReminderText(res),
		FireDate:      fireAt.Format(time.RFC3339),
	}
	if err := f.Dispatcher.ScheduleReminder(ctx, reminderPayload, fireAt); err != nil {
		logger.Error("reminder scheduling failed",
			zap.String("reservationId", res.ID), zap.Error(err))
	}
}

// startTime combines the stored date and time strings into an instant in
// the configured timezone. Bookings without a scheduled slot yield the
// zero time.
func (f *DefaultBookingFlow) startTime(draft *models.BookingDraft) (time.Time, error) {
	if draft.SelectedDate == "" || draft.SelectedTime == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02 15:04",
		draft.SelectedDate+" "+draft.SelectedTime, f.Config.Location)
}

// confirmationMessage builds the client-facing booking summary. Only the
// fields the conversation actually collected appear.
func confirmationMessage(draft *models.BookingDraft) string {
	var b strings.Builder
	b.WriteString("✅ Бронювання підтверджено!\n")

	if draft.ServiceType.Valid() {
		fmt.Fprintf(&b, "\n🧹 Тип прибирання: %s", ServiceTypeName(draft.ServiceType))
	}
	if draft.PropertyType.Valid() {
		fmt.Fprintf(&b, "\n🏠 Тип житла: %s", PropertyTypeName(draft.PropertyType))
	}
	if draft.AreaM2 > 0 {
		fmt.Fprintf(&b, "\n📏 Площа: %s м²", fmtNumber(draft.AreaM2))
	}
	if draft.Quote != nil {
		fmt.Fprintf(&b, "\n💰 Вартість: %s грн", fmtNumber(draft.Quote.FinalPrice))
	}
	if draft.SelectedDate != "" {
		if d, err := time.Parse("2006-01-02", draft.SelectedDate); err == nil {
			fmt.Fprintf(&b, "\n📅 Дата: %s", schedule.FormatDateUA(d))
		} else {
			fmt.Fprintf(&b, "\n📅 Дата: %s", draft.SelectedDate)
		}
	}
	if draft.SelectedTime != "" {
		fmt.Fprintf(&b, "\n🕐 Час: %s", draft.SelectedTime)
	}
	fmt.Fprintf(&b, "\n📍 Адреса: %s", draft.Address)

	b.WriteString("\n\nМи зв'яжемося з вами найближчим часом!")
	return b.String()
}

// priceMessage builds the quote summary shown after area input.
func priceMessage(draft *models.BookingDraft, quote models.PriceQuote) string {
	var b strings.Builder
	b.WriteString("✅ Розрахунок завершено!\n")
	fmt.Fprintf(&b, "\n🧹 Тип прибирання: %s", ServiceTypeName(draft.ServiceType))
	fmt.Fprintf(&b, "\n🏠 Тип житла: %s", PropertyTypeName(draft.PropertyType))
	fmt.Fprintf(&b, "\n📏 Площа: %s м²", fmtNumber(quote.AreaM2))

	if quote.DiscountPercent > 0 {
		fmt.Fprintf(&b, "\n\n💵 Вартість без знижки: %s грн", fmtNumber(quote.PriceBeforeDiscount))
		fmt.Fprintf(&b, "\n🎁 Знижка %d%%: -%s грн", quote.DiscountPercent, fmtNumber(quote.DiscountAmount))
		fmt.Fprintf(&b, "\n💰 Вартість зі знижкою: %s грн", fmtNumber(quote.FinalPrice))
	} else {
		fmt.Fprintf(&b, "\n\n💰 Вартість: %s грн", fmtNumber(quote.FinalPrice))
	}

	b.WriteString("\n\nБажаєте забронювати прибирання?")
	return b.String()
}

func calendarDescription(client models.ClientInfo, draft *models.BookingDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Клієнт: %d", draft.ChatID)
	if client.Username != "" {
		fmt.Fprintf(&b, " (@%s)", client.Username)
	}
	if draft.ServiceType.Valid() {
		fmt.Fprintf(&b, "\nТип: %s", ServiceTypeName(draft.ServiceType))
	}
	if draft.PropertyType.Valid() {
		fmt.Fprintf(&b, "\nЖитло: %s", PropertyTypeName(draft.PropertyType))
	}
	if draft.AreaM2 > 0 {
		fmt.Fprintf(&b, "\nПлоща: %s м²", fmtNumber(draft.AreaM2))
	}
	if draft.Quote != nil {
		fmt.Fprintf(&b, "\nВартість: %s грн", fmtNumber(draft.Quote.FinalPrice))
	}
	fmt.Fprintf(&b, "\nАдреса: %s", draft.Address)
	return b.String()
}

// fmtNumber renders a float without trailing zeros, so 4560 prints as
// "4560" and 75.5 as "75.5".
func fmtNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
