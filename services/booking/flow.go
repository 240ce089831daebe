package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"oselya/models"
	"oselya/services/pricing"
	"oselya/services/schedule"
	"oselya/utils"

	"go.uber.org/zap"
)

// StartConversation handles the /start command: any in-flight draft is
// discarded and the entry menu is shown.
func (f *DefaultBookingFlow) StartConversation(ctx context.Context, client models.ClientInfo) (models.Reply, error) {
	if err := f.Store.Clear(ctx, client.ChatID); err != nil {
		return f.failSafeReset(ctx, client.ChatID, err)
	}
	return models.Reply{Text: textWelcome, Buttons: startKeyboard()}, nil
}

// HandleAction routes a button press into the state machine. Action
// payloads are split on the first ":" only, since select_time payloads
// contain one themselves.
func (f *DefaultBookingFlow) HandleAction(ctx context.Context, client models.ClientInfo, action string) (models.Reply, error) {
	logger := utils.GetLogger()

	draft, err := f.Store.Get(ctx, client.ChatID)
	if err != nil {
		return f.failSafeReset(ctx, client.ChatID, err)
	}

	name, arg := action, ""
	if i := strings.Index(action, ":"); i >= 0 {
		name, arg = action[:i], action[i+1:]
	}

	switch name {
	case ActionCalculatePrice:
		return f.handleCalculatePrice(ctx, draft)
	case ActionServiceType:
		return f.handleServiceType(ctx, draft, arg)
	case ActionPropertyType:
		return f.handlePropertyType(ctx, draft, arg)
	case ActionBookCleaning:
		return f.handleBookCleaning(ctx, draft)
	case ActionSelectDate:
		return f.handleSelectDate(ctx, draft, arg)
	case ActionSelectTime:
		return f.handleSelectTime(ctx, draft, arg)
	case ActionNoSlotsAvail:
		return f.handleNoSlots(ctx, draft)
	case ActionNoAvailableDays:
		return f.handleNoDays(ctx, draft)
	default:
		logger.Warn("unknown action ignored",
			zap.Int64("chatId", client.ChatID), zap.String("action", action))
		return models.Reply{}, nil
	}
}

// HandleText routes a free-form message by the current state: area input,
// address input, or the entry menu when no flow is active.
func (f *DefaultBookingFlow) HandleText(ctx context.Context, client models.ClientInfo, text string) (models.Reply, error) {
	draft, err := f.Store.Get(ctx, client.ChatID)
	if err != nil {
		return f.failSafeReset(ctx, client.ChatID, err)
	}

	switch draft.State {
	case models.StateEnteringArea:
		return f.handleAreaInput(ctx, client, draft, text)
	case models.StateEnteringAddress:
		return f.handleAddressInput(ctx, client, draft, text)
	default:
		return models.Reply{Text: textWelcome, Buttons: startKeyboard()}, nil
	}
}

// HandleLocation treats a shared location as address input when the flow
// is at the address step; elsewhere it just nudges the user.
func (f *DefaultBookingFlow) HandleLocation(ctx context.Context, client models.ClientInfo, lat, lon float64) (models.Reply, error) {
	draft, err := f.Store.Get(ctx, client.ChatID)
	if err != nil {
		return f.failSafeReset(ctx, client.ChatID, err)
	}

	if draft.State != models.StateEnteringAddress {
		return models.Reply{Text: "📍 Будь ласка, поділіться локацією після вибору часу бронювання."}, nil
	}

	display := fmt.Sprintf("📍 Координати: %.6f, %.6f", lat, lon)
	draft.Address = display
	draft.AddressForCalendar = fmt.Sprintf("%.6f, %.6f", lat, lon)

	reply, err := f.finalize(ctx, client, draft)
	if err != nil {
		return reply, err
	}
	reply.Text = textLocationSaved + "\n\n" + display + "\n\n" + reply.Text
	reply.RemoveKeyboard = true
	return reply, nil
}

// ListBookings handles the /bookings command: the chat's upcoming
// reservations, newest last. Lookup failures do not touch an in-flight
// draft, the user just gets the generic apology.
func (f *DefaultBookingFlow) ListBookings(ctx context.Context, client models.ClientInfo) (models.Reply, error) {
	all, err := f.Reservations.GetByChatID(ctx, client.ChatID)
	if err != nil {
		utils.GetLogger().Error("failed to list reservations",
			zap.Int64("chatId", client.ChatID), zap.Error(err))
		return models.Reply{Text: textGenericError}, nil
	}

	now := f.Now().In(f.Config.Location)
	var upcoming []models.Reservation
	for _, res := range all {
		if res.StartsAt.IsZero() || res.StartsAt.After(now) {
			upcoming = append(upcoming, res)
		}
	}
	if len(upcoming) == 0 {
		return models.Reply{Text: textNoBookings}, nil
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].StartsAt.Before(upcoming[j].StartsAt)
	})

	var b strings.Builder
	b.WriteString(textBookingsHeader)
	for _, res := range upcoming {
		b.WriteString("\n")
		if d, err := time.ParseInLocation("2006-01-02", res.Date, f.Config.Location); err == nil {
			fmt.Fprintf(&b, "\n📅 %s, %s", schedule.FormatDateUA(d), res.Time)
		} else {
			fmt.Fprintf(&b, "\n📅 %s %s", res.Date, res.Time)
		}
		fmt.Fprintf(&b, "\n📍 %s", res.Address)
	}
	return models.Reply{Text: b.String()}, nil
}

func (f *DefaultBookingFlow) handleCalculatePrice(ctx context.Context, draft *models.BookingDraft) (models.Reply, error) {
	if draft.State != models.StateIdle {
		return f.ignored(draft, ActionCalculatePrice)
	}

	draft.State = models.StateSelectingServiceType
	if err := f.Store.Save(ctx, draft); err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}
	return models.Reply{Text: textChooseServiceType, Buttons: serviceTypeKeyboard()}, nil
}

func (f *DefaultBookingFlow) handleServiceType(ctx context.Context, draft *models.BookingDraft, arg string) (models.Reply, error) {
	if draft.State != models.StateSelectingServiceType {
		return f.ignored(draft, ActionServiceType)
	}

	st := models.ServiceType(arg)
	if !st.Valid() {
		utils.GetLogger().Warn("invalid service type choice",
			zap.Int64("chatId", draft.ChatID), zap.String("value", arg))
		return models.Reply{Text: textChooseServiceType, Buttons: serviceTypeKeyboard()}, nil
	}

	draft.ServiceType = st
	draft.State = models.StateSelectingPropertyType
	if err := f.Store.Save(ctx, draft); err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}

	text := fmt.Sprintf("✅ Ви обрали: %s\n\n%s", ServiceTypeName(st), textChoosePropertyType)
	return models.Reply{Text: text, Buttons: propertyTypeKeyboard()}, nil
}

func (f *DefaultBookingFlow) handlePropertyType(ctx context.Context, draft *models.BookingDraft, arg string) (models.Reply, error) {
	if draft.State != models.StateSelectingPropertyType {
		return f.ignored(draft, ActionPropertyType)
	}

	pt := models.PropertyType(arg)
	if !pt.Valid() {
		utils.GetLogger().Warn("invalid property type choice",
			zap.Int64("chatId", draft.ChatID), zap.String("value", arg))
		return models.Reply{Text: textChoosePropertyType, Buttons: propertyTypeKeyboard()}, nil
	}

	draft.PropertyType = pt
	draft.State = models.StateEnteringArea
	if err := f.Store.Save(ctx, draft); err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}

	text := fmt.Sprintf("✅ Ви обрали: %s\n\n%s", PropertyTypeName(pt), textEnterArea)
	return models.Reply{Text: text}, nil
}

func (f *DefaultBookingFlow) handleBookCleaning(ctx context.Context, draft *models.BookingDraft) (models.Reply, error) {
	// Entry point from the menu or from a shown quote; the quote path
	// keeps its pricing fields, the direct path leaves them unset.
	if draft.State != models.StateIdle && draft.State != models.StatePriceShown {
		return f.ignored(draft, ActionBookCleaning)
	}

	days, err := f.availableDays(ctx)
	if err == schedule.ErrNoAvailableDays {
		if clearErr := f.Store.Clear(ctx, draft.ChatID); clearErr != nil {
			return f.failSafeReset(ctx, draft.ChatID, clearErr)
		}
		return models.Reply{Text: textNoDays}, nil
	}
	if err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}

	draft.State = models.StateSelectingDate
	if err := f.Store.Save(ctx, draft); err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}
	return models.Reply{Text: textChooseDate, Buttons: dateKeyboard(days)}, nil
}

func (f *DefaultBookingFlow) handleSelectDate(ctx context.Context, draft *models.BookingDraft, arg string) (models.Reply, error) {
	if draft.State != models.StateSelectingDate {
		return f.ignored(draft, ActionSelectDate)
	}

	date, err := time.ParseInLocation("2006-01-02", arg, f.Config.Location)
	if err != nil || !f.dateOffered(date) {
		utils.GetLogger().Warn("rejected date selection",
			zap.Int64("chatId", draft.ChatID), zap.String("value", arg))
		return models.Reply{Text: textBadDate}, nil
	}

	slots := f.slotsFor(ctx, date)

	draft.SelectedDate = arg
	draft.State = models.StateSelectingTime
	if err := f.Store.Save(ctx, draft); err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}

	text := fmt.Sprintf("📅 Обрана дата: %s\n\n🕐 Оберіть час для бронювання:", schedule.FormatDateUA(date))
	return models.Reply{Text: text, Buttons: timeKeyboard(slots)}, nil
}

func (f *DefaultBookingFlow) handleSelectTime(ctx context.Context, draft *models.BookingDraft, arg string) (models.Reply, error) {
	if draft.State != models.StateSelectingTime {
		return f.ignored(draft, ActionSelectTime)
	}
	if draft.SelectedDate == "" {
		// Date lost before time selection: unrecoverable for this conversation.
		return f.stateLost(ctx, draft.ChatID, "selectedDate missing at time selection")
	}

	date, err := time.ParseInLocation("2006-01-02", draft.SelectedDate, f.Config.Location)
	if err != nil {
		return f.stateLost(ctx, draft.ChatID, "stored date unparseable")
	}

	slot, err := f.validateSlot(ctx, date, arg)
	if err != nil {
		utils.GetLogger().Warn("rejected time selection",
			zap.Int64("chatId", draft.ChatID), zap.String("value", arg), zap.Error(err))
		return models.Reply{Text: textStaleSlot, Buttons: timeKeyboard(f.slotsFor(ctx, date))}, nil
	}

	draft.SelectedTime = slot.Label
	draft.State = models.StateEnteringAddress
	if err := f.Store.Save(ctx, draft); err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}

	text := fmt.Sprintf("✅ Ви обрали:\n📅 Дата: %s\n🕐 Час: %s\n\n%s",
		schedule.FormatDateUA(date), slot.Label, textEnterAddress)
	return models.Reply{Text: text, RequestLocation: true}, nil
}

func (f *DefaultBookingFlow) handleNoSlots(ctx context.Context, draft *models.BookingDraft) (models.Reply, error) {
	if draft.State != models.StateSelectingTime && draft.State != models.StateSelectingDate {
		return f.ignored(draft, ActionNoSlotsAvail)
	}
	draft.State = models.StateSelectingDate
	draft.SelectedDate = ""
	if err := f.Store.Save(ctx, draft); err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}
	return models.Reply{Text: textNoSlots}, nil
}

func (f *DefaultBookingFlow) handleNoDays(ctx context.Context, draft *models.BookingDraft) (models.Reply, error) {
	if err := f.Store.Clear(ctx, draft.ChatID); err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}
	return models.Reply{Text: textNoDays}, nil
}

func (f *DefaultBookingFlow) handleAreaInput(ctx context.Context, client models.ClientInfo, draft *models.BookingDraft, text string) (models.Reply, error) {
	area, inputErr := parseArea(text)
	if inputErr != nil {
		var ie *InputError
		if errors.As(inputErr, &ie) && ie.Code == CodeNonPositiveArea {
			return models.Reply{Text: textAreaNotPositive}, nil
		}
		return models.Reply{Text: textAreaNotANumber}, nil
	}

	if !draft.ServiceType.Valid() || !draft.PropertyType.Valid() {
		return f.stateLost(ctx, draft.ChatID, "service or property type missing at area input")
	}

	quote := pricing.Quote(draft.ServiceType, draft.PropertyType, area)
	draft.AreaM2 = area
	draft.Quote = &quote
	draft.State = models.StatePriceShown
	if err := f.Store.Save(ctx, draft); err != nil {
		return f.failSafeReset(ctx, draft.ChatID, err)
	}

	utils.GetLogger().Info("price calculated",
		zap.Int64("chatId", client.ChatID),
		zap.String("serviceType", string(draft.ServiceType)),
		zap.String("propertyType", string(draft.PropertyType)),
		zap.Float64("areaM2", area),
		zap.Int("discountPercent", quote.DiscountPercent),
		zap.Float64("finalPrice", quote.FinalPrice))

	return models.Reply{Text: priceMessage(draft, quote), Buttons: bookCleaningKeyboard()}, nil
}

func (f *DefaultBookingFlow) handleAddressInput(ctx context.Context, client models.ClientInfo, draft *models.BookingDraft, text string) (models.Reply, error) {
	address := strings.TrimSpace(text)
	if utf8.RuneCountInString(address) < 5 {
		// Draft unchanged, state unchanged.
		return models.Reply{Text: textAddressTooShort}, nil
	}

	draft.Address = address
	draft.AddressForCalendar = address

	reply, err := f.finalize(ctx, client, draft)
	if err != nil {
		return reply, err
	}
	reply.Text = textAddressSaved + "\n\n" + reply.Text
	reply.RemoveKeyboard = true
	return reply, nil
}

// ignored logs an out-of-state event and returns an empty reply: no state
// change, nothing sent.
func (f *DefaultBookingFlow) ignored(draft *models.BookingDraft, action string) (models.Reply, error) {
	utils.GetLogger().Warn("event ignored in current state",
		zap.Int64("chatId", draft.ChatID),
		zap.String("state", string(draft.State)),
		zap.String("action", action))
	return models.Reply{}, nil
}

// stateLost handles a state-consistency violation: discard the draft and
// return to the entry menu.
func (f *DefaultBookingFlow) stateLost(ctx context.Context, chatID int64, reason string) (models.Reply, error) {
	utils.GetLogger().Error("conversation state lost",
		zap.Int64("chatId", chatID), zap.String("reason", reason))
	if err := f.Store.Clear(ctx, chatID); err != nil {
		utils.GetLogger().Error("failed to clear draft after state loss",
			zap.Int64("chatId", chatID), zap.Error(err))
	}
	return models.Reply{Text: textStateLost + "\n\n" + textWelcome, Buttons: startKeyboard()}, nil
}

// failSafeReset handles an unexpected internal error: best-effort draft
// clear, generic apology, never a stuck state.
func (f *DefaultBookingFlow) failSafeReset(ctx context.Context, chatID int64, cause error) (models.Reply, error) {
	utils.GetLogger().Error("internal error, resetting conversation",
		zap.Int64("chatId", chatID), zap.Error(cause))
	if err := f.Store.Clear(ctx, chatID); err != nil {
		utils.GetLogger().Error("failed to clear draft during reset",
			zap.Int64("chatId", chatID), zap.Error(err))
	}
	return models.Reply{Text: textGenericError + "\n\n" + textWelcome, Buttons: startKeyboard()}, nil
}

func (f *DefaultBookingFlow) availableDays(ctx context.Context) ([]models.DayOption, error) {
	return schedule.AvailableDays(
		ctx,
		f.Config.DayTarget, f.Config.DayHorizon,
		f.Now().In(f.Config.Location),
		f.Calendar.QueryBusyIntervals,
		f.Config.WorkStartHour, f.Config.WorkEndHour, f.Config.SlotIntervalHours,
	)
}

// slotsFor returns the current conflict-free slots for one date, treating
// a failed busy query as a fully open day.
func (f *DefaultBookingFlow) slotsFor(ctx context.Context, date time.Time) []models.TimeSlot {
	busy, err := f.Calendar.QueryBusyIntervals(ctx, date)
	if err != nil {
		utils.GetLogger().Warn("busy query failed, assuming open day",
			zap.String("date", date.Format("2006-01-02")), zap.Error(err))
		busy = nil
	}
	return schedule.AvailableSlots(date, busy,
		f.Config.WorkStartHour, f.Config.WorkEndHour, f.Config.SlotIntervalHours)
}

// dateOffered checks that a date belongs to the offered window: a working
// day strictly after today, within the search horizon. The walk is over
// calendar days, not elapsed hours, so DST-shortened days count as full
// days.
func (f *DefaultBookingFlow) dateOffered(date time.Time) bool {
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	now := f.Now().In(f.Config.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, f.Config.Location)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, f.Config.Location)
	for offset := 1; offset <= f.Config.DayHorizon; offset++ {
		if today.AddDate(0, 0, offset).Equal(day) {
			return true
		}
	}
	return false
}

// validateSlot checks a selected time against the freshly computed slot
// set for the date. Accepts "HH:MM" and bare "HH".
func (f *DefaultBookingFlow) validateSlot(ctx context.Context, date time.Time, value string) (models.TimeSlot, error) {
	minutes, err := parseSlotTime(value)
	if err != nil {
		return models.TimeSlot{}, err
	}
	for _, s := range f.slotsFor(ctx, date) {
		if s.Start == minutes {
			return s, nil
		}
	}
	return models.TimeSlot{}, newInputError(CodeStaleSelection, "slot no longer available")
}

func parseSlotTime(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, newInputError(CodeStaleSelection, "unparseable slot time")
	}
	minute := 0
	if len(parts) == 2 {
		minute, err = strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return 0, newInputError(CodeStaleSelection, "unparseable slot time")
		}
	}
	return hour*60 + minute, nil
}

func parseArea(text string) (float64, error) {
	area, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, newInputError(CodeInvalidNumber, "area is not a number")
	}
	if area <= 0 {
		return 0, newInputError(CodeNonPositiveArea, "area must be positive")
	}
	return area, nil
}
