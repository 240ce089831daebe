package booking_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"oselya/models"
	"oselya/services/booking"
	"oselya/services/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ConversationStore. Drafts are stored by value
// so aliasing bugs in the flow show up as stale state.
type memStore struct {
	drafts map[int64]models.BookingDraft
}

func newMemStore() *memStore {
	return &memStore{drafts: make(map[int64]models.BookingDraft)}
}

func (s *memStore) Get(_ context.Context, chatID int64) (*models.BookingDraft, error) {
	if d, ok := s.drafts[chatID]; ok {
		copied := d
		return &copied, nil
	}
	return models.NewDraft(chatID), nil
}

func (s *memStore) Save(_ context.Context, draft *models.BookingDraft) error {
	s.drafts[draft.ChatID] = *draft
	return nil
}

func (s *memStore) Clear(_ context.Context, chatID int64) error {
	delete(s.drafts, chatID)
	return nil
}

// fakeCalendar serves canned busy intervals keyed by date and records
// inserted events.
type fakeCalendar struct {
	busy      map[string][]models.BusyInterval
	queryErr  error
	insertErr error
	inserted  []calendar.EventInput
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{busy: make(map[string][]models.BusyInterval)}
}

func (c *fakeCalendar) Available() bool { return true }

func (c *fakeCalendar) QueryBusyIntervals(_ context.Context, date time.Time) ([]models.BusyInterval, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return c.busy[date.Format("2006-01-02")], nil
}

func (c *fakeCalendar) InsertEvent(_ context.Context, ev calendar.EventInput) (string, error) {
	if c.insertErr != nil {
		return "", c.insertErr
	}
	c.inserted = append(c.inserted, ev)
	return "evt-1", nil
}

type fakeReservationRepo struct {
	created []models.Reservation
}

func (r *fakeReservationRepo) Create(_ context.Context, res models.Reservation) (string, error) {
	res.ID = "res-1"
	r.created = append(r.created, res)
	return res.ID, nil
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	for i := range r.created {
		if r.created[i].ID == id {
			return &r.created[i], nil
		}
	}
	return nil, assert.AnError
}

func (r *fakeReservationRepo) GetByChatID(_ context.Context, chatID int64) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range r.created {
		if res.ChatID == chatID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) GetByDate(_ context.Context, date string) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range r.created {
		if res.Date == date {
			out = append(out, res)
		}
	}
	return out, nil
}

type scheduledReminder struct {
	payload models.ReminderPayload
	fireAt  time.Time
}

type fakeDispatcher struct {
	owner     []models.OwnerNotifyPayload
	reminders []scheduledReminder
}

func (d *fakeDispatcher) DispatchOwnerNotification(_ context.Context, p models.OwnerNotifyPayload) error {
	d.owner = append(d.owner, p)
	return nil
}

func (d *fakeDispatcher) ScheduleReminder(_ context.Context, p models.ReminderPayload, fireAt time.Time) error {
	d.reminders = append(d.reminders, scheduledReminder{payload: p, fireAt: fireAt})
	return nil
}

// testNow is a Wednesday morning, so the next working days start Thursday.
var testNow = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

type flowFixture struct {
	flow       *booking.DefaultBookingFlow
	store      *memStore
	cal        *fakeCalendar
	repo       *fakeReservationRepo
	dispatcher *fakeDispatcher
	client     models.ClientInfo
}

func newFlowFixture() *flowFixture {
	return newFlowFixtureAt(testNow, time.UTC)
}

func newFlowFixtureAt(now time.Time, loc *time.Location) *flowFixture {
	store := newMemStore()
	cal := newFakeCalendar()
	repo := &fakeReservationRepo{}
	dispatcher := &fakeDispatcher{}

	flow := &booking.DefaultBookingFlow{
		Store:        store,
		Calendar:     cal,
		Reservations: repo,
		Dispatcher:   dispatcher,
		Config: booking.FlowConfig{
			WorkStartHour:         8,
			WorkEndHour:           18,
			SlotIntervalHours:     2,
			CleaningDurationHours: 2,
			DayTarget:             5,
			DayHorizon:            14,
			ReminderLead:          24 * time.Hour,
			Location:              loc,
		},
		Now: func() time.Time { return now },
	}

	return &flowFixture{
		flow:       flow,
		store:      store,
		cal:        cal,
		repo:       repo,
		dispatcher: dispatcher,
		client:     models.ClientInfo{ChatID: 42, Username: "olena"},
	}
}

func TestFullBookingFlow(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()

	reply, err := fx.flow.StartConversation(ctx, fx.client)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Чиста Оселя")
	require.Len(t, reply.Buttons, 2)

	reply, err = fx.flow.HandleAction(ctx, fx.client, "calculate_price")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Оберіть тип прибирання")

	reply, err = fx.flow.HandleAction(ctx, fx.client, "cleaning_type:deep")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Генеральне")
	assert.Contains(t, reply.Text, "Оберіть тип житла")

	reply, err = fx.flow.HandleAction(ctx, fx.client, "property_type:apartment")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "площу")

	// 60 m² deep cleaning in an apartment: 60 * 80 = 4800, 5% off = 4560.
	reply, err = fx.flow.HandleText(ctx, fx.client, "60")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "4800")
	assert.Contains(t, reply.Text, "5%")
	assert.Contains(t, reply.Text, "4560")
	require.Len(t, reply.Buttons, 1)
	assert.Equal(t, "book_cleaning", reply.Buttons[0][0].Action)

	reply, err = fx.flow.HandleAction(ctx, fx.client, "book_cleaning")
	require.NoError(t, err)
	require.Len(t, reply.Buttons, 5)
	assert.Equal(t, "select_date:2026-03-05", reply.Buttons[0][0].Action)
	assert.Equal(t, "select_date:2026-03-06", reply.Buttons[1][0].Action)
	// The weekend is skipped.
	assert.Equal(t, "select_date:2026-03-09", reply.Buttons[2][0].Action)

	reply, err = fx.flow.HandleAction(ctx, fx.client, "select_date:2026-03-05")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Оберіть час")
	// Five slots, two per row.
	require.Len(t, reply.Buttons, 3)
	assert.Equal(t, "select_time:08:00", reply.Buttons[0][0].Action)

	reply, err = fx.flow.HandleAction(ctx, fx.client, "select_time:10:00")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "10:00")
	assert.Contains(t, reply.Text, "адресу")
	assert.True(t, reply.RequestLocation)

	reply, err = fx.flow.HandleText(ctx, fx.client, "вул. Шевченка 10, кв. 5")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Адресу збережено")
	assert.Contains(t, reply.Text, "Бронювання підтверджено")
	assert.Contains(t, reply.Text, "вул. Шевченка 10, кв. 5")
	assert.True(t, reply.RemoveKeyboard)

	require.Len(t, fx.repo.created, 1)
	res := fx.repo.created[0]
	assert.Equal(t, int64(42), res.ChatID)
	assert.Equal(t, "olena", res.Username)
	assert.Equal(t, models.ServiceDeep, res.ServiceType)
	assert.Equal(t, models.PropertyApartment, res.PropertyType)
	assert.Equal(t, 4560.0, res.FinalPrice)
	assert.Equal(t, "2026-03-05", res.Date)
	assert.Equal(t, "10:00", res.Time)
	assert.Equal(t, "evt-1", res.CalendarEventID)

	require.Len(t, fx.dispatcher.owner, 1)
	assert.Contains(t, fx.dispatcher.owner[0].Text, "НОВЕ БРОНЮВАННЯ")
	require.Len(t, fx.dispatcher.reminders, 1)
	assert.Equal(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), fx.dispatcher.reminders[0].fireAt)

	// The conversation is over; the draft is gone.
	draft, err := fx.store.Get(ctx, fx.client.ChatID)
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, draft.State)
}

func TestAreaInputValidation(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()

	_, err := fx.flow.HandleAction(ctx, fx.client, "calculate_price")
	require.NoError(t, err)
	_, err = fx.flow.HandleAction(ctx, fx.client, "cleaning_type:maintenance")
	require.NoError(t, err)
	_, err = fx.flow.HandleAction(ctx, fx.client, "property_type:house")
	require.NoError(t, err)

	reply, err := fx.flow.HandleText(ctx, fx.client, "not a number")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "коректне число")

	reply, err = fx.flow.HandleText(ctx, fx.client, "-20")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "більше 0")

	// Both rejections left the conversation at the area prompt.
	draft, err := fx.store.Get(ctx, fx.client.ChatID)
	require.NoError(t, err)
	assert.Equal(t, models.StateEnteringArea, draft.State)

	reply, err = fx.flow.HandleText(ctx, fx.client, "75.5")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "75.5")
	// 75.5 * 50 * 1.3 = 4907.5, with the 5% tier applied.
	assert.Contains(t, reply.Text, "4907.5")
	assert.Contains(t, reply.Text, "5%")
}

func TestShortAddressKeepsState(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()
	advanceToAddress(t, fx)

	reply, err := fx.flow.HandleText(ctx, fx.client, "abc")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "занадто коротка")

	draft, err := fx.store.Get(ctx, fx.client.ChatID)
	require.NoError(t, err)
	assert.Equal(t, models.StateEnteringAddress, draft.State)
	assert.Empty(t, draft.Address)
	assert.Empty(t, fx.repo.created)
}

func TestStaleSlotReoffersTimes(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()

	_, err := fx.flow.HandleAction(ctx, fx.client, "book_cleaning")
	require.NoError(t, err)
	_, err = fx.flow.HandleAction(ctx, fx.client, "select_date:2026-03-05")
	require.NoError(t, err)

	// The 10:00 slot is taken between keyboard render and selection.
	fx.cal.busy["2026-03-05"] = []models.BusyInterval{{Start: 600, End: 720}}

	reply, err := fx.flow.HandleAction(ctx, fx.client, "select_time:10:00")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "вже зайнято")
	for _, row := range reply.Buttons {
		for _, b := range row {
			assert.NotEqual(t, "select_time:10:00", b.Action)
		}
	}

	draft, err := fx.store.Get(ctx, fx.client.ChatID)
	require.NoError(t, err)
	assert.Equal(t, models.StateSelectingTime, draft.State)
	assert.Empty(t, draft.SelectedTime)
}

func TestOutOfStateActionsIgnored(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()

	_, err := fx.flow.HandleAction(ctx, fx.client, "book_cleaning")
	require.NoError(t, err)

	// A quote action arriving mid-booking is dropped without a reply.
	reply, err := fx.flow.HandleAction(ctx, fx.client, "cleaning_type:deep")
	require.NoError(t, err)
	assert.True(t, reply.Empty())

	draft, err := fx.store.Get(ctx, fx.client.ChatID)
	require.NoError(t, err)
	assert.Equal(t, models.StateSelectingDate, draft.State)
}

func TestUnknownActionIgnored(t *testing.T) {
	fx := newFlowFixture()

	reply, err := fx.flow.HandleAction(context.Background(), fx.client, "bogus_action:42")
	require.NoError(t, err)
	assert.True(t, reply.Empty())
}

func TestDateOutsideOfferedWindowRejected(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()

	_, err := fx.flow.HandleAction(ctx, fx.client, "book_cleaning")
	require.NoError(t, err)

	for _, date := range []string{
		"2026-03-04", // today
		"2026-03-07", // Saturday
		"2026-04-01", // beyond the horizon
		"garbage",
	} {
		reply, err := fx.flow.HandleAction(ctx, fx.client, "select_date:"+date)
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "Помилка формату дати", "date %s", date)
	}

	draft, err := fx.store.Get(ctx, fx.client.ChatID)
	require.NoError(t, err)
	assert.Equal(t, models.StateSelectingDate, draft.State)
	assert.Empty(t, draft.SelectedDate)
}

func TestOfferedDateAcceptedAcrossDstChange(t *testing.T) {
	// Sunday 2026-03-29 is the spring-forward date in Central Europe, a
	// 23-hour day. Selecting the very date the bot just offered must work.
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	fx := newFlowFixtureAt(time.Date(2026, 3, 29, 9, 0, 0, 0, loc), loc)
	ctx := context.Background()

	reply, err := fx.flow.HandleAction(ctx, fx.client, "book_cleaning")
	require.NoError(t, err)
	require.NotEmpty(t, reply.Buttons)
	first := reply.Buttons[0][0].Action
	assert.Equal(t, "select_date:2026-03-30", first)

	reply, err = fx.flow.HandleAction(ctx, fx.client, first)
	require.NoError(t, err)
	assert.NotContains(t, reply.Text, "Помилка формату дати")
	assert.Contains(t, reply.Text, "Оберіть час")

	draft, err := fx.store.Get(ctx, fx.client.ChatID)
	require.NoError(t, err)
	assert.Equal(t, models.StateSelectingTime, draft.State)
	assert.Equal(t, "2026-03-30", draft.SelectedDate)
}

func TestListBookingsShowsUpcomingInOrder(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()

	fx.repo.created = []models.Reservation{
		{
			ID: "res-past", ChatID: 42, Date: "2026-03-02", Time: "08:00",
			Address:  "вул. Стара 1",
			StartsAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		},
		{
			ID: "res-late", ChatID: 42, Date: "2026-03-10", Time: "14:00",
			Address:  "вул. Шевченка 10",
			StartsAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		},
		{
			ID: "res-soon", ChatID: 42, Date: "2026-03-05", Time: "10:00",
			Address:  "вул. Франка 3",
			StartsAt: time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		},
	}

	reply, err := fx.flow.ListBookings(ctx, fx.client)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Ваші бронювання")
	assert.NotContains(t, reply.Text, "вул. Стара 1")
	// Soonest first.
	assert.Less(t,
		strings.Index(reply.Text, "вул. Франка 3"),
		strings.Index(reply.Text, "вул. Шевченка 10"))
}

func TestListBookingsEmpty(t *testing.T) {
	fx := newFlowFixture()

	reply, err := fx.flow.ListBookings(context.Background(), fx.client)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "немає активних бронювань")
}

func TestNoAvailableDaysClearsDraft(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()

	// Every working day in the horizon is fully booked.
	allDay := []models.BusyInterval{{Start: 0, End: 1440}}
	for d := 1; d <= 14; d++ {
		date := testNow.AddDate(0, 0, d).Format("2006-01-02")
		fx.cal.busy[date] = allDay
	}

	reply, err := fx.flow.HandleAction(ctx, fx.client, "book_cleaning")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "немає доступних слотів")

	draft, err := fx.store.Get(ctx, fx.client.ChatID)
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, draft.State)
}

func TestLocationSharingFinalizes(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()
	advanceToAddress(t, fx)

	reply, err := fx.flow.HandleLocation(ctx, fx.client, 50.450123, 30.523456)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Локацію отримано")
	assert.Contains(t, reply.Text, "50.450123, 30.523456")
	assert.Contains(t, reply.Text, "Бронювання підтверджено")
	assert.True(t, reply.RemoveKeyboard)

	require.Len(t, fx.repo.created, 1)
	assert.Equal(t, "50.450123, 30.523456", fx.repo.created[0].CalendarAddress)
}

func TestLocationOutsideAddressStepNudges(t *testing.T) {
	fx := newFlowFixture()

	reply, err := fx.flow.HandleLocation(context.Background(), fx.client, 50.45, 30.52)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "локацією")
	assert.Empty(t, fx.repo.created)
}

func TestFreeTextOutsideFlowShowsMenu(t *testing.T) {
	fx := newFlowFixture()

	reply, err := fx.flow.HandleText(context.Background(), fx.client, "привіт")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Оберіть опцію")
	require.Len(t, reply.Buttons, 2)
}

// advanceToAddress drives a fixture's conversation to the address prompt
// via the direct booking path (no price quote).
func advanceToAddress(t *testing.T, fx *flowFixture) {
	t.Helper()
	ctx := context.Background()

	_, err := fx.flow.HandleAction(ctx, fx.client, "book_cleaning")
	require.NoError(t, err)
	_, err = fx.flow.HandleAction(ctx, fx.client, "select_date:2026-03-05")
	require.NoError(t, err)
	_, err = fx.flow.HandleAction(ctx, fx.client, "select_time:10:00")
	require.NoError(t, err)

	draft, err := fx.store.Get(ctx, fx.client.ChatID)
	require.NoError(t, err)
	require.Equal(t, models.StateEnteringAddress, draft.State)
}
