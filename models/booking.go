package models

import "time"

// ServiceType is the kind of cleaning the client orders.
type ServiceType string

const (
	ServiceMaintenance    ServiceType = "maintenance"
	ServiceDeep           ServiceType = "deep"
	ServicePostRenovation ServiceType = "post_renovation"
)

// Valid reports whether the value is one of the three offered service types.
func (s ServiceType) Valid() bool {
	switch s {
	case ServiceMaintenance, ServiceDeep, ServicePostRenovation:
		return true
	}
	return false
}

// PropertyType is the kind of dwelling being cleaned.
type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
)

func (p PropertyType) Valid() bool {
	return p == PropertyApartment || p == PropertyHouse
}

// ServiceTypeNames maps service types to their Ukrainian display names.
// Every rendering (keyboards, quotes, owner notifications) reads from
// here so the wording cannot drift.
var ServiceTypeNames = map[ServiceType]string{
	ServiceMaintenance:    "Підтримуюче",
	ServiceDeep:           "Генеральне",
	ServicePostRenovation: "Після ремонту",
}

// PropertyTypeNames maps property types to their Ukrainian display names.
var PropertyTypeNames = map[PropertyType]string{
	PropertyApartment: "Квартира",
	PropertyHouse:     "Будинок",
}

// ConversationState tags the current step of a chat's booking dialogue.
type ConversationState string

const (
	StateIdle                  ConversationState = "idle"
	StateSelectingServiceType  ConversationState = "selecting_service_type"
	StateSelectingPropertyType ConversationState = "selecting_property_type"
	StateEnteringArea          ConversationState = "entering_area"
	StatePriceShown            ConversationState = "price_shown"
	StateSelectingDate         ConversationState = "selecting_date"
	StateSelectingTime         ConversationState = "selecting_time"
	StateEnteringAddress       ConversationState = "entering_address"
)

// StateLabels maps each state to a human-readable label.
var StateLabels = map[ConversationState]string{
	StateIdle:                  "Головне меню",
	StateSelectingServiceType:  "Вибір типу прибирання",
	StateSelectingPropertyType: "Вибір типу житла",
	StateEnteringArea:          "Введення площі",
	StatePriceShown:            "Розрахунок вартості",
	StateSelectingDate:         "Вибір дати",
	StateSelectingTime:         "Вибір часу",
	StateEnteringAddress:       "Введення адреси",
}

// BookingDraft is the in-progress booking record for one conversation.
// Fields are only ever set in forward step order; the state machine
// enforces that, not the draft itself.
type BookingDraft struct {
	ChatID int64             `json:"chatId"`
	State  ConversationState `json:"state"`

	ServiceType  ServiceType  `json:"serviceType,omitempty"`
	PropertyType PropertyType `json:"propertyType,omitempty"`
	AreaM2       float64      `json:"areaM2,omitempty"`
	Quote        *PriceQuote  `json:"quote,omitempty"`

	SelectedDate string `json:"selectedDate,omitempty"` // "2006-01-02"
	SelectedTime string `json:"selectedTime,omitempty"` // "15:04"

	Address            string `json:"address,omitempty"`            // display form
	AddressForCalendar string `json:"addressForCalendar,omitempty"` // calendar location form

	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDraft returns an empty draft for a chat, parked at the entry menu.
func NewDraft(chatID int64) *BookingDraft {
	return &BookingDraft{ChatID: chatID, State: StateIdle, UpdatedAt: time.Now()}
}

// ClientInfo identifies the person on the other end of the conversation.
type ClientInfo struct {
	ChatID   int64  `json:"chatId"`
	Username string `json:"username,omitempty"`
}

// Reservation is a finalized booking, persisted once and never mutated.
// CalendarEventID is empty when calendar submission failed; the booking
// stands regardless.
type Reservation struct {
	ID              string       `bson:"id" json:"id"`
	ChatID          int64        `bson:"chatId" json:"chatId"`
	Username        string       `bson:"username,omitempty" json:"username,omitempty"`
	ServiceType     ServiceType  `bson:"serviceType,omitempty" json:"serviceType,omitempty"`
	PropertyType    PropertyType `bson:"propertyType,omitempty" json:"propertyType,omitempty"`
	AreaM2          float64      `bson:"areaM2,omitempty" json:"areaM2,omitempty"`
	FinalPrice      float64      `bson:"finalPrice,omitempty" json:"finalPrice,omitempty"`
	Date            string       `bson:"date,omitempty" json:"date,omitempty"`
	Time            string       `bson:"time,omitempty" json:"time,omitempty"`
	Address         string       `bson:"address" json:"address"`
	CalendarAddress string       `bson:"calendarAddress,omitempty" json:"calendarAddress,omitempty"`
	CalendarEventID string       `bson:"calendarEventId,omitempty" json:"calendarEventId,omitempty"`
	StartsAt        time.Time    `bson:"startsAt,omitempty" json:"startsAt,omitempty"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt"`
}
