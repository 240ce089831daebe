package models

// OwnerNotifyPayload is the queued payload for a new-booking notification.
type OwnerNotifyPayload struct {
	ReservationID string `json:"reservationId"`
	Text          string `json:"text"`
}

// ReminderPayload is the queued payload for a pre-appointment reminder.
type ReminderPayload struct {
	ReservationID string `json:"reservationId"`
	Text          string `json:"text"`
	FireDate      string `json:"fireDate"`
}
