package models

// Button is one pressable option offered to the user. Action carries the
// callback payload delivered back when pressed.
type Button struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

// Reply is a transport-neutral outbound message: text plus an optional
// button layout. A zero-text Reply means "send nothing" (the event was
// ignored).
type Reply struct {
	Text            string     `json:"text"`
	Buttons         [][]Button `json:"buttons,omitempty"`
	RequestLocation bool       `json:"requestLocation,omitempty"`
	RemoveKeyboard  bool       `json:"removeKeyboard,omitempty"`
}

// Empty reports whether there is nothing to send.
func (r Reply) Empty() bool {
	return r.Text == ""
}
