package booking

import "fmt"

// Input validation error kinds consumed by the state machine's transition
// table. These recover locally: same state, draft unchanged.
const (
	CodeInvalidNumber   = "invalidNumber"
	CodeNonPositiveArea = "nonPositiveArea"
	CodeAddressTooShort = "addressTooShort"
	CodeStaleSelection  = "staleSelection"
)

// InputError is a recoverable user-input failure with a machine-readable
// kind.
type InputError struct {
	Code    string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newInputError(code, msg string) error {
	return &InputError{Code: code, Message: msg}
}
