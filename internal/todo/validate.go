package todo

import "errors"

const maxItemLen = 255

// Validation failures are local: they block the call before any network
// traffic and are shown inline by the form, not toasted.
var (
	ErrItemRequired = errors.New("Todo item is required")
	ErrItemTooLong  = errors.New("Todo item is too long")
)

// ValidateItem checks new-todo input against the recognized shape.
func ValidateItem(item string) error {
	if len(item) == 0 {
		return ErrItemRequired
	}
	if len([]rune(item)) > maxItemLen {
		return ErrItemTooLong
	}
	return nil
}
