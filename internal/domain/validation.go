package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidPartyName = errors.New("invalid party name")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrNoteTooLong      = errors.New("note exceeds maximum length")
)

// Validation constants
const (
	MaxPartyNameLength = 255
	MaxNoteLength      = 1024
	MaxEntryAmount     = "1000000000" // 1 billion
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-]{4,19}$`)

// ValidatePartyName validates a party display name.
func ValidatePartyName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPartyName)
	}

	if len(name) > MaxPartyNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPartyName, MaxPartyNameLength)
	}

	return nil
}

// ValidatePhone validates a phone number. Empty is allowed; phone is only a
// secondary search key.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}

	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	return nil
}

// ValidateAmount validates an entry amount at the creation boundary. The
// recalculation engine assumes amounts are already validated and does not
// re-check them.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxEntryAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxEntryAmount)
	}

	return nil
}

// ValidateNote validates an entry note.
func ValidateNote(note string) error {
	if len(note) > MaxNoteLength {
		return fmt.Errorf("%w: limit is %d bytes", ErrNoteTooLong, MaxNoteLength)
	}

	return nil
}

// ValidateDraft validates a candidate entry before it reaches the engine.
func ValidateDraft(d *EntryDraft) error {
	if !d.Direction.Valid() {
		return ErrInvalidDirection
	}

	if err := ValidateAmount(d.Amount); err != nil {
		return err
	}

	if err := ValidateNote(d.Note); err != nil {
		return err
	}

	if d.Date.IsZero() {
		return errors.New("entry date is required")
	}

	return nil
}
