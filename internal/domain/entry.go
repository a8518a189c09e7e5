package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether an entry increases or decreases the party balance.
type Direction string

const (
	// DirectionCredit increases the balance (money owed to the user).
	DirectionCredit Direction = "credit"
	// DirectionDebit decreases the balance.
	DirectionDebit Direction = "debit"
)

// Valid reports whether the direction is one of the known values.
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// Sign applies the direction to an amount: +amount for credit, -amount for
// debit.
func (d Direction) Sign(amount decimal.Decimal) decimal.Decimal {
	if d == DirectionDebit {
		return amount.Neg()
	}

	return amount
}

// Entry is a single persisted credit or debit transaction against a party.
//
// BalanceAfter is the running balance immediately following this entry in
// chronological order. It is maintained by the recalculation engine and is
// never user-editable.
type Entry struct {
	Date         time.Time
	CreatedAt    time.Time
	Direction    Direction
	Note         string
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	ID           int64
	PartyID      int64
}

// SignedAmount returns the entry's contribution to the running balance.
func (e *Entry) SignedAmount() decimal.Decimal {
	return e.Direction.Sign(e.Amount)
}

// EntryDraft is a candidate entry that has not been persisted yet, so it has
// no id. The recalculation engine can rank a draft on a party's timeline
// alongside persisted entries and compute its balanceAfter before insertion.
type EntryDraft struct {
	Date      time.Time
	CreatedAt time.Time
	Direction Direction
	Note      string
	Amount    decimal.Decimal
	PartyID   int64
}

// SignedAmount returns the draft's contribution to the running balance.
func (d *EntryDraft) SignedAmount() decimal.Decimal {
	return d.Direction.Sign(d.Amount)
}
