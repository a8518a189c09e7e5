package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyType classifies a counterparty. It is informational only and has no
// effect on balance arithmetic.
type PartyType string

const (
	PartyTypeCustomer PartyType = "customer"
	PartyTypeSupplier PartyType = "supplier"
)

// Valid reports whether the party type is one of the known values.
func (t PartyType) Valid() bool {
	return t == PartyTypeCustomer || t == PartyTypeSupplier
}

// Party is a counterparty against whom a running balance is tracked.
//
// Balance always equals the running balance after the chronologically last
// entry for the party, or zero when the party has no entries. It is written
// exclusively by the recalculation engine.
type Party struct {
	Name      string
	Phone     string
	Type      PartyType
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        int64
}
