package domain

import "time"

// Event types
const (
	EventTypePartyCreated        = "party.created"
	EventTypePartyDeleted        = "party.deleted"
	EventTypeEntryAdded          = "entry.added"
	EventTypeEntryUpdated        = "entry.updated"
	EventTypeEntryDeleted        = "entry.deleted"
	EventTypeBalanceRecalculated = "party.balance_recalculated"
)

// Aggregate types
const (
	AggregateTypeParty = "party"
	AggregateTypeEntry = "entry"
)

// OutboxEvent represents an event written in the same transaction as the
// mutation it announces, to be published asynchronously.
type OutboxEvent struct {
	CreatedAt     time.Time
	PublishedAt   *time.Time
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	Published     bool
}

// BalanceRecalculatedEvent payload
type BalanceRecalculatedEvent struct {
	PartyID        int64  `json:"party_id"`
	Balance        string `json:"balance"`
	EntriesUpdated int    `json:"entries_updated"`
}

// EntryAddedEvent payload
type EntryAddedEvent struct {
	EntryID      int64  `json:"entry_id"`
	PartyID      int64  `json:"party_id"`
	Direction    string `json:"direction"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	BalanceAfter string `json:"balance_after"`
}
