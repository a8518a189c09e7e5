package dto

import (
	"time"

	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
)

// PartyResponse represents a party in API responses.
type PartyResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Type      string `json:"type"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FromParty converts a domain party to a response.
func FromParty(party *domain.Party) PartyResponse {
	return PartyResponse{
		ID:        party.ID,
		Name:      party.Name,
		Phone:     party.Phone,
		Type:      string(party.Type),
		Balance:   party.Balance.String(),
		CreatedAt: party.CreatedAt.Format(time.RFC3339),
		UpdatedAt: party.UpdatedAt.Format(time.RFC3339),
	}
}

// FromParties converts a slice of domain parties to responses.
func FromParties(parties []*domain.Party) []PartyResponse {
	out := make([]PartyResponse, 0, len(parties))
	for _, party := range parties {
		out = append(out, FromParty(party))
	}

	return out
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID           int64  `json:"id"`
	PartyID      int64  `json:"party_id"`
	Direction    string `json:"direction"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Note         string `json:"note,omitempty"`
	BalanceAfter string `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}

// FromEntry converts a domain entry to a response.
func FromEntry(entry *domain.Entry) EntryResponse {
	return EntryResponse{
		ID:           entry.ID,
		PartyID:      entry.PartyID,
		Direction:    string(entry.Direction),
		Amount:       entry.Amount.String(),
		Date:         entry.Date.Format(DateLayout),
		Note:         entry.Note,
		BalanceAfter: entry.BalanceAfter.String(),
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
	}
}

// FromEntries converts a slice of domain entries to responses.
func FromEntries(entries []*domain.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FromEntry(entry))
	}

	return out
}

// RecalculateResponse reports the outcome of a balance recalculation.
type RecalculateResponse struct {
	PartyID        int64  `json:"party_id"`
	Balance        string `json:"balance"`
	EntriesWritten int    `json:"entries_written"`
}

// ConsistencyResponse reports a consistency check over stored balances.
type ConsistencyResponse struct {
	PartyID           int64   `json:"party_id"`
	Consistent        bool    `json:"consistent"`
	StoredBalance     string  `json:"stored_balance"`
	ComputedBalance   string  `json:"computed_balance"`
	MismatchedEntries []int64 `json:"mismatched_entries,omitempty"`
}

// FromConsistencyReport converts a use case consistency report.
func FromConsistencyReport(report *usecase.ConsistencyReport) ConsistencyResponse {
	return ConsistencyResponse{
		PartyID:           report.PartyID,
		Consistent:        report.Consistent,
		StoredBalance:     report.StoredBalance.String(),
		ComputedBalance:   report.ComputedBalance.String(),
		MismatchedEntries: report.MismatchedEntries,
	}
}

// LoginResponse carries an issued access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}
