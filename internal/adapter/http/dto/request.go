package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
)

// DateLayout is the wire format for entry dates (day granularity).
const DateLayout = "2006-01-02"

// CreatePartyRequest represents a request to create a party.
type CreatePartyRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePartyRequest) ToUseCaseInput() usecase.CreatePartyInput {
	return usecase.CreatePartyInput{
		Name:  r.Name,
		Phone: r.Phone,
		Type:  domain.PartyType(r.Type),
	}
}

// UpdatePartyRequest represents a request to edit party details.
type UpdatePartyRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdatePartyRequest) ToUseCaseInput(partyID int64) usecase.UpdatePartyInput {
	return usecase.UpdatePartyInput{
		PartyID: partyID,
		Name:    r.Name,
		Phone:   r.Phone,
		Type:    domain.PartyType(r.Type),
	}
}

// EntryRequest represents a request to add or edit a ledger entry.
type EntryRequest struct {
	Direction string          `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Note      string          `json:"note,omitempty"`
}

// ToAddInput converts to use case input, parsing the entry date.
func (r *EntryRequest) ToAddInput(partyID int64) (usecase.AddEntryInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return usecase.AddEntryInput{}, err
	}

	return usecase.AddEntryInput{
		PartyID:   partyID,
		Direction: domain.Direction(r.Direction),
		Amount:    r.Amount,
		Date:      date,
		Note:      r.Note,
	}, nil
}

// ToUpdateInput converts to use case input, parsing the entry date.
func (r *EntryRequest) ToUpdateInput(entryID, partyID int64) (usecase.UpdateEntryInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return usecase.UpdateEntryInput{}, err
	}

	return usecase.UpdateEntryInput{
		EntryID:   entryID,
		PartyID:   partyID,
		Direction: domain.Direction(r.Direction),
		Amount:    r.Amount,
		Date:      date,
		Note:      r.Note,
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in %s format: %w", DateLayout, err)
	}

	return date.UTC(), nil
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
