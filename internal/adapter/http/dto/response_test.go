package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
)

func TestFromParty(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC)
	party := &domain.Party{
		ID:        1,
		Name:      "Ravi Traders",
		Phone:     "+15551234",
		Type:      domain.PartyTypeCustomer,
		Balance:   decimal.RequireFromString("123.45"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := FromParty(party)
	if resp.ID != party.ID || resp.Balance != "123.45" || resp.Type != "customer" {
		t.Fatalf("unexpected party response: %+v", resp)
	}
	if resp.CreatedAt != "2026-01-05T10:30:00Z" {
		t.Fatalf("unexpected created_at: %s", resp.CreatedAt)
	}

	list := FromParties([]*domain.Party{party})
	if len(list) != 1 || list[0].ID != party.ID {
		t.Fatalf("FromParties returned %+v", list)
	}
}

func TestFromEntry(t *testing.T) {
	entry := &domain.Entry{
		ID:           4,
		PartyID:      1,
		Direction:    domain.DirectionDebit,
		Amount:       decimal.RequireFromString("30"),
		Date:         time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		Note:         "payment received",
		BalanceAfter: decimal.RequireFromString("70"),
		CreatedAt:    time.Now(),
	}

	resp := FromEntry(entry)
	if resp.ID != entry.ID || resp.Direction != "debit" || resp.BalanceAfter != "70" {
		t.Fatalf("unexpected entry response: %+v", resp)
	}
	if resp.Date != "2026-01-03" {
		t.Fatalf("unexpected date: %s", resp.Date)
	}

	list := FromEntries([]*domain.Entry{entry})
	if len(list) != 1 || list[0].ID != entry.ID {
		t.Fatalf("FromEntries returned %+v", list)
	}
}

func TestFromConsistencyReport(t *testing.T) {
	report := &usecase.ConsistencyReport{
		PartyID:           1,
		Consistent:        false,
		StoredBalance:     decimal.RequireFromString("999"),
		ComputedBalance:   decimal.RequireFromString("70"),
		MismatchedEntries: []int64{4},
	}

	resp := FromConsistencyReport(report)
	if resp.Consistent || resp.StoredBalance != "999" || resp.ComputedBalance != "70" {
		t.Fatalf("unexpected consistency response: %+v", resp)
	}
	if len(resp.MismatchedEntries) != 1 || resp.MismatchedEntries[0] != 4 {
		t.Fatalf("unexpected mismatches: %v", resp.MismatchedEntries)
	}
}
