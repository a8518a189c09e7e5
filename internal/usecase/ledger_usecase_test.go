package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
	"github.com/iho/partybook/internal/usecase/mocks"
)

type ledgerFixture struct {
	uc      *usecase.LedgerUseCase
	tx      *mocks.FakeTxManager
	parties *mocks.FakePartyRepository
	entries *mocks.FakeEntryRepository
	outbox  *mocks.FakeOutboxRepository
	cache   *mocks.FakeCache
	metrics *mocks.FakeMetrics
	party   *domain.Party
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		tx:      &mocks.FakeTxManager{},
		parties: mocks.NewFakePartyRepository(),
		entries: mocks.NewFakeEntryRepository(),
		outbox:  &mocks.FakeOutboxRepository{},
		cache:   mocks.NewFakeCache(),
		metrics: &mocks.FakeMetrics{},
	}

	f.party = f.parties.Seed(&domain.Party{
		Name:    "Ravi Traders",
		Type:    domain.PartyTypeCustomer,
		Balance: decimal.Zero,
	})

	f.uc = usecase.NewLedgerUseCase(f.tx, f.parties, f.entries, f.outbox, &mocks.FakeIDGenerator{}, f.cache, f.metrics)

	return f
}

func (f *ledgerFixture) addEntry(t *testing.T, dir domain.Direction, amount string, date time.Time) *domain.Entry {
	t.Helper()

	entry, err := f.uc.AddEntry(context.Background(), usecase.AddEntryInput{
		PartyID:   f.party.ID,
		Direction: dir,
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
	})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	return entry
}

func date(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestLedgerUseCase_AddEntry(t *testing.T) {
	f := newLedgerFixture()

	first := f.addEntry(t, domain.DirectionCredit, "100", date(1))

	if first.ID == 0 {
		t.Error("expected entry to get an id")
	}
	if got, want := first.BalanceAfter.String(), "100"; got != want {
		t.Errorf("balanceAfter = %s, want %s", got, want)
	}

	second := f.addEntry(t, domain.DirectionDebit, "30", date(3))

	if got, want := second.BalanceAfter.String(), "70"; got != want {
		t.Errorf("balanceAfter = %s, want %s", got, want)
	}
	if got, want := f.party.Balance.String(), "70"; got != want {
		t.Errorf("party balance = %s, want %s", got, want)
	}

	// Appending never rewrites entries that are already in place.
	if len(f.entries.BalanceAfterWrites) != 0 {
		t.Errorf("append rewrote %d existing entries, want 0", len(f.entries.BalanceAfterWrites))
	}

	if f.metrics.EntriesRecorded != 2 {
		t.Errorf("entries recorded = %d, want 2", f.metrics.EntriesRecorded)
	}
	if len(f.outbox.Events) != 2 {
		t.Fatalf("outbox events = %d, want 2", len(f.outbox.Events))
	}
	if f.outbox.Events[0].EventType != domain.EventTypeEntryAdded {
		t.Errorf("event type = %s, want %s", f.outbox.Events[0].EventType, domain.EventTypeEntryAdded)
	}
	if len(f.cache.Deletes) == 0 {
		t.Error("expected party cache invalidation")
	}
}

func TestLedgerUseCase_AddEntry_Backdated(t *testing.T) {
	f := newLedgerFixture()

	a := f.addEntry(t, domain.DirectionCredit, "100", date(1))
	b := f.addEntry(t, domain.DirectionDebit, "30", date(3))
	f.entries.ResetWrites()

	c := f.addEntry(t, domain.DirectionCredit, "20", date(2))

	if got, want := c.BalanceAfter.String(), "120"; got != want {
		t.Errorf("back-dated balanceAfter = %s, want %s", got, want)
	}
	if got, want := f.party.Balance.String(), "90"; got != want {
		t.Errorf("party balance = %s, want %s", got, want)
	}

	// Only the entry after the insertion point is rewritten.
	if len(f.entries.BalanceAfterWrites) != 1 || f.entries.BalanceAfterWrites[0] != b.ID {
		t.Fatalf("rewrote %v, want just entry %d", f.entries.BalanceAfterWrites, b.ID)
	}

	stored, err := f.entries.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := stored.BalanceAfter.String(), "100"; got != want {
		t.Errorf("earlier entry balanceAfter = %s, want %s", got, want)
	}

	storedB, err := f.entries.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := storedB.BalanceAfter.String(), "90"; got != want {
		t.Errorf("later entry balanceAfter = %s, want %s", got, want)
	}
}

func TestLedgerUseCase_DeleteBackdatedEntryRevertsLaterBalances(t *testing.T) {
	f := newLedgerFixture()

	f.addEntry(t, domain.DirectionCredit, "100", date(1))
	b := f.addEntry(t, domain.DirectionDebit, "30", date(3))
	c := f.addEntry(t, domain.DirectionCredit, "20", date(2))

	if err := f.uc.DeleteEntry(context.Background(), c.ID, f.party.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}

	storedB, err := f.entries.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := storedB.BalanceAfter.String(), "70"; got != want {
		t.Errorf("later entry balanceAfter = %s, want %s", got, want)
	}
	if got, want := f.party.Balance.String(), "70"; got != want {
		t.Errorf("party balance = %s, want %s", got, want)
	}
}

func TestLedgerUseCase_AddEntry_Validation(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.uc.AddEntry(context.Background(), usecase.AddEntryInput{
		PartyID:   f.party.ID,
		Direction: "sideways",
		Amount:    decimal.RequireFromString("10"),
		Date:      date(1),
	})
	if !errors.Is(err, domain.ErrInvalidDirection) {
		t.Errorf("got %v, want %v", err, domain.ErrInvalidDirection)
	}

	_, err = f.uc.AddEntry(context.Background(), usecase.AddEntryInput{
		PartyID:   f.party.ID,
		Direction: domain.DirectionCredit,
		Amount:    decimal.Zero,
		Date:      date(1),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("got %v, want %v", err, domain.ErrInvalidAmount)
	}

	// Validation failures never open a transaction.
	if f.tx.Began != 0 {
		t.Errorf("began %d transactions, want 0", f.tx.Began)
	}
}

func TestLedgerUseCase_AddEntry_PartyNotFound(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.uc.AddEntry(context.Background(), usecase.AddEntryInput{
		PartyID:   9999,
		Direction: domain.DirectionCredit,
		Amount:    decimal.RequireFromString("10"),
		Date:      date(1),
	})
	if !errors.Is(err, domain.ErrPartyNotFound) {
		t.Errorf("got %v, want %v", err, domain.ErrPartyNotFound)
	}

	if len(f.tx.Txs) != 1 || f.tx.Txs[0].Committed {
		t.Error("expected the transaction to roll back")
	}
}

func TestLedgerUseCase_Recalculate_RepairsAndConverges(t *testing.T) {
	f := newLedgerFixture()

	f.addEntry(t, domain.DirectionCredit, "100", date(1))
	b := f.addEntry(t, domain.DirectionDebit, "30", date(3))

	// Corrupt a stored running balance.
	b.BalanceAfter = decimal.RequireFromString("999")
	f.party.Balance = decimal.RequireFromString("999")
	f.entries.ResetWrites()

	summary, err := f.uc.Recalculate(context.Background(), f.party.ID)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}

	if got, want := summary.Balance.String(), "70"; got != want {
		t.Errorf("balance = %s, want %s", got, want)
	}
	if summary.EntriesWritten != 1 {
		t.Errorf("entries written = %d, want 1", summary.EntriesWritten)
	}

	// A second pass over consistent state writes nothing.
	summary, err = f.uc.Recalculate(context.Background(), f.party.ID)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if summary.EntriesWritten != 0 {
		t.Errorf("second pass wrote %d entries, want 0", summary.EntriesWritten)
	}
	if got, want := summary.Balance.String(), "70"; got != want {
		t.Errorf("balance = %s, want %s", got, want)
	}
}

func TestLedgerUseCase_DeleteEntry(t *testing.T) {
	f := newLedgerFixture()

	a := f.addEntry(t, domain.DirectionCredit, "100", date(1))
	b := f.addEntry(t, domain.DirectionDebit, "30", date(2))

	if err := f.uc.DeleteEntry(context.Background(), a.ID, f.party.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}

	if got, want := f.party.Balance.String(), "-30"; got != want {
		t.Errorf("party balance = %s, want %s", got, want)
	}

	stored, err := f.entries.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := stored.BalanceAfter.String(), "-30"; got != want {
		t.Errorf("remaining entry balanceAfter = %s, want %s", got, want)
	}

	// Deleting the only remaining entry returns the balance to zero.
	if err := f.uc.DeleteEntry(context.Background(), b.ID, f.party.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if !f.party.Balance.IsZero() {
		t.Errorf("party balance = %s, want 0", f.party.Balance)
	}
}

func TestLedgerUseCase_DeleteEntry_WrongParty(t *testing.T) {
	f := newLedgerFixture()
	other := f.parties.Seed(&domain.Party{Name: "Other", Type: domain.PartyTypeSupplier, Balance: decimal.Zero})

	a := f.addEntry(t, domain.DirectionCredit, "100", date(1))

	err := f.uc.DeleteEntry(context.Background(), a.ID, other.ID)
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("got %v, want %v", err, domain.ErrEntryNotFound)
	}

	if _, err := f.entries.GetByID(context.Background(), a.ID); err != nil {
		t.Error("entry should survive a mismatched delete")
	}
}

func TestLedgerUseCase_UpdateEntry(t *testing.T) {
	f := newLedgerFixture()

	a := f.addEntry(t, domain.DirectionCredit, "100", date(1))
	b := f.addEntry(t, domain.DirectionDebit, "30", date(2))

	err := f.uc.UpdateEntry(context.Background(), usecase.UpdateEntryInput{
		EntryID:   a.ID,
		PartyID:   f.party.ID,
		Direction: domain.DirectionCredit,
		Amount:    decimal.RequireFromString("50"),
		Date:      date(1),
	})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}

	if got, want := f.party.Balance.String(), "20"; got != want {
		t.Errorf("party balance = %s, want %s", got, want)
	}

	stored, err := f.entries.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := stored.BalanceAfter.String(), "20"; got != want {
		t.Errorf("later entry balanceAfter = %s, want %s", got, want)
	}
}

func TestLedgerUseCase_DeleteParty(t *testing.T) {
	f := newLedgerFixture()

	a := f.addEntry(t, domain.DirectionCredit, "100", date(1))

	if err := f.uc.DeleteParty(context.Background(), f.party.ID); err != nil {
		t.Fatalf("DeleteParty: %v", err)
	}

	if _, err := f.parties.GetByID(context.Background(), f.party.ID); !errors.Is(err, domain.ErrPartyNotFound) {
		t.Error("party should be gone")
	}
	if _, err := f.entries.GetByID(context.Background(), a.ID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Error("entries should cascade")
	}

	last := f.outbox.Events[len(f.outbox.Events)-1]
	if last.EventType != domain.EventTypePartyDeleted {
		t.Errorf("last event = %s, want %s", last.EventType, domain.EventTypePartyDeleted)
	}
}

func TestLedgerUseCase_VerifyParty(t *testing.T) {
	f := newLedgerFixture()

	f.addEntry(t, domain.DirectionCredit, "100", date(1))
	b := f.addEntry(t, domain.DirectionDebit, "30", date(2))

	report, err := f.uc.VerifyParty(context.Background(), f.party.ID)
	if err != nil {
		t.Fatalf("VerifyParty: %v", err)
	}
	if !report.Consistent {
		t.Errorf("expected consistent report, got %+v", report)
	}

	// Corrupt a stored balance; verification must flag it without fixing it.
	b.BalanceAfter = decimal.RequireFromString("999")
	f.entries.ResetWrites()

	report, err = f.uc.VerifyParty(context.Background(), f.party.ID)
	if err != nil {
		t.Fatalf("VerifyParty: %v", err)
	}
	if report.Consistent {
		t.Error("expected inconsistent report")
	}
	if len(report.MismatchedEntries) != 1 || report.MismatchedEntries[0] != b.ID {
		t.Errorf("mismatched entries = %v, want [%d]", report.MismatchedEntries, b.ID)
	}
	if len(f.entries.BalanceAfterWrites) != 0 {
		t.Error("verification must not write")
	}
	if got, want := report.StoredBalance.String(), "70"; got != want {
		t.Errorf("stored balance = %s, want %s", got, want)
	}
}
