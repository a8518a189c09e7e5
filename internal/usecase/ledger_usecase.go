package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partybook/internal/domain"
)

// LedgerUseCase is the balance-recalculation engine. Every mutation of a
// party's entries goes through it: the engine re-reads the authoritative
// entry set inside a transaction that locks the party row, replays the
// chronological timeline, and writes back only the fields that changed.
type LedgerUseCase struct {
	txManager  TransactionManager
	partyRepo  PartyRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	cache      Cache
	metrics    MetricsRecorder
}

// NewLedgerUseCase creates a new LedgerUseCase. Cache and metrics are
// optional.
func NewLedgerUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	metrics MetricsRecorder,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:  txManager,
		partyRepo:  partyRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		cache:      cache,
		metrics:    metrics,
	}
}

// RecalcSummary reports the outcome of a full recalculation pass.
type RecalcSummary struct {
	Balance        decimal.Decimal
	PartyID        int64
	EntriesWritten int
}

// Recalculate re-derives the party's entry balances and aggregate balance
// from the currently stored entries. It returns once the party's balance and
// every entry's balanceAfter are consistent.
func (uc *LedgerUseCase) Recalculate(ctx context.Context, partyID int64) (*RecalcSummary, error) {
	start := time.Now()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, partyID)
	if err != nil {
		return nil, err
	}

	_, written, err := uc.recalculateLocked(ctx, tx, party, nil)
	if err != nil {
		return nil, err
	}

	event := uc.newEvent(domain.EventTypeBalanceRecalculated, domain.AggregateTypeParty, partyID, map[string]any{
		"party_id":        partyID,
		"balance":         party.Balance.String(),
		"entries_updated": written,
	})
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateParty(ctx, partyID)
	uc.observeRecalc(start, written)

	return &RecalcSummary{
		PartyID:        partyID,
		Balance:        party.Balance,
		EntriesWritten: written,
	}, nil
}

// AddEntryInput represents input for adding a new entry to a party's ledger.
type AddEntryInput struct {
	Date      time.Time
	Direction domain.Direction
	Note      string
	Amount    decimal.Decimal
	PartyID   int64
}

// AddEntry ranks a new candidate entry on the party's timeline, persists it
// with its computed balanceAfter, and adjusts every later entry within one
// transaction, so insertion and backfill are never observably separate.
func (uc *LedgerUseCase) AddEntry(ctx context.Context, input AddEntryInput) (*domain.Entry, error) {
	draft := &domain.EntryDraft{
		PartyID:   input.PartyID,
		Direction: input.Direction,
		Amount:    input.Amount,
		Date:      input.Date,
		Note:      input.Note,
		CreatedAt: time.Now().UTC(),
	}

	if err := domain.ValidateDraft(draft); err != nil {
		return nil, err
	}

	start := time.Now()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, input.PartyID)
	if err != nil {
		return nil, err
	}

	created, written, err := uc.recalculateLocked(ctx, tx, party, draft)
	if err != nil {
		return nil, err
	}

	event := uc.newEvent(domain.EventTypeEntryAdded, domain.AggregateTypeEntry, created.ID, map[string]any{
		"entry_id":      created.ID,
		"party_id":      created.PartyID,
		"direction":     string(created.Direction),
		"amount":        created.Amount.String(),
		"date":          created.Date.Format("2006-01-02"),
		"balance_after": created.BalanceAfter.String(),
	})
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateParty(ctx, input.PartyID)
	uc.observeRecalc(start, written)

	if uc.metrics != nil {
		uc.metrics.EntryCreated()
	}

	return created, nil
}

// UpdateEntryInput represents input for editing an existing entry.
type UpdateEntryInput struct {
	Date      time.Time
	Direction domain.Direction
	Note      string
	Amount    decimal.Decimal
	EntryID   int64
	PartyID   int64
}

// UpdateEntry applies the field changes to the entry and recalculates the
// party's ledger in the same transaction.
func (uc *LedgerUseCase) UpdateEntry(ctx context.Context, input UpdateEntryInput) error {
	draft := &domain.EntryDraft{
		PartyID:   input.PartyID,
		Direction: input.Direction,
		Amount:    input.Amount,
		Date:      input.Date,
		Note:      input.Note,
		CreatedAt: time.Now().UTC(),
	}
	if err := domain.ValidateDraft(draft); err != nil {
		return err
	}

	start := time.Now()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, input.PartyID)
	if err != nil {
		return err
	}

	err = uc.entryRepo.UpdateDetails(ctx, tx, input.EntryID, input.PartyID, input.Direction, input.Amount, input.Date, input.Note)
	if err != nil {
		return err
	}

	_, written, err := uc.recalculateLocked(ctx, tx, party, nil)
	if err != nil {
		return err
	}

	event := uc.newEvent(domain.EventTypeEntryUpdated, domain.AggregateTypeEntry, input.EntryID, map[string]any{
		"entry_id": input.EntryID,
		"party_id": input.PartyID,
	})
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateParty(ctx, input.PartyID)
	uc.observeRecalc(start, written)

	return nil
}

// DeleteEntry removes the entry and recalculates every later entry's
// balanceAfter and the party aggregate in the same transaction.
func (uc *LedgerUseCase) DeleteEntry(ctx context.Context, entryID, partyID int64) error {
	start := time.Now()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, partyID)
	if err != nil {
		return err
	}

	if err := uc.entryRepo.Delete(ctx, tx, entryID, partyID); err != nil {
		return err
	}

	_, written, err := uc.recalculateLocked(ctx, tx, party, nil)
	if err != nil {
		return err
	}

	event := uc.newEvent(domain.EventTypeEntryDeleted, domain.AggregateTypeEntry, entryID, map[string]any{
		"entry_id": entryID,
		"party_id": partyID,
		"balance":  party.Balance.String(),
	})
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateParty(ctx, partyID)
	uc.observeRecalc(start, written)

	return nil
}

// DeleteParty removes the party and cascades to all its entries atomically.
func (uc *LedgerUseCase) DeleteParty(ctx context.Context, partyID int64) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, partyID); err != nil {
		return err
	}

	if err := uc.entryRepo.DeleteByParty(ctx, tx, partyID); err != nil {
		return err
	}

	if err := uc.partyRepo.Delete(ctx, tx, partyID); err != nil {
		return err
	}

	event := uc.newEvent(domain.EventTypePartyDeleted, domain.AggregateTypeParty, partyID, map[string]any{
		"party_id": partyID,
	})
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateParty(ctx, partyID)

	return nil
}

// ConsistencyReport describes how a party's stored balances compare against a
// fresh recomputation.
type ConsistencyReport struct {
	StoredBalance     decimal.Decimal `json:"stored_balance"`
	ComputedBalance   decimal.Decimal `json:"computed_balance"`
	MismatchedEntries []int64         `json:"mismatched_entries,omitempty"`
	PartyID           int64           `json:"party_id"`
	Consistent        bool            `json:"consistent"`
}

// VerifyParty checks the party's stored balanceAfter chain and aggregate
// balance against a fresh recomputation without writing anything.
func (uc *LedgerUseCase) VerifyParty(ctx context.Context, partyID int64) (*ConsistencyReport, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// Read-only pass: always roll back.
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, partyID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListAllByParty(ctx, tx, partyID)
	if err != nil {
		return nil, err
	}

	res := domain.BuildTimeline(entries, nil).Recalculate()

	report := &ConsistencyReport{
		PartyID:         partyID,
		StoredBalance:   party.Balance,
		ComputedBalance: res.Balance,
	}

	for _, upd := range res.Updates {
		report.MismatchedEntries = append(report.MismatchedEntries, upd.EntryID)
	}

	report.Consistent = party.Balance.Equal(res.Balance) && len(report.MismatchedEntries) == 0

	return report, nil
}

// recalculateLocked replays the party's full timeline and reconciles stored
// state with it. The party row must already be locked by tx. When draft is
// non-nil it is ranked on the timeline and persisted with its computed
// balanceAfter. Returns the created entry (if any) and the number of entry
// rows written.
func (uc *LedgerUseCase) recalculateLocked(ctx context.Context, tx Transaction, party *domain.Party, draft *domain.EntryDraft) (*domain.Entry, int, error) {
	entries, err := uc.entryRepo.ListAllByParty(ctx, tx, party.ID)
	if err != nil {
		return nil, 0, err
	}

	res := domain.BuildTimeline(entries, draft).Recalculate()

	for _, upd := range res.Updates {
		if err := uc.entryRepo.UpdateBalanceAfter(ctx, tx, upd.EntryID, upd.BalanceAfter); err != nil {
			return nil, 0, err
		}
	}

	written := len(res.Updates)

	var created *domain.Entry
	if draft != nil {
		created, err = uc.entryRepo.Insert(ctx, tx, draft, res.DraftBalance)
		if err != nil {
			return nil, 0, err
		}

		written++
	}

	if !party.Balance.Equal(res.Balance) {
		now := time.Now().UTC()
		if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, res.Balance, now); err != nil {
			return nil, 0, err
		}

		party.Balance = res.Balance
		party.UpdatedAt = now
	}

	return created, written, nil
}

func (uc *LedgerUseCase) newEvent(eventType, aggregateType string, aggregateID int64, payload map[string]any) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   strconv.FormatInt(aggregateID, 10),
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}

func (uc *LedgerUseCase) invalidateParty(ctx context.Context, partyID int64) {
	if uc.cache == nil {
		return
	}

	// Best effort: a stale cache entry expires on its own TTL.
	_ = uc.cache.Delete(ctx, PartyCacheKey(partyID))
}

func (uc *LedgerUseCase) observeRecalc(start time.Time, written int) {
	if uc.metrics != nil {
		uc.metrics.ObserveRecalculation(time.Since(start), written)
	}
}

// PartyCacheKey is the cache key for a party read.
func PartyCacheKey(partyID int64) string {
	return fmt.Sprintf("party:%d", partyID)
}
