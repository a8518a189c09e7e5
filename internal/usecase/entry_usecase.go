package usecase

import (
	"context"

	"github.com/iho/partybook/internal/domain"
)

// EntryUseCase handles the read side of ledger entries.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{
		entryRepo: entryRepo,
	}
}

// ListEntriesInput represents input for listing a party's entries.
type ListEntriesInput struct {
	PartyID int64
	Limit   int
	Offset  int
}

// ListEntriesByParty lists a party's entries in chronological order.
func (uc *EntryUseCase) ListEntriesByParty(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	return uc.entryRepo.ListByParty(ctx, input.PartyID, clampLimit(input.Limit), input.Offset)
}

// GetEntry retrieves an entry and checks that it belongs to the given party.
func (uc *EntryUseCase) GetEntry(ctx context.Context, entryID, partyID int64) (*domain.Entry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if entry.PartyID != partyID {
		return nil, domain.ErrEntryPartyMismatch
	}

	return entry, nil
}
