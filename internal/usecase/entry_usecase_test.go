package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
	"github.com/iho/partybook/internal/usecase/mocks"
)

func TestEntryUseCase_GetEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEntryRepository(ctrl)
	uc := usecase.NewEntryUseCase(repo)

	repo.EXPECT().
		GetByID(gomock.Any(), int64(7)).
		Return(&domain.Entry{ID: 7, PartyID: 1}, nil)

	entry, err := uc.GetEntry(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if entry.ID != 7 {
		t.Errorf("entry id = %d, want 7", entry.ID)
	}
}

func TestEntryUseCase_GetEntry_PartyMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEntryRepository(ctrl)
	uc := usecase.NewEntryUseCase(repo)

	repo.EXPECT().
		GetByID(gomock.Any(), int64(7)).
		Return(&domain.Entry{ID: 7, PartyID: 2}, nil)

	_, err := uc.GetEntry(context.Background(), 7, 1)
	if !errors.Is(err, domain.ErrEntryPartyMismatch) {
		t.Errorf("got %v, want %v", err, domain.ErrEntryPartyMismatch)
	}
}

func TestEntryUseCase_GetEntry_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEntryRepository(ctrl)
	uc := usecase.NewEntryUseCase(repo)

	repo.EXPECT().
		GetByID(gomock.Any(), int64(7)).
		Return(nil, domain.ErrEntryNotFound)

	_, err := uc.GetEntry(context.Background(), 7, 1)
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("got %v, want %v", err, domain.ErrEntryNotFound)
	}
}

func TestEntryUseCase_ListEntriesByParty_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEntryRepository(ctrl)
	uc := usecase.NewEntryUseCase(repo)

	repo.EXPECT().
		ListByParty(gomock.Any(), int64(1), usecase.DefaultPageSize, 0).
		Return([]*domain.Entry{}, nil)

	if _, err := uc.ListEntriesByParty(context.Background(), usecase.ListEntriesInput{PartyID: 1}); err != nil {
		t.Fatalf("ListEntriesByParty: %v", err)
	}

	repo.EXPECT().
		ListByParty(gomock.Any(), int64(1), usecase.MaxPageSize, 0).
		Return([]*domain.Entry{}, nil)

	input := usecase.ListEntriesInput{PartyID: 1, Limit: usecase.MaxPageSize * 3}
	if _, err := uc.ListEntriesByParty(context.Background(), input); err != nil {
		t.Fatalf("ListEntriesByParty: %v", err)
	}
}
