package handler

import (
	"context"
	"net/http"

	"github.com/iho/partybook/internal/adapter/http/dto"
	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
)

// EntryService defines the read-side entry operations the handler needs.
type EntryService interface {
	ListEntriesByParty(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error)
	GetEntry(ctx context.Context, entryID, partyID int64) (*domain.Entry, error)
}

// EntryHandler handles entry read requests.
type EntryHandler struct {
	service EntryService
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(service EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// ListByParty handles GET /api/v1/parties/{partyID}/entries.
func (h *EntryHandler) ListByParty(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "partyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := usecase.ListEntriesInput{
		PartyID: partyID,
		Limit:   parseIntQuery(r, "limit", usecase.DefaultPageSize),
		Offset:  parseIntQuery(r, "offset", 0),
	}

	entries, err := h.service.ListEntriesByParty(r.Context(), input)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromEntries(entries))
}

// Get handles GET /api/v1/parties/{partyID}/entries/{entryID}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "partyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entryID, err := parseIDParam(r, "entryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.service.GetEntry(r.Context(), entryID, partyID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromEntry(entry))
}
