package handler

import (
	"context"
	"net/http"

	"github.com/iho/partybook/internal/adapter/http/dto"
	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
)

// LedgerService defines the balance-affecting operations the handler needs.
type LedgerService interface {
	AddEntry(ctx context.Context, input usecase.AddEntryInput) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput) error
	DeleteEntry(ctx context.Context, entryID, partyID int64) error
	DeleteParty(ctx context.Context, partyID int64) error
	Recalculate(ctx context.Context, partyID int64) (*usecase.RecalcSummary, error)
	VerifyParty(ctx context.Context, partyID int64) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles requests that mutate or audit a party's ledger.
type LedgerHandler struct {
	service LedgerService
	entries EntryService
	retrier usecase.Retrier
}

// NewLedgerHandler creates a new ledger handler. The retrier re-runs
// operations that lose a lock or serialization conflict; it may be nil.
func NewLedgerHandler(service LedgerService, entries EntryService, retrier usecase.Retrier) *LedgerHandler {
	return &LedgerHandler{service: service, entries: entries, retrier: retrier}
}

func (h *LedgerHandler) retry(ctx context.Context, operation func() error) error {
	if h.retrier == nil {
		return operation()
	}

	return h.retrier.Retry(ctx, operation)
}

// AddEntry handles POST /api/v1/parties/{partyID}/entries.
func (h *LedgerHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "partyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.EntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := req.ToAddInput(partyID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var entry *domain.Entry

	err = h.retry(r.Context(), func() error {
		var opErr error
		entry, opErr = h.service.AddEntry(r.Context(), input)

		return opErr
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromEntry(entry))
}

// UpdateEntry handles PUT /api/v1/parties/{partyID}/entries/{entryID}.
func (h *LedgerHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
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

	var req dto.EntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := req.ToUpdateInput(entryID, partyID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.retry(r.Context(), func() error {
		return h.service.UpdateEntry(r.Context(), input)
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	entry, err := h.entries.GetEntry(r.Context(), entryID, partyID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromEntry(entry))
}

// DeleteEntry handles DELETE /api/v1/parties/{partyID}/entries/{entryID}.
func (h *LedgerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
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

	err = h.retry(r.Context(), func() error {
		return h.service.DeleteEntry(r.Context(), entryID, partyID)
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// DeleteParty handles DELETE /api/v1/parties/{partyID}.
func (h *LedgerHandler) DeleteParty(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "partyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.retry(r.Context(), func() error {
		return h.service.DeleteParty(r.Context(), partyID)
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// Recalculate handles POST /api/v1/parties/{partyID}/recalculate.
func (h *LedgerHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "partyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var summary *usecase.RecalcSummary

	err = h.retry(r.Context(), func() error {
		var opErr error
		summary, opErr = h.service.Recalculate(r.Context(), partyID)

		return opErr
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculateResponse{
		PartyID:        summary.PartyID,
		Balance:        summary.Balance.String(),
		EntriesWritten: summary.EntriesWritten,
	})
}

// Verify handles GET /api/v1/parties/{partyID}/consistency.
func (h *LedgerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "partyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.VerifyParty(r.Context(), partyID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromConsistencyReport(report))
}
