package handler

import (
	"context"
	"net/http"

	"github.com/iho/partybook/internal/adapter/http/dto"
	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
)

// PartyService defines the party operations the handler needs.
type PartyService interface {
	CreateParty(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error)
	GetParty(ctx context.Context, id int64) (*domain.Party, error)
	ListParties(ctx context.Context, input usecase.ListPartiesInput) ([]*domain.Party, error)
	SearchParties(ctx context.Context, query string, limit, offset int) ([]*domain.Party, error)
	UpdateParty(ctx context.Context, input usecase.UpdatePartyInput) error
}

// PartyHandler handles party HTTP requests.
type PartyHandler struct {
	service PartyService
}

// NewPartyHandler creates a new party handler.
func NewPartyHandler(service PartyService) *PartyHandler {
	return &PartyHandler{service: service}
}

// Create handles POST /api/v1/parties.
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePartyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	party, err := h.service.CreateParty(r.Context(), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromParty(party))
}

// Get handles GET /api/v1/parties/{partyID}.
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "partyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	party, err := h.service.GetParty(r.Context(), id)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromParty(party))
}

// List handles GET /api/v1/parties.
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListPartiesInput{
		Limit:  parseIntQuery(r, "limit", usecase.DefaultPageSize),
		Offset: parseIntQuery(r, "offset", 0),
	}

	parties, err := h.service.ListParties(r.Context(), input)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromParties(parties))
}

// Search handles GET /api/v1/parties/search?q=...
func (h *PartyHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := parseIntQuery(r, "limit", usecase.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	parties, err := h.service.SearchParties(r.Context(), query, limit, offset)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromParties(parties))
}

// Update handles PUT /api/v1/parties/{partyID}.
func (h *PartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "partyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.UpdatePartyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UpdateParty(r.Context(), req.ToUseCaseInput(id)); err != nil {
		mapDomainError(w, err)
		return
	}

	party, err := h.service.GetParty(r.Context(), id)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromParty(party))
}
