package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/partybook/internal/adapter/http/dto"
	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
)

type partyServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error)
	getFn    func(ctx context.Context, id int64) (*domain.Party, error)
	listFn   func(ctx context.Context, input usecase.ListPartiesInput) ([]*domain.Party, error)
	searchFn func(ctx context.Context, query string, limit, offset int) ([]*domain.Party, error)
	updateFn func(ctx context.Context, input usecase.UpdatePartyInput) error
}

func (s *partyServiceStub) CreateParty(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error) {
	return s.createFn(ctx, input)
}

func (s *partyServiceStub) GetParty(ctx context.Context, id int64) (*domain.Party, error) {
	return s.getFn(ctx, id)
}

func (s *partyServiceStub) ListParties(ctx context.Context, input usecase.ListPartiesInput) ([]*domain.Party, error) {
	return s.listFn(ctx, input)
}

func (s *partyServiceStub) SearchParties(ctx context.Context, query string, limit, offset int) ([]*domain.Party, error) {
	return s.searchFn(ctx, query, limit, offset)
}

func (s *partyServiceStub) UpdateParty(ctx context.Context, input usecase.UpdatePartyInput) error {
	return s.updateFn(ctx, input)
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func TestPartyHandler_Create_Success(t *testing.T) {
	party := &domain.Party{
		ID:      1,
		Name:    "Ravi Traders",
		Type:    domain.PartyTypeCustomer,
		Balance: decimal.Zero,
	}

	var captured usecase.CreatePartyInput
	handler := NewPartyHandler(&partyServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error) {
			captured = input
			return party, nil
		},
	})

	body, _ := json.Marshal(dto.CreatePartyRequest{
		Name:  "Ravi Traders",
		Phone: "9876543210",
		Type:  "customer",
	})

	req := httptest.NewRequest(http.MethodPost, "/parties", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Name != "Ravi Traders" || captured.Type != domain.PartyTypeCustomer {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.PartyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 || resp.Balance != "0" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPartyHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewPartyHandler(&partyServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error) {
			t.Fatal("CreateParty should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/parties", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPartyHandler_Create_ValidationError(t *testing.T) {
	handler := NewPartyHandler(&partyServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error) {
			return nil, domain.ErrInvalidPartyType
		},
	})

	body, _ := json.Marshal(dto.CreatePartyRequest{Name: "X", Type: "vendor"})
	req := httptest.NewRequest(http.MethodPost, "/parties", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPartyHandler_Get(t *testing.T) {
	handler := NewPartyHandler(&partyServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Party, error) {
			if id != 42 {
				t.Fatalf("expected id 42, got %d", id)
			}
			return &domain.Party{ID: 42, Name: "X", Type: domain.PartyTypeCustomer, Balance: decimal.Zero}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/parties/42", nil)
	req = setChiURLParam(req, "partyID", "42")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPartyHandler_Get_NotFound(t *testing.T) {
	handler := NewPartyHandler(&partyServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Party, error) {
			return nil, domain.ErrPartyNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/parties/42", nil)
	req = setChiURLParam(req, "partyID", "42")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPartyHandler_Get_BadID(t *testing.T) {
	handler := NewPartyHandler(&partyServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Party, error) {
			t.Fatal("GetParty should not be called for a bad id")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/parties/abc", nil)
	req = setChiURLParam(req, "partyID", "abc")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPartyHandler_List(t *testing.T) {
	handler := NewPartyHandler(&partyServiceStub{
		listFn: func(ctx context.Context, input usecase.ListPartiesInput) ([]*domain.Party, error) {
			if input.Limit != 5 || input.Offset != 2 {
				t.Fatalf("expected limit=5 offset=2, got %+v", input)
			}
			return []*domain.Party{
				{ID: 1, Balance: decimal.Zero},
				{ID: 2, Balance: decimal.Zero},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/parties?limit=5&offset=2", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.PartyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 parties, got %d", len(resp))
	}
}

func TestPartyHandler_Search(t *testing.T) {
	handler := NewPartyHandler(&partyServiceStub{
		searchFn: func(ctx context.Context, query string, limit, offset int) ([]*domain.Party, error) {
			if query != "ravi" {
				t.Fatalf("expected query ravi, got %q", query)
			}
			return []*domain.Party{{ID: 1, Name: "Ravi Traders", Balance: decimal.Zero}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/parties/search?q=ravi", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPartyHandler_Update(t *testing.T) {
	handler := NewPartyHandler(&partyServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdatePartyInput) error {
			if input.PartyID != 42 || input.Name != "New Name" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return nil
		},
		getFn: func(ctx context.Context, id int64) (*domain.Party, error) {
			return &domain.Party{ID: 42, Name: "New Name", Type: domain.PartyTypeCustomer, Balance: decimal.Zero}, nil
		},
	})

	body, _ := json.Marshal(dto.UpdatePartyRequest{Name: "New Name", Type: "customer"})
	req := httptest.NewRequest(http.MethodPut, "/parties/42", bytes.NewReader(body))
	req = setChiURLParam(req, "partyID", "42")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPartyHandler_Update_ServiceError(t *testing.T) {
	handler := NewPartyHandler(&partyServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdatePartyInput) error {
			return errors.New("db error")
		},
	})

	body, _ := json.Marshal(dto.UpdatePartyRequest{Name: "X", Type: "customer"})
	req := httptest.NewRequest(http.MethodPut, "/parties/42", bytes.NewReader(body))
	req = setChiURLParam(req, "partyID", "42")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
