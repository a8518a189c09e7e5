package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partybook/internal/domain"
)

// PartyUseCase handles party business logic outside the recalculation engine:
// creation, reads, detail edits, and search.
type PartyUseCase struct {
	txManager  TransactionManager
	partyRepo  PartyRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	cache      Cache
	metrics    MetricsRecorder
}

// NewPartyUseCase creates a new PartyUseCase. Cache and metrics are optional.
func NewPartyUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	metrics MetricsRecorder,
) *PartyUseCase {
	return &PartyUseCase{
		txManager:  txManager,
		partyRepo:  partyRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		cache:      cache,
		metrics:    metrics,
	}
}

// CreatePartyInput represents input for creating a party.
type CreatePartyInput struct {
	Name  string
	Phone string
	Type  domain.PartyType
}

// CreateParty creates a new party with a zero balance.
func (uc *PartyUseCase) CreateParty(ctx context.Context, input CreatePartyInput) (*domain.Party, error) {
	if err := domain.ValidatePartyName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidatePhone(input.Phone); err != nil {
		return nil, err
	}

	if !input.Type.Valid() {
		return nil, domain.ErrInvalidPartyType
	}

	now := time.Now().UTC()

	party := &domain.Party{
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		Type:      input.Type,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.partyRepo.Create(ctx, tx, party); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   strconv.FormatInt(party.ID, 10),
		AggregateType: domain.AggregateTypeParty,
		EventType:     domain.EventTypePartyCreated,
		Payload: map[string]any{
			"party_id": party.ID,
			"name":     party.Name,
			"type":     string(party.Type),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PartyCreated()
	}

	return party, nil
}

// GetParty retrieves a party by id, served from cache when possible.
func (uc *PartyUseCase) GetParty(ctx context.Context, id int64) (*domain.Party, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, PartyCacheKey(id)); err == nil {
			var party domain.Party
			if err := json.Unmarshal([]byte(cached), &party); err == nil {
				return &party, nil
			}
		}
	}

	party, err := uc.partyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(party); err == nil {
			// Best effort: cache misses fall through to the repository.
			_ = uc.cache.Set(ctx, PartyCacheKey(id), string(raw), PartyCacheTTL)
		}
	}

	return party, nil
}

// ListPartiesInput represents input for listing parties.
type ListPartiesInput struct {
	Limit  int
	Offset int
}

// ListParties lists parties with pagination.
func (uc *PartyUseCase) ListParties(ctx context.Context, input ListPartiesInput) ([]*domain.Party, error) {
	limit := clampLimit(input.Limit)

	return uc.partyRepo.List(ctx, limit, input.Offset)
}

// SearchParties finds parties whose name or phone matches the query. Phone is
// the secondary search key.
func (uc *PartyUseCase) SearchParties(ctx context.Context, query string, limit, offset int) ([]*domain.Party, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Party{}, nil
	}

	return uc.partyRepo.Search(ctx, query, clampLimit(limit), offset)
}

// UpdatePartyInput represents input for editing party details. Balance is not
// editable here; it belongs to the recalculation engine.
type UpdatePartyInput struct {
	Name    string
	Phone   string
	Type    domain.PartyType
	PartyID int64
}

// UpdateParty edits the party's display details.
func (uc *PartyUseCase) UpdateParty(ctx context.Context, input UpdatePartyInput) error {
	if err := domain.ValidatePartyName(input.Name); err != nil {
		return err
	}

	if err := domain.ValidatePhone(input.Phone); err != nil {
		return err
	}

	if !input.Type.Valid() {
		return domain.ErrInvalidPartyType
	}

	err := uc.partyRepo.UpdateDetails(ctx, input.PartyID,
		strings.TrimSpace(input.Name), strings.TrimSpace(input.Phone), input.Type, time.Now().UTC())
	if err != nil {
		return err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, PartyCacheKey(input.PartyID))
	}

	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}

	if limit > MaxPageSize {
		return MaxPageSize
	}

	return limit
}
