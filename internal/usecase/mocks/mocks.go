package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
)

// FakeTransaction is a no-op transaction that records its outcome.
type FakeTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *FakeTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *FakeTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// FakeTxManager hands out FakeTransactions.
type FakeTxManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu    sync.Mutex
	Txs   []*FakeTransaction
	Began int
}

func (m *FakeTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Began++
	tx := &FakeTransaction{}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

// FakePartyRepository is an in-memory implementation of PartyRepository.
type FakePartyRepository struct {
	mu      sync.RWMutex
	parties map[int64]*domain.Party
	nextID  int64

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, party *domain.Party) error
	GetByIDFunc          func(ctx context.Context, id int64) (*domain.Party, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Party, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error

	BalanceWrites int
}

func NewFakePartyRepository() *FakePartyRepository {
	return &FakePartyRepository{parties: make(map[int64]*domain.Party)}
}

// Seed stores a party directly, assigning an id when it has none.
func (m *FakePartyRepository) Seed(party *domain.Party) *domain.Party {
	m.mu.Lock()
	defer m.mu.Unlock()
	if party.ID == 0 {
		m.nextID++
		party.ID = m.nextID
	} else if party.ID > m.nextID {
		m.nextID = party.ID
	}
	m.parties[party.ID] = party
	return party
}

func (m *FakePartyRepository) Create(ctx context.Context, tx usecase.Transaction, party *domain.Party) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, party)
	}
	m.Seed(party)
	return nil
}

func (m *FakePartyRepository) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.parties[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPartyNotFound
}

func (m *FakePartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Party, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *FakePartyRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BalanceWrites++
	if p, ok := m.parties[id]; ok {
		p.Balance = balance
		p.UpdatedAt = updatedAt
	}
	return nil
}

func (m *FakePartyRepository) UpdateDetails(ctx context.Context, id int64, name, phone string, partyType domain.PartyType, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok {
		return domain.ErrPartyNotFound
	}
	p.Name = name
	p.Phone = phone
	p.Type = partyType
	p.UpdatedAt = updatedAt
	return nil
}

func (m *FakePartyRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.parties[id]; !ok {
		return domain.ErrPartyNotFound
	}
	delete(m.parties, id)
	return nil
}

func (m *FakePartyRepository) List(ctx context.Context, limit, offset int) ([]*domain.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var parties []*domain.Party
	for _, p := range m.parties {
		parties = append(parties, p)
	}
	return parties, nil
}

func (m *FakePartyRepository) Search(ctx context.Context, query string, limit, offset int) ([]*domain.Party, error) {
	return m.List(ctx, limit, offset)
}

// FakeEntryRepository is an in-memory implementation of EntryRepository. It
// counts balance_after writes so tests can assert how many rows a
// recalculation touched.
type FakeEntryRepository struct {
	mu      sync.RWMutex
	entries map[int64]*domain.Entry
	nextID  int64

	InsertFunc         func(ctx context.Context, tx usecase.Transaction, draft *domain.EntryDraft, balanceAfter decimal.Decimal) (*domain.Entry, error)
	ListAllByPartyFunc func(ctx context.Context, tx usecase.Transaction, partyID int64) ([]*domain.Entry, error)

	BalanceAfterWrites []int64
}

func NewFakeEntryRepository() *FakeEntryRepository {
	return &FakeEntryRepository{entries: make(map[int64]*domain.Entry)}
}

// Seed stores an entry directly, assigning an id when it has none.
func (m *FakeEntryRepository) Seed(entry *domain.Entry) *domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == 0 {
		m.nextID++
		entry.ID = m.nextID
	} else if entry.ID > m.nextID {
		m.nextID = entry.ID
	}
	m.entries[entry.ID] = entry
	return entry
}

// ResetWrites clears the recorded balance_after write log.
func (m *FakeEntryRepository) ResetWrites() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BalanceAfterWrites = nil
}

func (m *FakeEntryRepository) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *FakeEntryRepository) ListByParty(ctx context.Context, partyID int64, limit, offset int) ([]*domain.Entry, error) {
	entries, _ := m.ListAllByParty(ctx, nil, partyID)
	tl := domain.BuildTimeline(entries, nil)

	ordered := make([]*domain.Entry, 0, len(tl))
	for _, item := range tl {
		ordered = append(ordered, item.Entry)
	}

	if offset >= len(ordered) {
		return []*domain.Entry{}, nil
	}
	end := offset + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[offset:end], nil
}

func (m *FakeEntryRepository) ListAllByParty(ctx context.Context, tx usecase.Transaction, partyID int64) ([]*domain.Entry, error) {
	if m.ListAllByPartyFunc != nil {
		return m.ListAllByPartyFunc(ctx, tx, partyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.PartyID == partyID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *FakeEntryRepository) Insert(ctx context.Context, tx usecase.Transaction, draft *domain.EntryDraft, balanceAfter decimal.Decimal) (*domain.Entry, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, draft, balanceAfter)
	}
	entry := &domain.Entry{
		PartyID:      draft.PartyID,
		Direction:    draft.Direction,
		Amount:       draft.Amount,
		Date:         draft.Date,
		Note:         draft.Note,
		BalanceAfter: balanceAfter,
		CreatedAt:    draft.CreatedAt,
	}
	return m.Seed(entry), nil
}

func (m *FakeEntryRepository) UpdateBalanceAfter(ctx context.Context, tx usecase.Transaction, id int64, balanceAfter decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.BalanceAfter = balanceAfter
	m.BalanceAfterWrites = append(m.BalanceAfterWrites, id)
	return nil
}

func (m *FakeEntryRepository) UpdateDetails(ctx context.Context, tx usecase.Transaction, id, partyID int64, direction domain.Direction, amount decimal.Decimal, date time.Time, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.PartyID != partyID {
		return domain.ErrEntryNotFound
	}
	e.Direction = direction
	e.Amount = amount
	e.Date = date
	e.Note = note
	return nil
}

func (m *FakeEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id, partyID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.PartyID != partyID {
		return domain.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *FakeEntryRepository) DeleteByParty(ctx context.Context, tx usecase.Transaction, partyID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		if e.PartyID == partyID {
			delete(m.entries, id)
		}
	}
	return nil
}

// FakeOutboxRepository records created events in memory.
type FakeOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func (m *FakeOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *FakeOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *FakeOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *FakeOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

// FakeIDGenerator returns sequential ids.
type FakeIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *FakeIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return "01TESTULID" + string(rune('A'+g.n%26)) + "000000000000000"
}

// FakeCache is an in-memory Cache.
type FakeCache struct {
	mu   sync.RWMutex
	data map[string]string

	Deletes []string
}

func NewFakeCache() *FakeCache {
	return &FakeCache{data: make(map[string]string)}
}

func (c *FakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", domain.ErrPartyNotFound
}

func (c *FakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *FakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.Deletes = append(c.Deletes, key)
	return nil
}

// FakeMetrics counts recorder calls.
type FakeMetrics struct {
	mu              sync.Mutex
	Recalculations  int
	EntriesWritten  int
	PartiesCreated  int
	EntriesRecorded int
}

func (m *FakeMetrics) ObserveRecalculation(duration time.Duration, entriesWritten int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recalculations++
	m.EntriesWritten += entriesWritten
}

func (m *FakeMetrics) PartyCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PartiesCreated++
}

func (m *FakeMetrics) EntryCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesRecorded++
}
