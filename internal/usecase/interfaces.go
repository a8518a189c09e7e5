package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partybook/internal/domain"
)

// PartyRepository defines data access for parties.
type PartyRepository interface {
	Create(ctx context.Context, tx Transaction, party *domain.Party) error
	GetByID(ctx context.Context, id int64) (*domain.Party, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Party, error)
	UpdateBalance(ctx context.Context, tx Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error
	UpdateDetails(ctx context.Context, id int64, name, phone string, partyType domain.PartyType, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id int64) error
	List(ctx context.Context, limit, offset int) ([]*domain.Party, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*domain.Party, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Entry, error)
	// ListByParty returns a page of a party's entries in chronological order.
	ListByParty(ctx context.Context, partyID int64, limit, offset int) ([]*domain.Entry, error)
	// ListAllByParty returns the party's full entry set inside the given
	// transaction, in no particular order.
	ListAllByParty(ctx context.Context, tx Transaction, partyID int64) ([]*domain.Entry, error)
	Insert(ctx context.Context, tx Transaction, draft *domain.EntryDraft, balanceAfter decimal.Decimal) (*domain.Entry, error)
	UpdateBalanceAfter(ctx context.Context, tx Transaction, id int64, balanceAfter decimal.Decimal) error
	UpdateDetails(ctx context.Context, tx Transaction, id, partyID int64, direction domain.Direction, amount decimal.Decimal, date time.Time, note string) error
	Delete(ctx context.Context, tx Transaction, id, partyID int64) error
	DeleteByParty(ctx context.Context, tx Transaction, partyID int64) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs for outbox events.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Retrier re-runs an operation on transient store failures. The engine never
// retries on its own; retrying is caller policy, since a retry simply
// re-reads fresh state and reconverges.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// MetricsRecorder receives engine-level measurements.
type MetricsRecorder interface {
	ObserveRecalculation(duration time.Duration, entriesWritten int)
	PartyCreated()
	EntryCreated()
}
