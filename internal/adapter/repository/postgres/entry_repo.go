package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/partybook/internal/domain"
	"github.com/iho/partybook/internal/usecase"
)

const entryColumns = "id, party_id, direction, amount, entry_date, note, balance_after, created_at"

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// GetByID retrieves an entry by id.
func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)

	return scanEntry(row)
}

// ListByParty returns a page of a party's entries in canonical chronological
// order.
func (r *EntryRepository) ListByParty(ctx context.Context, partyID int64, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE party_id = $1
		 ORDER BY entry_date, created_at, id
		 LIMIT $2 OFFSET $3`,
		partyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListAllByParty returns the party's full entry set inside the given
// transaction. Ordering is left to the engine.
func (r *EntryRepository) ListAllByParty(ctx context.Context, tx usecase.Transaction, partyID int64) ([]*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE party_id = $1`, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Insert persists a draft with its computed balanceAfter and returns the
// entry with its assigned id.
func (r *EntryRepository) Insert(ctx context.Context, tx usecase.Transaction, draft *domain.EntryDraft, balanceAfter decimal.Decimal) (*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	entry := &domain.Entry{
		PartyID:      draft.PartyID,
		Direction:    draft.Direction,
		Amount:       draft.Amount,
		Date:         draft.Date,
		Note:         draft.Note,
		BalanceAfter: balanceAfter,
		CreatedAt:    draft.CreatedAt,
	}

	err := pgxTx.QueryRow(ctx,
		`INSERT INTO entries (party_id, direction, amount, entry_date, note, balance_after, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		draft.PartyID,
		string(draft.Direction),
		decimalToNumeric(draft.Amount),
		dateToPgDate(draft.Date),
		draft.Note,
		decimalToNumeric(balanceAfter),
		timeToPgTimestamptz(draft.CreatedAt),
	).Scan(&entry.ID)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// UpdateBalanceAfter rewrites only the entry's stored running balance.
func (r *EntryRepository) UpdateBalanceAfter(ctx context.Context, tx usecase.Transaction, id int64, balanceAfter decimal.Decimal) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE entries SET balance_after = $2 WHERE id = $1`,
		id, decimalToNumeric(balanceAfter))

	return err
}

// UpdateDetails edits the user-editable fields of an entry. balanceAfter is
// never written here; it belongs to the recalculation pass.
func (r *EntryRepository) UpdateDetails(ctx context.Context, tx usecase.Transaction, id, partyID int64, direction domain.Direction, amount decimal.Decimal, date time.Time, note string) error {
	pgxTx := tx.(*Tx).PgxTx()

	ct, err := pgxTx.Exec(ctx,
		`UPDATE entries SET direction = $3, amount = $4, entry_date = $5, note = $6
		 WHERE id = $1 AND party_id = $2`,
		id, partyID, string(direction), decimalToNumeric(amount), dateToPgDate(date), note)
	if err != nil {
		return err
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id, partyID int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	ct, err := pgxTx.Exec(ctx,
		`DELETE FROM entries WHERE id = $1 AND party_id = $2`, id, partyID)
	if err != nil {
		return err
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// DeleteByParty removes all of a party's entries.
func (r *EntryRepository) DeleteByParty(ctx context.Context, tx usecase.Transaction, partyID int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `DELETE FROM entries WHERE party_id = $1`, partyID)

	return err
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0)

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry        domain.Entry
		direction    string
		amount       pgtype.Numeric
		entryDate    pgtype.Date
		balanceAfter pgtype.Numeric
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(&entry.ID, &entry.PartyID, &direction, &amount, &entryDate, &entry.Note, &balanceAfter, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.Direction = domain.Direction(direction)
	entry.Amount = numericToDecimal(amount)
	entry.Date = entryDate.Time
	entry.BalanceAfter = numericToDecimal(balanceAfter)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
