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

const partyColumns = "id, name, phone, type, balance, created_at, updated_at"

// PartyRepository implements usecase.PartyRepository.
type PartyRepository struct {
	pool *pgxpool.Pool
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{pool: pool}
}

// Create inserts a new party and assigns its generated id.
func (r *PartyRepository) Create(ctx context.Context, tx usecase.Transaction, party *domain.Party) error {
	pgxTx := tx.(*Tx).PgxTx()

	return pgxTx.QueryRow(ctx,
		`INSERT INTO parties (name, phone, type, balance, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		party.Name,
		party.Phone,
		string(party.Type),
		decimalToNumeric(party.Balance),
		timeToPgTimestamptz(party.CreatedAt),
		timeToPgTimestamptz(party.UpdatedAt),
	).Scan(&party.ID)
}

// GetByID retrieves a party by id.
func (r *PartyRepository) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+partyColumns+` FROM parties WHERE id = $1`, id)

	return scanParty(row)
}

// GetByIDForUpdate retrieves a party by id with a FOR UPDATE lock, so the
// whole recalculation pass is serialized against other writers of the same
// party.
func (r *PartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Party, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx,
		`SELECT `+partyColumns+` FROM parties WHERE id = $1 FOR UPDATE`, id)

	return scanParty(row)
}

// UpdateBalance updates the party's aggregate balance and refreshes
// updatedAt.
func (r *PartyRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE parties SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// UpdateDetails updates the party's display details. Balance is untouchable
// here.
func (r *PartyRepository) UpdateDetails(ctx context.Context, id int64, name, phone string, partyType domain.PartyType, updatedAt time.Time) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE parties SET name = $2, phone = $3, type = $4, updated_at = $5 WHERE id = $1`,
		id, name, phone, string(partyType), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrPartyNotFound
	}

	return nil
}

// Delete removes a party within a transaction. The caller is responsible for
// deleting the party's entries first.
func (r *PartyRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	ct, err := pgxTx.Exec(ctx, `DELETE FROM parties WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrPartyNotFound
	}

	return nil
}

// List lists parties ordered by name.
func (r *PartyRepository) List(ctx context.Context, limit, offset int) ([]*domain.Party, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+partyColumns+` FROM parties ORDER BY name, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParties(rows)
}

// Search finds parties by phone or name fragment.
func (r *PartyRepository) Search(ctx context.Context, query string, limit, offset int) ([]*domain.Party, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+partyColumns+` FROM parties
		 WHERE phone LIKE $1 || '%' OR name ILIKE '%' || $1 || '%'
		 ORDER BY name, id LIMIT $2 OFFSET $3`,
		query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParties(rows)
}

func scanParties(rows pgx.Rows) ([]*domain.Party, error) {
	parties := make([]*domain.Party, 0)

	for rows.Next() {
		party, err := scanParty(rows)
		if err != nil {
			return nil, err
		}

		parties = append(parties, party)
	}

	return parties, rows.Err()
}

func scanParty(row pgx.Row) (*domain.Party, error) {
	var (
		party     domain.Party
		partyType string
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&party.ID, &party.Name, &party.Phone, &partyType, &balance, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}

		return nil, err
	}

	party.Type = domain.PartyType(partyType)
	party.Balance = numericToDecimal(balance)
	party.CreatedAt = createdAt.Time
	party.UpdatedAt = updatedAt.Time

	return &party, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func dateToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}
