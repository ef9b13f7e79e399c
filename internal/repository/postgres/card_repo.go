package postgres

import (
	"context"
	"fmt"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CardRepository implements domain.CardRepository using PostgreSQL
type CardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

const cardColumns = `id, user_id, name, type, bank, payment_day, credit_limit, created_at, updated_at`

func scanCard(row pgx.Row) (*domain.Card, error) {
	card := &domain.Card{}
	var creditLimit pgtype.Numeric
	err := row.Scan(&card.ID, &card.UserID, &card.Name, &card.Type, &card.Bank,
		&card.PaymentDay, &creditLimit, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}
	card.CreditLimit = pgNumericToDecimalPtr(creditLimit)
	return card, nil
}

// Create creates a new card
func (r *CardRepository) Create(card *domain.Card) (*domain.Card, error) {
	ctx := context.Background()
	creditLimit, err := decimalPtrToPgNumeric(card.CreditLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid credit limit: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO cards (user_id, name, type, bank, payment_day, credit_limit)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+cardColumns,
		card.UserID, card.Name, string(card.Type), card.Bank, card.PaymentDay, creditLimit,
	)
	return scanCard(row)
}

// GetByID retrieves a card by its ID for a user
func (r *CardRepository) GetByID(userID, id uuid.UUID) (*domain.Card, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	card, err := scanCard(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// ListByUser retrieves all cards for a user
func (r *CardRepository) ListByUser(userID uuid.UUID) ([]*domain.Card, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// Update updates a card's mutable fields
func (r *CardRepository) Update(card *domain.Card) (*domain.Card, error) {
	ctx := context.Background()
	creditLimit, err := decimalPtrToPgNumeric(card.CreditLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid credit limit: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE cards
		 SET name = $1, type = $2, bank = $3, payment_day = $4, credit_limit = $5, updated_at = now()
		 WHERE id = $6 AND user_id = $7
		 RETURNING `+cardColumns,
		card.Name, string(card.Type), card.Bank, card.PaymentDay, creditLimit, card.ID, card.UserID,
	)
	updated, err := scanCard(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a card. Expenses keep their rows; card_id becomes NULL.
func (r *CardRepository) Delete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cards WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}
