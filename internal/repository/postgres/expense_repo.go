package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// expenseSelect joins the reference tables so list responses carry display
// names without extra round trips.
const expenseSelect = `
	SELECT e.id, e.user_id, e.description, e.amount, e.purchase_date,
	       e.card_id, e.category_id, e.subcategory_id,
	       e.installments_count, e.first_installment_date, e.payment_status,
	       e.is_scheduled, e.series_id, e.receipt_path,
	       e.created_at, e.updated_at,
	       cd.name, cd.type, ct.name, sc.name
	FROM expenses e
	LEFT JOIN cards cd ON cd.id = e.card_id
	LEFT JOIN categories ct ON ct.id = e.category_id
	LEFT JOIN subcategories sc ON sc.id = e.subcategory_id`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	e := &domain.Expense{}
	var amount pgtype.Numeric
	err := row.Scan(&e.ID, &e.UserID, &e.Description, &amount, &e.PurchaseDate,
		&e.CardID, &e.CategoryID, &e.SubcategoryID,
		&e.InstallmentsCount, &e.FirstInstallmentDate, &e.PaymentStatus,
		&e.IsScheduled, &e.SeriesID, &e.ReceiptPath,
		&e.CreatedAt, &e.UpdatedAt,
		&e.CardName, &e.CardType, &e.CategoryName, &e.SubcategoryName)
	if err != nil {
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	return e, nil
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, sql string, args ...any) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// appendExpenseFilters adds the optional card/category/status predicates to a
// query. Arguments keep positional numbering after the ones already present.
func appendExpenseFilters(sql string, args []any, filters *domain.ExpenseFilters) (string, []any) {
	if filters == nil {
		return sql, args
	}
	if filters.CardID != nil {
		args = append(args, *filters.CardID)
		sql += fmt.Sprintf(" AND e.card_id = $%d", len(args))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		sql += fmt.Sprintf(" AND e.category_id = $%d", len(args))
	}
	if filters.PaymentStatus != nil {
		args = append(args, string(*filters.PaymentStatus))
		sql += fmt.Sprintf(" AND e.payment_status = $%d", len(args))
	}
	return sql, args
}

// Create creates a new expense
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx,
		`INSERT INTO expenses (user_id, description, amount, purchase_date, card_id,
		                       category_id, subcategory_id, installments_count,
		                       first_installment_date, payment_status, is_scheduled, series_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		expense.UserID, expense.Description, amount, expense.PurchaseDate, expense.CardID,
		expense.CategoryID, expense.SubcategoryID, expense.InstallmentsCount,
		expense.FirstInstallmentDate, string(expense.PaymentStatus), expense.IsScheduled, expense.SeriesID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(expense.UserID, id)
}

// GetByID retrieves an expense by its ID for a user
func (r *ExpenseRepository) GetByID(userID, id uuid.UUID) (*domain.Expense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		expenseSelect+` WHERE e.id = $1 AND e.user_id = $2`,
		id, userID,
	)
	expense, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// GetAnyByID fetches an expense without user scoping, for the
// reconciliation worker.
func (r *ExpenseRepository) GetAnyByID(id uuid.UUID) (*domain.Expense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		expenseSelect+` WHERE e.id = $1`,
		id,
	)
	expense, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// ListByUser retrieves all expenses for a user, newest purchase first
func (r *ExpenseRepository) ListByUser(userID uuid.UUID, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	ctx := context.Background()
	sql := expenseSelect + ` WHERE e.user_id = $1`
	args := []any{userID}
	sql, args = appendExpenseFilters(sql, args, filters)
	sql += ` ORDER BY e.purchase_date DESC, e.created_at DESC`
	return r.queryExpenses(ctx, sql, args...)
}

// GetDirectByPeriod returns single-payment expenses with purchase_date in
// [start, end), newest first. Credit purchases in cuotas are excluded here;
// they surface through their installments instead.
func (r *ExpenseRepository) GetDirectByPeriod(userID uuid.UUID, start, end time.Time, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	ctx := context.Background()
	sql := expenseSelect + `
		WHERE e.user_id = $1 AND e.installments_count = 1
		  AND e.purchase_date >= $2 AND e.purchase_date < $3`
	args := []any{userID, start, end}
	sql, args = appendExpenseFilters(sql, args, filters)
	sql += ` ORDER BY e.purchase_date DESC, e.created_at DESC`
	return r.queryExpenses(ctx, sql, args...)
}

// Update updates an expense's editable fields
func (r *ExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses
		 SET description = $1, amount = $2, purchase_date = $3, card_id = $4,
		     category_id = $5, subcategory_id = $6, installments_count = $7,
		     first_installment_date = $8, payment_status = $9, updated_at = now()
		 WHERE id = $10 AND user_id = $11`,
		expense.Description, amount, expense.PurchaseDate, expense.CardID,
		expense.CategoryID, expense.SubcategoryID, expense.InstallmentsCount,
		expense.FirstInstallmentDate, string(expense.PaymentStatus), expense.ID, expense.UserID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrExpenseNotFound
	}
	return r.GetByID(expense.UserID, expense.ID)
}

// UpdateStatus writes only the payment status. Called by the propagation
// path, which already owns the expense, so no user scoping here.
func (r *ExpenseRepository) UpdateStatus(id uuid.UUID, status domain.PaymentStatus) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET payment_status = $1, updated_at = now() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SetReceiptPath attaches or clears the stored receipt object key
func (r *ExpenseRepository) SetReceiptPath(userID, id uuid.UUID, path *string) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET receipt_path = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3`,
		path, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// Delete removes an expense. Installments go with it via ON DELETE CASCADE.
func (r *ExpenseRepository) Delete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// DeleteSeriesFrom removes every expense of a scheduled series dated on or
// after from. Returns the number of rows removed.
func (r *ExpenseRepository) DeleteSeriesFrom(userID, seriesID uuid.UUID, from time.Time) (int64, error) {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM expenses
		 WHERE user_id = $1 AND series_id = $2 AND purchase_date >= $3`,
		userID, seriesID, from,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountByCategory counts expenses referencing a category, for delete guards
func (r *ExpenseRepository) CountByCategory(userID, categoryID uuid.UUID) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	).Scan(&count)
	return count, err
}

// ListMissingInstallments finds credit purchases that should have cuota rows
// but have none. The reconciliation sweep feeds on this.
func (r *ExpenseRepository) ListMissingInstallments(limit int32) ([]*domain.Expense, error) {
	ctx := context.Background()
	sql := expenseSelect + `
		WHERE e.installments_count > 1
		  AND NOT EXISTS (SELECT 1 FROM installments i WHERE i.expense_id = e.id)
		ORDER BY e.created_at
		LIMIT $1`
	return r.queryExpenses(ctx, sql, limit)
}
