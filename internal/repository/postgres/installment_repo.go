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

// InstallmentRepository implements domain.InstallmentRepository using PostgreSQL
type InstallmentRepository struct {
	pool *pgxpool.Pool
}

// NewInstallmentRepository creates a new InstallmentRepository
func NewInstallmentRepository(pool *pgxpool.Pool) *InstallmentRepository {
	return &InstallmentRepository{pool: pool}
}

const installmentColumns = `id, expense_id, number, amount, due_date, payment_status, created_at, updated_at`

func scanInstallment(row pgx.Row) (*domain.Installment, error) {
	inst := &domain.Installment{}
	var amount pgtype.Numeric
	err := row.Scan(&inst.ID, &inst.ExpenseID, &inst.Number, &amount,
		&inst.DueDate, &inst.PaymentStatus, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inst.Amount = pgNumericToDecimal(amount)
	return inst, nil
}

// CreateBatch inserts all cuota rows of one expense in a single transaction
func (r *InstallmentRepository) CreateBatch(installments []*domain.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, inst := range installments {
		amount, err := decimalToPgNumeric(inst.Amount)
		if err != nil {
			return fmt.Errorf("invalid amount for installment %d: %w", inst.Number, err)
		}
		batch.Queue(
			`INSERT INTO installments (expense_id, number, amount, due_date, payment_status)
			 VALUES ($1, $2, $3, $4, $5)`,
			inst.ExpenseID, inst.Number, amount, inst.DueDate, string(inst.PaymentStatus),
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range installments {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetByIDForUser resolves an installment through its parent expense,
// enforcing ownership.
func (r *InstallmentRepository) GetByIDForUser(userID, id uuid.UUID) (*domain.Installment, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT i.id, i.expense_id, i.number, i.amount, i.due_date, i.payment_status, i.created_at, i.updated_at
		 FROM installments i
		 JOIN expenses e ON e.id = i.expense_id
		 WHERE i.id = $1 AND e.user_id = $2`,
		id, userID,
	)
	inst, err := scanInstallment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrInstallmentNotFound
		}
		return nil, err
	}
	return inst, nil
}

// ListByExpense retrieves all installments of an expense ordered by number
func (r *InstallmentRepository) ListByExpense(expenseID uuid.UUID) ([]*domain.Installment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+installmentColumns+` FROM installments WHERE expense_id = $1 ORDER BY number`,
		expenseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []*domain.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

// CountByExpense counts the installments of an expense
func (r *InstallmentRepository) CountByExpense(expenseID uuid.UUID) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM installments WHERE expense_id = $1`,
		expenseID,
	).Scan(&count)
	return count, err
}

// GetDueInPeriod returns installments with due_date in [start, end) for
// expenses owned by userID, ascending by due date. Paid installments are
// included; month views show settled cuotas too.
func (r *InstallmentRepository) GetDueInPeriod(userID uuid.UUID, start, end time.Time, filters *domain.ExpenseFilters) ([]*domain.InstallmentWithExpense, error) {
	ctx := context.Background()
	sql := `
		SELECT i.id, i.expense_id, i.number, i.amount, i.due_date, i.payment_status,
		       i.created_at, i.updated_at,
		       e.description, e.installments_count,
		       e.card_id, cd.name, cd.type,
		       e.category_id, ct.name, e.subcategory_id, sc.name
		FROM installments i
		JOIN expenses e ON e.id = i.expense_id
		LEFT JOIN cards cd ON cd.id = e.card_id
		LEFT JOIN categories ct ON ct.id = e.category_id
		LEFT JOIN subcategories sc ON sc.id = e.subcategory_id
		WHERE e.user_id = $1 AND i.due_date >= $2 AND i.due_date < $3`
	args := []any{userID, start, end}
	if filters != nil {
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
			sql += fmt.Sprintf(" AND i.payment_status = $%d", len(args))
		}
	}
	sql += ` ORDER BY i.due_date, i.number`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []*domain.InstallmentWithExpense
	for rows.Next() {
		inst := &domain.InstallmentWithExpense{}
		var amount pgtype.Numeric
		if err := rows.Scan(&inst.ID, &inst.ExpenseID, &inst.Number, &amount,
			&inst.DueDate, &inst.PaymentStatus, &inst.CreatedAt, &inst.UpdatedAt,
			&inst.ExpenseDescription, &inst.InstallmentsCount,
			&inst.CardID, &inst.CardName, &inst.CardType,
			&inst.CategoryID, &inst.CategoryName, &inst.SubcategoryID, &inst.SubcategoryName); err != nil {
			return nil, err
		}
		inst.Amount = pgNumericToDecimal(amount)
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

// UpdateStatus writes a new payment status on one installment, scoped to the
// owning user through the parent expense.
func (r *InstallmentRepository) UpdateStatus(userID, id uuid.UUID, status domain.PaymentStatus) (*domain.Installment, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE installments i
		 SET payment_status = $1, updated_at = now()
		 FROM expenses e
		 WHERE i.id = $2 AND e.id = i.expense_id AND e.user_id = $3
		 RETURNING i.id, i.expense_id, i.number, i.amount, i.due_date, i.payment_status, i.created_at, i.updated_at`,
		string(status), id, userID,
	)
	inst, err := scanInstallment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrInstallmentNotFound
		}
		return nil, err
	}
	return inst, nil
}

// DeleteByExpense removes every installment of an expense
func (r *InstallmentRepository) DeleteByExpense(expenseID uuid.UUID) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx,
		`DELETE FROM installments WHERE expense_id = $1`,
		expenseID,
	)
	return err
}
