package service

import (
	"strings"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/util"
	"github.com/gastosapp/gastos-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// installmentIDPrefix marks mark-as-paid targets that address a single cuota
// instead of a whole expense.
const installmentIDPrefix = "installment-"

// InstallmentService generates cuota rows for credit purchases and keeps the
// parent expense's payment status in sync with them.
type InstallmentService struct {
	expenseRepo     domain.ExpenseRepository
	installmentRepo domain.InstallmentRepository
	publisher       websocket.EventPublisher
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(expenseRepo domain.ExpenseRepository, installmentRepo domain.InstallmentRepository, publisher websocket.EventPublisher) *InstallmentService {
	return &InstallmentService{
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
		publisher:       publisher,
	}
}

// GenerateInstallments creates the N monthly cuota rows for an expense split
// into installments. Each cuota is amount/count; due dates advance one
// calendar month at a time from the first installment date, with the day
// clamped to month end. All rows start pendiente.
func (s *InstallmentService) GenerateInstallments(expense *domain.Expense) ([]*domain.Installment, error) {
	if expense.InstallmentsCount <= 1 || expense.InstallmentsCount > domain.MaxInstallmentsCount {
		return nil, domain.ErrInvalidInstallmentsCount
	}
	if expense.FirstInstallmentDate == nil {
		return nil, domain.ErrFirstInstallmentDateRequired
	}

	count := expense.InstallmentsCount
	perCuota := expense.Amount.Div(decimal.NewFromInt32(count)).Round(2)

	installments := make([]*domain.Installment, 0, count)
	for i := int32(1); i <= count; i++ {
		installments = append(installments, &domain.Installment{
			ExpenseID:     expense.ID,
			Number:        i,
			Amount:        perCuota,
			DueDate:       util.AddMonthsClamped(*expense.FirstInstallmentDate, int(i-1)),
			PaymentStatus: domain.PaymentStatusPending,
		})
	}

	if err := s.installmentRepo.CreateBatch(installments); err != nil {
		return nil, err
	}
	return installments, nil
}

// RecreateInstallments regenerates the cuotas of an expense whose original
// generation failed. It refuses to touch expenses that already have them.
func (s *InstallmentService) RecreateInstallments(userID, expenseID uuid.UUID) ([]*domain.Installment, error) {
	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.InstallmentsCount <= 1 {
		return nil, domain.ErrInvalidInstallmentsCount
	}

	existing, err := s.installmentRepo.CountByExpense(expenseID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, domain.ErrInstallmentsAlreadyExist
	}

	return s.GenerateInstallments(expense)
}

// ListInstallments returns the cuotas of one expense the user owns
func (s *InstallmentService) ListInstallments(userID, expenseID uuid.UUID) ([]*domain.Installment, error) {
	if _, err := s.expenseRepo.GetByID(userID, expenseID); err != nil {
		return nil, err
	}
	return s.installmentRepo.ListByExpense(expenseID)
}

// UpdateInstallmentStatus sets one cuota's payment status and recomputes the
// parent expense's status from all its cuotas. The parent row is written only
// when its derived status actually changed.
func (s *InstallmentService) UpdateInstallmentStatus(userID, installmentID uuid.UUID, status domain.PaymentStatus) (*domain.Installment, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidPaymentStatus
	}

	installment, err := s.installmentRepo.UpdateStatus(userID, installmentID, status)
	if err != nil {
		return nil, err
	}

	if err := s.propagateStatus(userID, installment.ExpenseID); err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.InstallmentStatusChanged(installment))
	return installment, nil
}

// propagateStatus recomputes an expense's status from its installments.
// Precedence is fixed: en_deuda beats pendiente beats pagada.
func (s *InstallmentService) propagateStatus(userID, expenseID uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return err
	}

	installments, err := s.installmentRepo.ListByExpense(expenseID)
	if err != nil {
		return err
	}

	statuses := make([]domain.PaymentStatus, len(installments))
	for i, inst := range installments {
		statuses[i] = inst.PaymentStatus
	}

	derived := domain.AggregateStatus(statuses)
	if derived == expense.PaymentStatus {
		return nil
	}
	return s.expenseRepo.UpdateStatus(expenseID, derived)
}

// MarkAsPaid applies a payment status to a whole expense or a single cuota.
// IDs of the form "installment-<uuid>" address one cuota; a bare UUID
// addresses the expense, restating every cuota it has. The status defaults to
// pagada upstream but any valid status is accepted, so a direct expense can be
// flagged en_deuda through the same route.
func (s *InstallmentService) MarkAsPaid(userID uuid.UUID, id string, status domain.PaymentStatus) (*domain.Expense, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidPaymentStatus
	}

	if rest, ok := strings.CutPrefix(id, installmentIDPrefix); ok {
		installmentID, err := uuid.Parse(rest)
		if err != nil {
			return nil, domain.ErrInstallmentNotFound
		}
		installment, err := s.UpdateInstallmentStatus(userID, installmentID, status)
		if err != nil {
			return nil, err
		}
		return s.expenseRepo.GetByID(userID, installment.ExpenseID)
	}

	expenseID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrExpenseNotFound
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	installments, err := s.installmentRepo.ListByExpense(expenseID)
	if err != nil {
		return nil, err
	}

	for _, inst := range installments {
		if inst.PaymentStatus == status {
			continue
		}
		if _, err := s.installmentRepo.UpdateStatus(userID, inst.ID, status); err != nil {
			return nil, err
		}
	}

	if len(installments) > 0 {
		if err := s.propagateStatus(userID, expenseID); err != nil {
			return nil, err
		}
	} else if expense.PaymentStatus != status {
		if err := s.expenseRepo.UpdateStatus(expenseID, status); err != nil {
			return nil, err
		}
	}

	updated, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(userID, websocket.ExpenseUpdated(updated))
	return updated, nil
}
