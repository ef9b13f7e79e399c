package service

import (
	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// How many orphaned expenses one sweep pass picks up
const reconcileSweepLimit = 100

// ReconcileService rebuilds missing installments. It backs the queue worker:
// expense creation is two writes without a shared transaction, so a crash
// between them leaves a credit purchase with no cuotas.
type ReconcileService struct {
	expenseRepo     domain.ExpenseRepository
	installmentRepo domain.InstallmentRepository
	installments    *InstallmentService
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(expenseRepo domain.ExpenseRepository, installmentRepo domain.InstallmentRepository, installments *InstallmentService) *ReconcileService {
	return &ReconcileService{
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
		installments:    installments,
	}
}

// ReconcileExpense regenerates the cuotas of one expense if they are missing.
// Idempotent: an expense that already has cuotas, or never needed them, is
// left alone.
func (s *ReconcileService) ReconcileExpense(expenseID uuid.UUID) error {
	expense, err := s.expenseRepo.GetAnyByID(expenseID)
	if err != nil {
		if err == domain.ErrExpenseNotFound {
			// Deleted between enqueue and processing; nothing to rebuild
			log.Warn().Str("expense_id", expenseID.String()).Msg("Reconcile target no longer exists")
			return nil
		}
		return err
	}
	if expense.InstallmentsCount <= 1 {
		return nil
	}

	count, err := s.installmentRepo.CountByExpense(expenseID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := s.installments.GenerateInstallments(expense); err != nil {
		return err
	}
	log.Info().
		Str("expense_id", expenseID.String()).
		Int32("installments_count", expense.InstallmentsCount).
		Msg("Rebuilt missing installments")
	return nil
}

// Sweep finds expenses that should have cuotas but have none and rebuilds
// them. Catches generation failures whose queue message was also lost.
func (s *ReconcileService) Sweep() (int, error) {
	orphans, err := s.expenseRepo.ListMissingInstallments(reconcileSweepLimit)
	if err != nil {
		return 0, err
	}

	rebuilt := 0
	for _, expense := range orphans {
		if _, err := s.installments.GenerateInstallments(expense); err != nil {
			log.Error().Err(err).
				Str("expense_id", expense.ID.String()).
				Msg("Sweep failed to rebuild installments")
			continue
		}
		rebuilt++
	}
	return rebuilt, nil
}
