package service

import (
	"context"
	"strings"
	"time"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/util"
	"github.com/gastosapp/gastos-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReconcilePublisher enqueues installment-rebuild requests for expenses whose
// cuota generation failed after the expense row was written.
type ReconcilePublisher interface {
	PublishReconcile(ctx context.Context, expenseID uuid.UUID) error
}

// NoOpReconcilePublisher drops reconcile requests (tests, queue disabled)
type NoOpReconcilePublisher struct{}

func (NoOpReconcilePublisher) PublishReconcile(ctx context.Context, expenseID uuid.UUID) error {
	return nil
}

// Scheduled series length when the client does not ask for one
const defaultScheduledMonths = 12

// DeleteOption selects how much of a scheduled series a delete removes
type DeleteOption string

const (
	DeleteOptionCurrent DeleteOption = "current"
	DeleteOptionFuture  DeleteOption = "future"
)

// ExpenseService handles expense business logic
type ExpenseService struct {
	expenseRepo     domain.ExpenseRepository
	installmentRepo domain.InstallmentRepository
	cardRepo        domain.CardRepository
	categoryRepo    domain.CategoryRepository
	installments    *InstallmentService
	reconciler      ReconcilePublisher
	publisher       websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo domain.ExpenseRepository,
	installmentRepo domain.InstallmentRepository,
	cardRepo domain.CardRepository,
	categoryRepo domain.CategoryRepository,
	installments *InstallmentService,
	reconciler ReconcilePublisher,
	publisher websocket.EventPublisher,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
		cardRepo:        cardRepo,
		categoryRepo:    categoryRepo,
		installments:    installments,
		reconciler:      reconciler,
		publisher:       publisher,
	}
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	Description          string
	Amount               decimal.Decimal
	PurchaseDate         *time.Time
	CardID               *uuid.UUID
	CategoryID           uuid.UUID
	SubcategoryID        *uuid.UUID
	InstallmentsCount    int32
	FirstInstallmentDate *time.Time
	IsScheduled          bool
	ScheduledMonths      *int32
}

// CreateExpense creates an expense with validation. Credit purchases with
// more than one cuota get their installment rows generated right after the
// insert; a generation failure never rolls the expense back, it is logged
// and handed to the reconciliation queue instead.
func (s *ExpenseService) CreateExpense(userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, err
	}
	if input.SubcategoryID != nil {
		if _, err := s.categoryRepo.GetSubcategoryByID(userID, *input.SubcategoryID); err != nil {
			return nil, err
		}
	}

	// The card type decides the starting status: credit stays pendiente until
	// settled, everything else (debit, transfer, cash) is paid at once.
	status := domain.PaymentStatusPaid
	var card *domain.Card
	if input.CardID != nil {
		var err error
		card, err = s.cardRepo.GetByID(userID, *input.CardID)
		if err != nil {
			return nil, err
		}
		status = card.Type.DefaultPaymentStatus()
	}

	count := input.InstallmentsCount
	if count == 0 {
		count = 1
	}
	if count < 1 || count > domain.MaxInstallmentsCount {
		return nil, domain.ErrInvalidInstallmentsCount
	}
	if count > 1 {
		if card == nil || card.Type != domain.CardTypeCredit {
			return nil, domain.ErrInvalidInstallmentsCount
		}
		if input.FirstInstallmentDate == nil {
			return nil, domain.ErrFirstInstallmentDateRequired
		}
		if input.IsScheduled {
			return nil, domain.ErrInvalidInstallmentsCount
		}
	}

	purchaseDate := time.Now().UTC().Truncate(24 * time.Hour)
	if input.PurchaseDate != nil {
		purchaseDate = *input.PurchaseDate
	}

	if input.IsScheduled {
		return s.createScheduledSeries(userID, description, purchaseDate, status, input)
	}

	expense := &domain.Expense{
		UserID:               userID,
		Description:          description,
		Amount:               input.Amount,
		PurchaseDate:         purchaseDate,
		CardID:               input.CardID,
		CategoryID:           input.CategoryID,
		SubcategoryID:        input.SubcategoryID,
		InstallmentsCount:    count,
		FirstInstallmentDate: input.FirstInstallmentDate,
		PaymentStatus:        status,
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	if count > 1 {
		if _, err := s.installments.GenerateInstallments(created); err != nil {
			log.Error().Err(err).
				Str("expense_id", created.ID.String()).
				Int32("installments_count", count).
				Msg("Installment generation failed, enqueueing reconcile")
			if pubErr := s.reconciler.PublishReconcile(context.Background(), created.ID); pubErr != nil {
				log.Error().Err(pubErr).
					Str("expense_id", created.ID.String()).
					Msg("Failed to enqueue reconcile message")
			}
		}
	}

	s.publisher.Publish(userID, websocket.ExpenseCreated(created))
	return created, nil
}

// createScheduledSeries inserts one occurrence per month, all sharing a
// series ID so current/future deletes can find each other.
func (s *ExpenseService) createScheduledSeries(userID uuid.UUID, description string, firstDate time.Time, status domain.PaymentStatus, input CreateExpenseInput) (*domain.Expense, error) {
	months := int32(defaultScheduledMonths)
	if input.ScheduledMonths != nil {
		months = *input.ScheduledMonths
	}
	if months < 1 || months > domain.MaxScheduledMonths {
		return nil, domain.ErrInvalidInput
	}

	seriesID := uuid.New()
	var first *domain.Expense
	for i := int32(0); i < months; i++ {
		occurrence := &domain.Expense{
			UserID:            userID,
			Description:       description,
			Amount:            input.Amount,
			PurchaseDate:      util.AddMonthsClamped(firstDate, int(i)),
			CardID:            input.CardID,
			CategoryID:        input.CategoryID,
			SubcategoryID:     input.SubcategoryID,
			InstallmentsCount: 1,
			PaymentStatus:     status,
			IsScheduled:       true,
			SeriesID:          &seriesID,
		}
		created, err := s.expenseRepo.Create(occurrence)
		if err != nil {
			if first != nil {
				// Partial series: keep what was written, the client can
				// delete-future from here.
				log.Error().Err(err).
					Str("series_id", seriesID.String()).
					Int32("occurrence", i+1).
					Msg("Scheduled series insert failed midway")
				break
			}
			return nil, err
		}
		if first == nil {
			first = created
		}
	}

	s.publisher.Publish(userID, websocket.ExpenseCreated(first))
	return first, nil
}

// GetExpenses retrieves the user's expenses with optional filters
func (s *ExpenseService) GetExpenses(userID uuid.UUID, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	return s.expenseRepo.ListByUser(userID, filters)
}

// GetExpenseByID retrieves one expense the user owns
func (s *ExpenseService) GetExpenseByID(userID, id uuid.UUID) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(userID, id)
}

// UpdateExpenseInput holds the input for updating an expense
type UpdateExpenseInput struct {
	Description          string
	Amount               decimal.Decimal
	PurchaseDate         time.Time
	CardID               *uuid.UUID
	CategoryID           uuid.UUID
	SubcategoryID        *uuid.UUID
	InstallmentsCount    int32
	FirstInstallmentDate *time.Time
}

// UpdateExpense updates an expense. Changing the installment layout drops the
// old cuotas and regenerates them from the new values.
func (s *ExpenseService) UpdateExpense(userID, id uuid.UUID, input UpdateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	existing, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, err
	}
	if input.SubcategoryID != nil {
		if _, err := s.categoryRepo.GetSubcategoryByID(userID, *input.SubcategoryID); err != nil {
			return nil, err
		}
	}

	status := existing.PaymentStatus
	var card *domain.Card
	if input.CardID != nil {
		card, err = s.cardRepo.GetByID(userID, *input.CardID)
		if err != nil {
			return nil, err
		}
		if existing.CardID == nil || *existing.CardID != *input.CardID {
			status = card.Type.DefaultPaymentStatus()
		}
	}

	count := input.InstallmentsCount
	if count == 0 {
		count = 1
	}
	if count < 1 || count > domain.MaxInstallmentsCount {
		return nil, domain.ErrInvalidInstallmentsCount
	}
	if count > 1 {
		if card == nil || card.Type != domain.CardTypeCredit {
			return nil, domain.ErrInvalidInstallmentsCount
		}
		if input.FirstInstallmentDate == nil {
			return nil, domain.ErrFirstInstallmentDateRequired
		}
	}

	layoutChanged := count != existing.InstallmentsCount ||
		!input.Amount.Equal(existing.Amount) ||
		!equalDatePtr(input.FirstInstallmentDate, existing.FirstInstallmentDate)

	expense := &domain.Expense{
		ID:                   id,
		UserID:               userID,
		Description:          description,
		Amount:               input.Amount,
		PurchaseDate:         input.PurchaseDate,
		CardID:               input.CardID,
		CategoryID:           input.CategoryID,
		SubcategoryID:        input.SubcategoryID,
		InstallmentsCount:    count,
		FirstInstallmentDate: input.FirstInstallmentDate,
		PaymentStatus:        status,
	}

	updated, err := s.expenseRepo.Update(expense)
	if err != nil {
		return nil, err
	}

	if layoutChanged {
		if err := s.installmentRepo.DeleteByExpense(id); err != nil {
			log.Error().Err(err).
				Str("expense_id", id.String()).
				Msg("Failed to drop stale installments on update")
		}
		if count > 1 {
			if _, err := s.installments.GenerateInstallments(updated); err != nil {
				log.Error().Err(err).
					Str("expense_id", id.String()).
					Msg("Installment regeneration failed, enqueueing reconcile")
				if pubErr := s.reconciler.PublishReconcile(context.Background(), id); pubErr != nil {
					log.Error().Err(pubErr).
						Str("expense_id", id.String()).
						Msg("Failed to enqueue reconcile message")
				}
			}
		}
	}

	s.publisher.Publish(userID, websocket.ExpenseUpdated(updated))
	return updated, nil
}

// DeleteExpense removes an expense and its installments. A failure deleting
// the cuotas is logged but never blocks removing the expense itself; the
// foreign key cascade covers any leftovers.
func (s *ExpenseService) DeleteExpense(userID, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.installmentRepo.DeleteByExpense(id); err != nil {
		log.Warn().Err(err).
			Str("expense_id", id.String()).
			Msg("Failed to delete installments before expense")
	}

	if err := s.expenseRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.ExpenseDeleted(expense))
	return nil
}

// DeleteScheduledExpense removes a scheduled occurrence, or the whole rest of
// its series when deleteOption is "future". Returns how many rows went away.
func (s *ExpenseService) DeleteScheduledExpense(userID, id uuid.UUID, option DeleteOption) (int64, error) {
	if option != DeleteOptionCurrent && option != DeleteOptionFuture {
		return 0, domain.ErrInvalidDeleteOption
	}

	expense, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return 0, err
	}
	if !expense.IsScheduled || expense.SeriesID == nil {
		return 0, domain.ErrNotScheduledExpense
	}

	if option == DeleteOptionCurrent {
		if err := s.DeleteExpense(userID, id); err != nil {
			return 0, err
		}
		return 1, nil
	}

	deleted, err := s.expenseRepo.DeleteSeriesFrom(userID, *expense.SeriesID, expense.PurchaseDate)
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(userID, websocket.ExpenseDeleted(expense))
	return deleted, nil
}

func equalDatePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
