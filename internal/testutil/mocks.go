package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetBySubject retrieves a user by token subject
func (m *MockUserRepository) GetBySubject(subject string) (*domain.User, error) {
	if user, ok := m.Users[subject]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetBySubject creates or retrieves a user by token subject
func (m *MockUserRepository) CreateOrGetBySubject(subject, email string, name *string) (*domain.User, error) {
	if user, ok := m.Users[subject]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Subject: subject,
		Email:   email,
		Name:    name,
	}
	m.Users[subject] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Subject] = user
	m.ByID[user.ID] = user
}

// MockCardRepository is a mock implementation of domain.CardRepository
type MockCardRepository struct {
	Cards map[uuid.UUID]*domain.Card
}

// NewMockCardRepository creates a new MockCardRepository
func NewMockCardRepository() *MockCardRepository {
	return &MockCardRepository{Cards: make(map[uuid.UUID]*domain.Card)}
}

// Create creates a new card
func (m *MockCardRepository) Create(card *domain.Card) (*domain.Card, error) {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	m.Cards[card.ID] = card
	return card, nil
}

// GetByID retrieves a card by ID, scoped to the owner
func (m *MockCardRepository) GetByID(userID, id uuid.UUID) (*domain.Card, error) {
	if card, ok := m.Cards[id]; ok && card.UserID == userID {
		return card, nil
	}
	return nil, domain.ErrCardNotFound
}

// ListByUser lists the user's cards
func (m *MockCardRepository) ListByUser(userID uuid.UUID) ([]*domain.Card, error) {
	var cards []*domain.Card
	for _, card := range m.Cards {
		if card.UserID == userID {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// Update updates an existing card
func (m *MockCardRepository) Update(card *domain.Card) (*domain.Card, error) {
	existing, ok := m.Cards[card.ID]
	if !ok || existing.UserID != card.UserID {
		return nil, domain.ErrCardNotFound
	}
	m.Cards[card.ID] = card
	return card, nil
}

// Delete deletes a card by ID
func (m *MockCardRepository) Delete(userID, id uuid.UUID) error {
	if card, ok := m.Cards[id]; ok && card.UserID == userID {
		delete(m.Cards, id)
		return nil
	}
	return domain.ErrCardNotFound
}

// AddCard adds a card to the mock repository (helper for tests)
func (m *MockCardRepository) AddCard(card *domain.Card) {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	m.Cards[card.ID] = card
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories    map[uuid.UUID]*domain.Category
	Subcategories map[uuid.UUID]*domain.Subcategory
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories:    make(map[uuid.UUID]*domain.Category),
		Subcategories: make(map[uuid.UUID]*domain.Subcategory),
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID, scoped to the owner
func (m *MockCategoryRepository) GetByID(userID, id uuid.UUID) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok && category.UserID == userID {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// ListByUser lists the user's categories
func (m *MockCategoryRepository) ListByUser(userID uuid.UUID) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, category := range m.Categories {
		if category.UserID == userID {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

// Update updates an existing category
func (m *MockCategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	existing, ok := m.Categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return nil, domain.ErrCategoryNotFound
	}
	m.Categories[category.ID] = category
	return category, nil
}

// Delete deletes a category by ID
func (m *MockCategoryRepository) Delete(userID, id uuid.UUID) error {
	if category, ok := m.Categories[id]; ok && category.UserID == userID {
		delete(m.Categories, id)
		return nil
	}
	return domain.ErrCategoryNotFound
}

// CreateSubcategory creates a subcategory under a category owned by userID
func (m *MockCategoryRepository) CreateSubcategory(userID uuid.UUID, sub *domain.Subcategory) (*domain.Subcategory, error) {
	parent, ok := m.Categories[sub.CategoryID]
	if !ok || parent.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	m.Subcategories[sub.ID] = sub
	return sub, nil
}

// GetSubcategoryByID retrieves a subcategory through its parent category
func (m *MockCategoryRepository) GetSubcategoryByID(userID, id uuid.UUID) (*domain.Subcategory, error) {
	sub, ok := m.Subcategories[id]
	if !ok {
		return nil, domain.ErrSubcategoryNotFound
	}
	parent, ok := m.Categories[sub.CategoryID]
	if !ok || parent.UserID != userID {
		return nil, domain.ErrSubcategoryNotFound
	}
	return sub, nil
}

// ListSubcategories lists the subcategories of a category
func (m *MockCategoryRepository) ListSubcategories(userID, categoryID uuid.UUID) ([]*domain.Subcategory, error) {
	parent, ok := m.Categories[categoryID]
	if !ok || parent.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	var subs []*domain.Subcategory
	for _, sub := range m.Subcategories {
		if sub.CategoryID == categoryID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

// DeleteSubcategory deletes a subcategory by ID
func (m *MockCategoryRepository) DeleteSubcategory(userID, id uuid.UUID) error {
	if _, err := m.GetSubcategoryByID(userID, id); err != nil {
		return err
	}
	delete(m.Subcategories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[uuid.UUID]*domain.Expense
	CreateFn func(expense *domain.Expense) (*domain.Expense, error)
	DeleteFn func(userID, id uuid.UUID) error

	// UpdateStatusCalls counts status writes, so tests can assert the
	// propagation engine skips no-op updates.
	UpdateStatusCalls int
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{Expenses: make(map[uuid.UUID]*domain.Expense)}
}

func matchesFilters(e *domain.Expense, filters *domain.ExpenseFilters) bool {
	if filters == nil {
		return true
	}
	if filters.CardID != nil && (e.CardID == nil || *e.CardID != *filters.CardID) {
		return false
	}
	if filters.CategoryID != nil && e.CategoryID != *filters.CategoryID {
		return false
	}
	if filters.PaymentStatus != nil && e.PaymentStatus != *filters.PaymentStatus {
		return false
	}
	return true
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	expense.CreatedAt = time.Now().UTC()
	expense.UpdatedAt = expense.CreatedAt
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense by ID, scoped to the owner
func (m *MockExpenseRepository) GetByID(userID, id uuid.UUID) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok && expense.UserID == userID {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// GetAnyByID retrieves an expense by ID without user scoping
func (m *MockExpenseRepository) GetAnyByID(id uuid.UUID) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// ListByUser lists the user's expenses, applying filters
func (m *MockExpenseRepository) ListByUser(userID uuid.UUID, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for _, e := range m.Expenses {
		if e.UserID == userID && matchesFilters(e, filters) {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].PurchaseDate.After(expenses[j].PurchaseDate)
	})
	return expenses, nil
}

// GetDirectByPeriod lists non-installment expenses with purchase_date in [start, end)
func (m *MockExpenseRepository) GetDirectByPeriod(userID uuid.UUID, start, end time.Time, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for _, e := range m.Expenses {
		if e.UserID != userID || e.InstallmentsCount != 1 {
			continue
		}
		if e.PurchaseDate.Before(start) || !e.PurchaseDate.Before(end) {
			continue
		}
		if matchesFilters(e, filters) {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].PurchaseDate.After(expenses[j].PurchaseDate)
	})
	return expenses, nil
}

// Update updates an existing expense
func (m *MockExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	existing, ok := m.Expenses[expense.ID]
	if !ok || existing.UserID != expense.UserID {
		return nil, domain.ErrExpenseNotFound
	}
	expense.UpdatedAt = time.Now().UTC()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// UpdateStatus updates only an expense's payment status
func (m *MockExpenseRepository) UpdateStatus(id uuid.UUID, status domain.PaymentStatus) error {
	m.UpdateStatusCalls++
	expense, ok := m.Expenses[id]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	expense.PaymentStatus = status
	expense.UpdatedAt = time.Now().UTC()
	return nil
}

// SetReceiptPath updates an expense's stored receipt path
func (m *MockExpenseRepository) SetReceiptPath(userID, id uuid.UUID, path *string) error {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID {
		return domain.ErrExpenseNotFound
	}
	expense.ReceiptPath = path
	return nil
}

// Delete deletes an expense by ID
func (m *MockExpenseRepository) Delete(userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	if expense, ok := m.Expenses[id]; ok && expense.UserID == userID {
		delete(m.Expenses, id)
		return nil
	}
	return domain.ErrExpenseNotFound
}

// DeleteSeriesFrom deletes scheduled-series rows with purchase_date >= from
func (m *MockExpenseRepository) DeleteSeriesFrom(userID, seriesID uuid.UUID, from time.Time) (int64, error) {
	var deleted int64
	for id, e := range m.Expenses {
		if e.UserID != userID || e.SeriesID == nil || *e.SeriesID != seriesID {
			continue
		}
		if e.PurchaseDate.Before(from) {
			continue
		}
		delete(m.Expenses, id)
		deleted++
	}
	return deleted, nil
}

// CountByCategory counts expenses referencing a category
func (m *MockExpenseRepository) CountByCategory(userID, categoryID uuid.UUID) (int64, error) {
	var count int64
	for _, e := range m.Expenses {
		if e.UserID == userID && e.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// ListMissingInstallments is satisfied by the harness in reconcile tests
func (m *MockExpenseRepository) ListMissingInstallments(limit int32) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for _, e := range m.Expenses {
		if e.InstallmentsCount > 1 {
			expenses = append(expenses, e)
		}
	}
	if int32(len(expenses)) > limit {
		expenses = expenses[:limit]
	}
	return expenses, nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	m.Expenses[expense.ID] = expense
}

// MockInstallmentRepository is a mock implementation of domain.InstallmentRepository.
// Ownership-scoped lookups resolve the parent expense through ExpenseRepo.
type MockInstallmentRepository struct {
	Installments  map[uuid.UUID]*domain.Installment
	ExpenseRepo   *MockExpenseRepository
	CreateBatchFn func(installments []*domain.Installment) error
}

// NewMockInstallmentRepository creates a new MockInstallmentRepository
func NewMockInstallmentRepository(expenseRepo *MockExpenseRepository) *MockInstallmentRepository {
	return &MockInstallmentRepository{
		Installments: make(map[uuid.UUID]*domain.Installment),
		ExpenseRepo:  expenseRepo,
	}
}

// CreateBatch inserts all installments, or none on injected failure
func (m *MockInstallmentRepository) CreateBatch(installments []*domain.Installment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(installments)
	}
	for _, inst := range installments {
		if inst.ID == uuid.Nil {
			inst.ID = uuid.New()
		}
		m.Installments[inst.ID] = inst
	}
	return nil
}

// GetByIDForUser resolves an installment through its parent expense
func (m *MockInstallmentRepository) GetByIDForUser(userID, id uuid.UUID) (*domain.Installment, error) {
	inst, ok := m.Installments[id]
	if !ok {
		return nil, domain.ErrInstallmentNotFound
	}
	if _, err := m.ExpenseRepo.GetByID(userID, inst.ExpenseID); err != nil {
		return nil, domain.ErrInstallmentNotFound
	}
	return inst, nil
}

// ListByExpense lists an expense's installments ordered by number
func (m *MockInstallmentRepository) ListByExpense(expenseID uuid.UUID) ([]*domain.Installment, error) {
	var installments []*domain.Installment
	for _, inst := range m.Installments {
		if inst.ExpenseID == expenseID {
			installments = append(installments, inst)
		}
	}
	sort.Slice(installments, func(i, j int) bool {
		return installments[i].Number < installments[j].Number
	})
	return installments, nil
}

// CountByExpense counts an expense's installments
func (m *MockInstallmentRepository) CountByExpense(expenseID uuid.UUID) (int64, error) {
	var count int64
	for _, inst := range m.Installments {
		if inst.ExpenseID == expenseID {
			count++
		}
	}
	return count, nil
}

// GetDueInPeriod lists installments with due_date in [start, end) for the user
func (m *MockInstallmentRepository) GetDueInPeriod(userID uuid.UUID, start, end time.Time, filters *domain.ExpenseFilters) ([]*domain.InstallmentWithExpense, error) {
	var result []*domain.InstallmentWithExpense
	for _, inst := range m.Installments {
		if inst.DueDate.Before(start) || !inst.DueDate.Before(end) {
			continue
		}
		expense, err := m.ExpenseRepo.GetByID(userID, inst.ExpenseID)
		if err != nil {
			continue
		}
		if filters != nil {
			if filters.CardID != nil && (expense.CardID == nil || *expense.CardID != *filters.CardID) {
				continue
			}
			if filters.CategoryID != nil && expense.CategoryID != *filters.CategoryID {
				continue
			}
			if filters.PaymentStatus != nil && inst.PaymentStatus != *filters.PaymentStatus {
				continue
			}
		}
		result = append(result, &domain.InstallmentWithExpense{
			Installment:        *inst,
			ExpenseDescription: expense.Description,
			InstallmentsCount:  expense.InstallmentsCount,
			CardID:             expense.CardID,
			CardName:           expense.CardName,
			CardType:           expense.CardType,
			CategoryID:         expense.CategoryID,
			CategoryName:       expense.CategoryName,
			SubcategoryID:      expense.SubcategoryID,
			SubcategoryName:    expense.SubcategoryName,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DueDate.Equal(result[j].DueDate) {
			return result[i].Number < result[j].Number
		}
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

// UpdateStatus updates an installment's payment status with ownership check
func (m *MockInstallmentRepository) UpdateStatus(userID, id uuid.UUID, status domain.PaymentStatus) (*domain.Installment, error) {
	inst, err := m.GetByIDForUser(userID, id)
	if err != nil {
		return nil, err
	}
	inst.PaymentStatus = status
	inst.UpdatedAt = time.Now().UTC()
	return inst, nil
}

// DeleteByExpense removes all installments of an expense
func (m *MockInstallmentRepository) DeleteByExpense(expenseID uuid.UUID) error {
	for id, inst := range m.Installments {
		if inst.ExpenseID == expenseID {
			delete(m.Installments, id)
		}
	}
	return nil
}

// MockReconcilePublisher records reconciliation enqueues for assertions
type MockReconcilePublisher struct {
	Published []uuid.UUID
	Err       error
}

// PublishReconcile records the expense ID, or fails with the injected error
func (m *MockReconcilePublisher) PublishReconcile(ctx context.Context, expenseID uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, expenseID)
	return nil
}
