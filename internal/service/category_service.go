package service

import (
	"strings"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryService handles category and subcategory business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	expenseRepo  domain.ExpenseRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, expenseRepo domain.ExpenseRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(userID uuid.UUID, name string) (*domain.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.Create(&domain.Category{UserID: userID, Name: name})
}

// GetCategories retrieves all categories for a user
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.ListByUser(userID)
}

// GetCategoryByID retrieves one category the user owns
func (s *CategoryService) GetCategoryByID(userID, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.GetByID(userID, id)
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(userID, id uuid.UUID, name string) (*domain.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.Update(&domain.Category{ID: id, UserID: userID, Name: name})
}

// DeleteCategory removes a category unless expenses still reference it
func (s *CategoryService) DeleteCategory(userID, id uuid.UUID) error {
	count, err := s.expenseRepo.CountByCategory(userID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}
	return s.categoryRepo.Delete(userID, id)
}

// CreateSubcategory creates a subcategory under one of the user's categories
func (s *CategoryService) CreateSubcategory(userID, categoryID uuid.UUID, name string) (*domain.Subcategory, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.CreateSubcategory(userID, &domain.Subcategory{
		CategoryID: categoryID,
		Name:       name,
	})
}

// GetSubcategories lists the subcategories of a category
func (s *CategoryService) GetSubcategories(userID, categoryID uuid.UUID) ([]*domain.Subcategory, error) {
	if _, err := s.categoryRepo.GetByID(userID, categoryID); err != nil {
		return nil, err
	}
	return s.categoryRepo.ListSubcategories(userID, categoryID)
}

// DeleteSubcategory removes a subcategory
func (s *CategoryService) DeleteSubcategory(userID, id uuid.UUID) error {
	return s.categoryRepo.DeleteSubcategory(userID, id)
}
