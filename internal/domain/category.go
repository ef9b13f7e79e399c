package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Subcategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"categoryId"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(userID, id uuid.UUID) (*Category, error)
	ListByUser(userID uuid.UUID) ([]*Category, error)
	Update(category *Category) (*Category, error)
	Delete(userID, id uuid.UUID) error

	CreateSubcategory(userID uuid.UUID, sub *Subcategory) (*Subcategory, error)
	GetSubcategoryByID(userID, id uuid.UUID) (*Subcategory, error)
	ListSubcategories(userID, categoryID uuid.UUID) ([]*Subcategory, error)
	DeleteSubcategory(userID, id uuid.UUID) error
}
