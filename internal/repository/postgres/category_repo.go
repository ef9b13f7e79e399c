package postgres

import (
	"context"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()
	created := &domain.Category{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (user_id, name)
		 VALUES ($1, $2)
		 RETURNING id, user_id, name, created_at, updated_at`,
		category.UserID, category.Name,
	).Scan(&created.ID, &created.UserID, &created.Name, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category by its ID for a user
func (r *CategoryRepository) GetByID(userID, id uuid.UUID) (*domain.Category, error) {
	ctx := context.Background()
	category := &domain.Category{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM categories WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&category.ID, &category.UserID, &category.Name, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// ListByUser retrieves all categories for a user
func (r *CategoryRepository) ListByUser(userID uuid.UUID) ([]*domain.Category, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM categories WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name,
			&category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update updates a category's name
func (r *CategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()
	updated := &domain.Category{}
	err := r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, user_id, name, created_at, updated_at`,
		category.Name, category.ID, category.UserID,
	).Scan(&updated.ID, &updated.UserID, &updated.Name, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a category and its subcategories
func (r *CategoryRepository) Delete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// CreateSubcategory creates a subcategory under a category the user owns
func (r *CategoryRepository) CreateSubcategory(userID uuid.UUID, sub *domain.Subcategory) (*domain.Subcategory, error) {
	ctx := context.Background()
	created := &domain.Subcategory{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subcategories (category_id, name)
		 SELECT c.id, $1 FROM categories c WHERE c.id = $2 AND c.user_id = $3
		 RETURNING id, category_id, name, created_at`,
		sub.Name, sub.CategoryID, userID,
	).Scan(&created.ID, &created.CategoryID, &created.Name, &created.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return created, nil
}

// GetSubcategoryByID resolves a subcategory through its parent category,
// enforcing ownership.
func (r *CategoryRepository) GetSubcategoryByID(userID, id uuid.UUID) (*domain.Subcategory, error) {
	ctx := context.Background()
	sub := &domain.Subcategory{}
	err := r.pool.QueryRow(ctx,
		`SELECT s.id, s.category_id, s.name, s.created_at
		 FROM subcategories s
		 JOIN categories c ON c.id = s.category_id
		 WHERE s.id = $1 AND c.user_id = $2`,
		id, userID,
	).Scan(&sub.ID, &sub.CategoryID, &sub.Name, &sub.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSubcategoryNotFound
		}
		return nil, err
	}
	return sub, nil
}

// ListSubcategories retrieves the subcategories of one category
func (r *CategoryRepository) ListSubcategories(userID, categoryID uuid.UUID) ([]*domain.Subcategory, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.category_id, s.name, s.created_at
		 FROM subcategories s
		 JOIN categories c ON c.id = s.category_id
		 WHERE s.category_id = $1 AND c.user_id = $2
		 ORDER BY s.name`,
		categoryID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subcategory
	for rows.Next() {
		sub := &domain.Subcategory{}
		if err := rows.Scan(&sub.ID, &sub.CategoryID, &sub.Name, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// DeleteSubcategory removes a subcategory the user owns
func (r *CategoryRepository) DeleteSubcategory(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM subcategories s
		 USING categories c
		 WHERE s.id = $1 AND c.id = s.category_id AND c.user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubcategoryNotFound
	}
	return nil
}
