package service

import (
	"errors"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Categories every fresh account starts with
var defaultCategoryNames = []string{
	"Supermercado",
	"Servicios",
	"Transporte",
	"Salud",
	"Ocio",
	"Otros",
}

// AuthService resolves token subjects into local users
type AuthService struct {
	userRepo     domain.UserRepository
	categoryRepo domain.CategoryRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, categoryRepo domain.CategoryRepository) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

// EnsureUser upserts the user row for a token subject. First logins also get
// the default category set; a failure seeding them is logged, not returned,
// since the account itself is fine.
func (s *AuthService) EnsureUser(subject, email string, name *string) (*domain.User, error) {
	_, err := s.userRepo.GetBySubject(subject)
	isNew := errors.Is(err, domain.ErrUserNotFound)
	if err != nil && !isNew {
		return nil, err
	}

	user, err := s.userRepo.CreateOrGetBySubject(subject, email, name)
	if err != nil {
		return nil, err
	}

	if isNew {
		for _, categoryName := range defaultCategoryNames {
			if _, err := s.categoryRepo.Create(&domain.Category{UserID: user.ID, Name: categoryName}); err != nil {
				log.Error().Err(err).
					Str("user_id", user.ID.String()).
					Str("category", categoryName).
					Msg("Failed to seed default category")
			}
		}
	}

	return user, nil
}

// GetUserBySubject returns the local user for a token subject
func (s *AuthService) GetUserBySubject(subject string) (*domain.User, error) {
	return s.userRepo.GetBySubject(subject)
}

// GetUserByID returns a user by its local ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}
