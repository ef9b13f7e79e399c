package middleware

import (
	"time"

	"github.com/gastosapp/gastos-backend/internal/cache"
	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
)

const (
	userCacheTTL     = 5 * time.Minute
	userCacheCleanup = 10 * time.Minute
)

// CachedUserProvider resolves token subjects to user IDs through a TTL
// cache, so repeat requests from the same user skip the users table.
type CachedUserProvider struct {
	userRepo domain.UserRepository
	cache    *cache.Store[string, uuid.UUID]
}

// NewCachedUserProvider creates a CachedUserProvider
func NewCachedUserProvider(userRepo domain.UserRepository) *CachedUserProvider {
	return &CachedUserProvider{
		userRepo: userRepo,
		cache:    cache.New[string, uuid.UUID](userCacheTTL, userCacheCleanup),
	}
}

// GetUserIDBySubject implements UserProvider
func (p *CachedUserProvider) GetUserIDBySubject(subject string) (uuid.UUID, error) {
	if id, ok := p.cache.Get(subject); ok {
		return id, nil
	}

	user, err := p.userRepo.GetBySubject(subject)
	if err != nil {
		return uuid.Nil, err
	}

	p.cache.Set(subject, user.ID)
	return user.ID, nil
}

// Invalidate drops one subject from the cache (user deleted or renamed)
func (p *CachedUserProvider) Invalidate(subject string) {
	p.cache.Delete(subject)
}

// Stop stops the cache's cleanup goroutine
func (p *CachedUserProvider) Stop() {
	p.cache.Stop()
}
