package providers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for provider storage.
type Repository interface {
	// FindVerified returns verified providers, optionally filtered by a
	// case-insensitive specialty substring match. This is the read path the
	// nearby-search pipeline depends on.
	FindVerified(ctx context.Context, specialty string) ([]Provider, error)
	GetByID(ctx context.Context, id string) (*Provider, error)
	GetByUserID(ctx context.Context, userID string) (*Provider, error)
	UpdateProfile(ctx context.Context, userID string, update *ProfileUpdate) (*Provider, error)
}

// InMemoryRepository stores providers in memory. Used in tests and local
// development without a database.
type InMemoryRepository struct {
	mu        sync.RWMutex
	providers map[string]*Provider
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{providers: make(map[string]*Provider)}
}

// Seed inserts a provider, assigning an id when absent.
func (r *InMemoryRepository) Seed(p Provider) *Provider {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	r.mu.Lock()
	r.providers[p.ID] = &p
	r.mu.Unlock()
	return &p
}

// FindVerified returns verified providers filtered by specialty substring.
func (r *InMemoryRepository) FindVerified(ctx context.Context, specialty string) ([]Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(specialty))
	out := []Provider{}
	for _, p := range r.providers {
		if !p.IsVerified {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Specialty), needle) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// GetByID retrieves a provider by primary key.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	cp := *p
	return &cp, nil
}

// GetByUserID retrieves the provider profile attached to a platform user.
func (r *InMemoryRepository) GetByUserID(ctx context.Context, userID string) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.UserID != "" && p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNoProfile
}

// UpdateProfile applies the editable profile fields for the given user.
func (r *InMemoryRepository) UpdateProfile(ctx context.Context, userID string, update *ProfileUpdate) (*Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.providers {
		if p.UserID != "" && p.UserID == userID {
			update.apply(p)
			p.UpdatedAt = time.Now().UTC()
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNoProfile
}
