// Package memory provides in-process implementations of the repository
// interfaces. They are safe for concurrent use and back unit tests and local
// runs without Postgres.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prperemyshlev/storefront/internal/catalog"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/repository"
)

// UserRepository stores users keyed by id with a lowercase email index
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return fmt.Errorf("user with email %s already exists: %w", email, repository.ErrDuplicateEmail)
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if user.Status == "" {
		user.Status = domain.StatusUnverified
	}
	user.Email = email

	now := r.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	r.byID[user.ID] = cloneUser(user)
	r.byEmail[email] = user.ID
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("user with email %s not found: %w", email, repository.ErrNotFound)
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s not found: %w", id, repository.ErrNotFound)
	}
	return cloneUser(user), nil
}

func (r *UserRepository) SetRefreshToken(_ context.Context, userID string, tokenHash *string) error {
	return r.update(userID, func(u *domain.User) bool {
		u.RefreshTokenHash = cloneString(tokenHash)
		return true
	})
}

func (r *UserRepository) RotateRefreshToken(_ context.Context, userID, oldHash, newHash string) (bool, error) {
	swapped := false
	err := r.update(userID, func(u *domain.User) bool {
		if u.RefreshTokenHash == nil || *u.RefreshTokenHash != oldHash {
			return false
		}
		u.RefreshTokenHash = &newHash
		swapped = true
		return true
	})
	return swapped, err
}

func (r *UserRepository) UpdateStatus(_ context.Context, userID string, status domain.UserStatus) error {
	return r.update(userID, func(u *domain.User) bool {
		u.Status = status
		if status == domain.StatusBanned {
			u.RefreshTokenHash = nil
		}
		return true
	})
}

func (r *UserRepository) UpdateRole(_ context.Context, userID string, role domain.Role) error {
	return r.update(userID, func(u *domain.User) bool {
		u.Role = role
		return true
	})
}

// update applies fn under the write lock; fn reports whether it changed the record
func (r *UserRepository) update(userID string, fn func(*domain.User) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return fmt.Errorf("user with id %s not found: %w", userID, repository.ErrNotFound)
	}
	if fn(user) {
		user.UpdatedAt = r.now()
	}
	return nil
}

// ProductRepository keeps products in insertion order
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	seq      int64
	now      func() time.Time
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Query filters, sorts with a stable sort and then applies the window
func (r *ProductRepository) Query(_ context.Context, q catalog.Query) ([]domain.Product, int, error) {
	r.mu.RLock()
	matched := make([]domain.Product, 0, len(r.products))
	for i := range r.products {
		if q.Filter.Matches(&r.products[i]) {
			matched = append(matched, cloneProduct(r.products[i]))
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b domain.Product) int {
		return q.Order.Compare(&a, &b)
	})

	total := len(matched)
	start, end := q.Window.Bounds(total)
	return matched[start:end], total, nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.products {
		if r.products[i].ID == id {
			p := cloneProduct(r.products[i])
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with id %s not found: %w", id, repository.ErrNotFound)
}

func (r *ProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	now := r.now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}
	r.seq++
	product.Seq = r.seq

	r.products = append(r.products, cloneProduct(*product))
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.RefreshTokenHash = cloneString(u.RefreshTokenHash)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneProduct(p domain.Product) domain.Product {
	p.Images = slices.Clone(p.Images)
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.ProductRepository = (*ProductRepository)(nil)
)
