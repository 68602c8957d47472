package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vnshop/storefront/internal/domain"
)

// Account is a stored user with the fields the wire model never exposes.
type Account struct {
	domain.User
	PasswordHash string
	SecretCode   string
	Confirmed    bool
}

// Roles derives the granted authorities from the account type.
func (a *Account) Roles() domain.RoleSet {
	switch strings.ToUpper(a.Type) {
	case "ADMIN", "ROLE_ADMIN":
		return domain.NewRoleSet("ROLE_ADMIN", "ROLE_USER")
	default:
		return domain.NewRoleSet("ROLE_USER")
	}
}

// UserRepository defines access to storefront accounts.
type UserRepository interface {
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetBySecretCode(ctx context.Context, code string) (*Account, error)
	List(ctx context.Context, page, size int, keyword string) (domain.UserPage, error)
	Count(ctx context.Context) int64
}

type userRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Account
}

// NewUserRepository returns an in-memory implementation.
func NewUserRepository() UserRepository {
	return &userRepository{nextID: 1, byID: make(map[int64]Account)}
}

func (r *userRepository) Create(_ context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if strings.EqualFold(existing.Username, account.Username) || strings.EqualFold(existing.Email, account.Email) {
			return ErrConflict
		}
	}
	account.ID = r.nextID
	r.nextID++
	if account.CreatedAt == "" {
		account.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	r.byID[account.ID] = *account
	return nil
}

func (r *userRepository) Update(_ context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[account.ID]; !ok {
		return ErrNotFound
	}
	r.byID[account.ID] = *account
	return nil
}

func (r *userRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*Account, error) {
	return r.find(func(a Account) bool { return strings.EqualFold(a.Username, username) })
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*Account, error) {
	return r.find(func(a Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r *userRepository) GetBySecretCode(_ context.Context, code string) (*Account, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	return r.find(func(a Account) bool { return a.SecretCode == code })
}

func (r *userRepository) List(_ context.Context, page, size int, keyword string) (domain.UserPage, error) {
	r.mu.RLock()
	matched := make([]domain.User, 0, len(r.byID))
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	for _, account := range r.byID {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(account.Username), keyword) &&
			!strings.Contains(strings.ToLower(account.Email), keyword) &&
			!strings.Contains(strings.ToLower(account.FullName), keyword) {
			continue
		}
		matched = append(matched, account.User)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	start, end := paginate(len(matched), page, size)
	return domain.UserPage{
		Users:         matched[start:end],
		TotalElements: int64(len(matched)),
		TotalPages:    totalPages(int64(len(matched)), size),
	}, nil
}

func (r *userRepository) Count(_ context.Context) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID))
}

func (r *userRepository) find(match func(Account) bool) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.byID {
		if match(account) {
			found := account
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
