package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quotevote/authkeeper/internal/common"
	"github.com/quotevote/authkeeper/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Uniqueness checks and
// the insert happen under one lock, so concurrent Creates with the same
// username cannot both succeed.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.User
	byUsername map[string]string
	byEmail    map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*models.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	email := strings.ToLower(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.UserName]; ok {
		return nil, common.ErrDuplicateAccount
	}
	if email != "" {
		if _, ok := r.byEmail[email]; ok {
			return nil, common.ErrDuplicateAccount
		}
	}

	created := *user
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now().UTC()
	if created.Status == "" {
		created.Status = models.StatusActive
	}

	r.byID[created.ID] = &created
	r.byUsername[created.UserName] = created.ID
	if email != "" {
		r.byEmail[email] = created.ID
	}

	out := created
	return &out, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyOf(id)
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyOf(r.byUsername[username])
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyOf(r.byEmail[strings.ToLower(email)])
}

func (r *MemoryRepository) GetByLogin(ctx context.Context, identifier string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byUsername[identifier]; ok {
		return r.copyOf(id)
	}
	return r.copyOf(r.byEmail[strings.ToLower(identifier)])
}

// SetStatus changes the status of an existing account. Status changes belong
// to the store's owner; the auth service only reads them.
func (r *MemoryRepository) SetStatus(id string, status models.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Status = status
	return nil
}

// Len returns the number of stored accounts.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *MemoryRepository) copyOf(id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}
