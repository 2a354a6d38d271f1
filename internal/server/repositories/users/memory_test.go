package users

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/quotevote/authkeeper/internal/common"
	"github.com/quotevote/authkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Repository = (*MemoryRepository)(nil)
var _ Repository = (*PostgresRepository)(nil)

func TestMemory_CreateAndLookups(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{UserName: "alice", Email: "Alice@Example.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.Equal(t, models.StatusActive, u.Status)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	byName, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := r.GetByEmail(ctx, "alice@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	for _, ident := range []string{"alice", "alice@example.com"} {
		got, err := r.GetByLogin(ctx, ident)
		require.NoError(t, err, ident)
		assert.Equal(t, u.ID, got.ID)
	}

	_, err = r.GetByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, common.ErrorNotFound, "usernames are case-sensitive")
}

func TestMemory_NotFound(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetByEmail(ctx, "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetByLogin(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_Duplicates(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, &models.User{UserName: "alice", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.User{UserName: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, common.ErrDuplicateAccount)

	_, err = r.Create(ctx, &models.User{UserName: "bob", Email: "A@EXAMPLE.COM"})
	assert.ErrorIs(t, err, common.ErrDuplicateAccount)

	// accounts without email never collide on email
	_, err = r.Create(ctx, &models.User{UserName: "guest_1"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.User{UserName: "guest_2"})
	require.NoError(t, err)

	assert.Equal(t, 3, r.Len())
}

func TestMemory_ConcurrentCreateSameUsername(t *testing.T) {
	r := NewMemoryRepository()

	const n = 32
	var ok, dup atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Create(context.Background(), &models.User{
				UserName: "racer",
				Email:    fmt.Sprintf("r%d@example.com", i),
			})
			switch {
			case err == nil:
				ok.Add(1)
			case assert.ErrorIs(t, err, common.ErrDuplicateAccount):
				dup.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(n-1), dup.Load())
	assert.Equal(t, 1, r.Len())
}

func TestMemory_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{UserName: "alice"})
	require.NoError(t, err)
	u.DisplayName = "mutated"

	again, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, again.DisplayName)
}

func TestMemory_SetStatus(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{UserName: "alice"})
	require.NoError(t, err)

	require.NoError(t, r.SetStatus(u.ID, models.StatusDisabled))
	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Disabled())

	assert.ErrorIs(t, r.SetStatus("missing", models.StatusActive), common.ErrorNotFound)
}

func TestMemory_CanceledContext(t *testing.T) {
	r := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Create(ctx, &models.User{UserName: "alice"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = r.GetByLogin(ctx, "alice")
	assert.ErrorIs(t, err, context.Canceled)
}
