// Package password hashes and verifies account passwords with bcrypt.
package password

import (
	"context"
	"fmt"

	"github.com/quotevote/authkeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest secret bcrypt accepts.
const MaxLength = 72

// Bcrypt hashes with a fixed work factor. A Bcrypt is immutable and safe for
// concurrent use.
type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Cost returns the configured work factor.
func (b *Bcrypt) Cost() int { return b.cost }

type hashResult struct {
	hash string
	err  error
}

// Hash returns a salted bcrypt hash of secret. The salt is random per call.
// Hashing runs on its own goroutine; if ctx ends first, ctx.Err() is returned
// and the result is discarded.
func (b *Bcrypt) Hash(ctx context.Context, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}
	if len(secret) > MaxLength {
		return "", fmt.Errorf("%w: password longer than %d bytes", common.ErrInvalidInput, MaxLength)
	}

	done := make(chan hashResult, 1)
	go func() {
		h, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
		done <- hashResult{hash: string(h), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("hash password: %w", r.err)
		}
		return r.hash, nil
	}
}

// Verify reports whether secret matches hash. Malformed hashes, empty input
// and a done ctx all yield false. The comparison itself is constant-time.
func (b *Bcrypt) Verify(ctx context.Context, secret, hash string) bool {
	if secret == "" || hash == "" {
		return false
	}

	done := make(chan bool, 1)
	go func() {
		done <- bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
	}()

	select {
	case <-ctx.Done():
		return false
	case ok := <-done:
		return ok
	}
}
