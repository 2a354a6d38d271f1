package auth

import (
	"time"

	"github.com/quotevote/authkeeper/internal/common"
)

type options struct {
	now func() time.Time
}

// Option configures a Codec or Verifier.
type Option func(*options)

// WithClock replaces time.Now. Tests use it to mint already-expired tokens.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func checkSecret(secret []byte) error {
	if len(secret) == 0 {
		return common.ErrMisconfiguredSigningKey
	}
	return nil
}
