// Package services contains server-side business logic. AuthService handles
// guest issuance, registration, login, and refresh-token exchange.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quotevote/authkeeper/internal/common"
	"github.com/quotevote/authkeeper/internal/logging"
	"github.com/quotevote/authkeeper/internal/server/auth"
	"github.com/quotevote/authkeeper/internal/server/config"
	"github.com/quotevote/authkeeper/internal/server/models"
	"github.com/quotevote/authkeeper/internal/server/repositories/users"
)

// Operation names reported to the Observer and the logs.
const (
	OpCreateGuest  = "create_guest"
	OpRegister     = "register"
	OpLogin        = "login"
	OpAuthenticate = "authenticate"
	OpRefresh      = "refresh"
	OpVerifyToken  = "verify_token"
)

const (
	guestNameBytes    = 6
	guestNameAttempts = 3
	dummyPassword     = "not-a-real-password"
)

// Hasher hashes and checks passwords.
type Hasher interface {
	Hash(ctx context.Context, secret string) (string, error)
	Verify(ctx context.Context, secret, hash string) bool
}

// TokenIssuer mints signed tokens for an account snapshot.
type TokenIssuer interface {
	IssueAccess(a *models.Account) (string, error)
	IssueRefresh(a *models.Account) (string, error)
	IssuePair(a *models.Account) (*auth.TokenPair, error)
}

// TokenVerifier decodes tokens presented by callers.
type TokenVerifier interface {
	VerifyAccess(bearer string) (*auth.Claims, error)
	VerifyRefresh(token string) (*auth.Claims, error)
}

// Observer receives the outcome of every operation.
type Observer interface {
	Observe(op string, err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Observe(string, error, time.Duration) {}

// Option customizes an AuthService.
type Option func(*AuthService)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(s *AuthService) { s.log = l.With("module", "auth_service") }
}

// WithObserver sets the operation observer, typically the metrics collector.
func WithObserver(o Observer) Option {
	return func(s *AuthService) { s.obs = o }
}

// AuthService orchestrates the account store, the password hasher, and the
// token codec. It holds no per-request state and is safe for concurrent use.
type AuthService struct {
	repo     users.Repository
	hasher   Hasher
	issuer   TokenIssuer
	verifier TokenVerifier

	storeTimeout time.Duration
	rotate       bool

	log logging.Logger
	obs Observer

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService using cfg for store timeouts and
// refresh-token rotation.
func NewAuthService(repo users.Repository, hasher Hasher, issuer TokenIssuer, verifier TokenVerifier, cfg *config.Config, opts ...Option) *AuthService {
	s := &AuthService{
		repo:         repo,
		hasher:       hasher,
		issuer:       issuer,
		verifier:     verifier,
		storeTimeout: cfg.StoreTimeout,
		rotate:       cfg.RotateRefreshTokens,
		log:          logging.Nop{},
		obs:          nopObserver{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateGuestUser persists a password-less guest account with a random
// username and returns it with a fresh token pair.
func (s *AuthService) CreateGuestUser(ctx context.Context) (acc *models.Account, pair *auth.TokenPair, err error) {
	defer s.observe(ctx, OpCreateGuest, time.Now(), &err)

	var created *models.User
	for attempt := 1; ; attempt++ {
		suffix, rerr := common.MakeRandHexString(guestNameBytes)
		if rerr != nil {
			return nil, nil, fmt.Errorf("generate guest name: %w", rerr)
		}
		guest := &models.User{
			UserName:    "guest_" + suffix,
			DisplayName: common.GuestDisplayName,
			Status:      models.StatusActive,
			IsGuest:     true,
		}

		created, err = s.create(ctx, guest)
		if err == nil {
			break
		}
		if !errors.Is(err, common.ErrDuplicateAccount) || attempt == guestNameAttempts {
			return nil, nil, err
		}
		s.log.Warn(ctx, "guest username collision, regenerating", "attempt", attempt)
	}

	acc = created.Account()
	pair, err = s.issuer.IssuePair(acc)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return acc, pair, nil
}

// Register validates in, rejects taken usernames or emails, and creates the
// account. No tokens are issued; the caller logs in afterwards.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (acc *models.Account, err error) {
	defer s.observe(ctx, OpRegister, time.Now(), &err)

	if err = in.validate(); err != nil {
		return nil, err
	}

	if err = s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.create(ctx, &models.User{
		UserName:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(in.Name),
		Status:       models.StatusActive,
	})
	if err != nil {
		return nil, err
	}
	return created.Account(), nil
}

// Login checks the credential and returns the account with a fresh token
// pair. An unknown identifier and a wrong password both yield
// common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.Account, *auth.TokenPair, error) {
	return s.login(ctx, OpLogin, in)
}

// Authenticate is Login under a second name.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) (*models.Account, *auth.TokenPair, error) {
	return s.login(ctx, OpAuthenticate, in)
}

func (s *AuthService) login(ctx context.Context, op string, in LoginInput) (acc *models.Account, pair *auth.TokenPair, err error) {
	defer s.observe(ctx, op, time.Now(), &err)

	if err = in.validate(); err != nil {
		return nil, nil, err
	}

	user, err := s.lookup(ctx, "get by login", func(ctx context.Context) (*models.User, error) {
		return s.repo.GetByLogin(ctx, in.Identifier)
	})
	if errors.Is(err, common.ErrorNotFound) {
		s.hasher.Verify(ctx, in.Password, s.dummy())
		return nil, nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	hash := user.PasswordHash
	if hash == "" {
		hash = s.dummy()
	}
	if !s.hasher.Verify(ctx, in.Password, hash) || user.PasswordHash == "" {
		if cerr := ctx.Err(); cerr != nil {
			return nil, nil, cerr
		}
		return nil, nil, common.ErrInvalidCredentials
	}
	if user.Disabled() {
		return nil, nil, common.ErrAccountDisabled
	}

	acc = user.Account()
	pair, err = s.issuer.IssuePair(acc)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return acc, pair, nil
}

// Refresh exchanges a refresh token for a new access token. The account is
// re-read so that a disabled account cannot keep minting tokens. The refresh
// token is returned as is unless rotation is enabled.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (pair *auth.TokenPair, err error) {
	defer s.observe(ctx, OpRefresh, time.Now(), &err)

	if refreshToken == "" {
		return nil, common.NewValidationError("refreshToken")
	}

	claims, err := s.verifier.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidRefreshToken, err)
	}

	user, err := s.lookup(ctx, "get by id", func(ctx context.Context) (*models.User, error) {
		return s.repo.GetByID(ctx, claims.AccountID())
	})
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	if user.Disabled() {
		return nil, common.ErrAccountDisabled
	}

	acc := user.Account()
	access, err := s.issuer.IssueAccess(acc)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	pair = &auth.TokenPair{AccessToken: access, RefreshToken: refreshToken}
	if s.rotate {
		if pair.RefreshToken, err = s.issuer.IssueRefresh(acc); err != nil {
			return nil, fmt.Errorf("issue refresh token: %w", err)
		}
	}
	return pair, nil
}

// VerifyToken decodes an access token, with or without the "Bearer " prefix.
func (s *AuthService) VerifyToken(ctx context.Context, bearer string) (claims *auth.Claims, err error) {
	defer s.observe(ctx, OpVerifyToken, time.Now(), &err)
	return s.verifier.VerifyAccess(bearer)
}

// ensureAvailable is a fast path only; the store's unique constraint decides.
func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	_, err := s.lookup(ctx, "get by username", func(ctx context.Context) (*models.User, error) {
		return s.repo.GetByUsername(ctx, username)
	})
	if err == nil {
		return common.ErrDuplicateAccount
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	_, err = s.lookup(ctx, "get by email", func(ctx context.Context) (*models.User, error) {
		return s.repo.GetByEmail(ctx, email)
	})
	if err == nil {
		return common.ErrDuplicateAccount
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return nil
}

// lookup runs a read under the store timeout. ErrorNotFound passes through;
// every other failure becomes a store error.
func (s *AuthService) lookup(ctx context.Context, op string, fn func(context.Context) (*models.User, error)) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	u, err := fn(ctx)
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		return u, err
	}
	s.log.Error(ctx, "account store read failed", "op", op, "error", err)
	return nil, common.StoreError(op, err)
}

// create writes under the store timeout. A unique violation is reported as
// common.ErrDuplicateAccount, anything else as a store error.
func (s *AuthService) create(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	created, err := s.repo.Create(ctx, u)
	if err == nil || errors.Is(err, common.ErrDuplicateAccount) {
		return created, err
	}
	s.log.Error(ctx, "account store write failed", "error", err)
	return nil, common.StoreError("create", err)
}

// dummy returns a hash to compare against when the account does not exist,
// so both login failures cost one bcrypt comparison.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(context.Background(), dummyPassword)
		if err != nil {
			s.log.Warn(context.Background(), "dummy hash unavailable", "error", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *AuthService) observe(ctx context.Context, op string, start time.Time, errp *error) {
	err := *errp
	elapsed := time.Since(start)
	s.obs.Observe(op, err, elapsed)

	kind := common.Kind(err)
	switch kind {
	case common.KindOK:
		s.log.Info(ctx, "operation succeeded", "op", op, "duration", elapsed)
	case common.KindStore, common.KindInternal:
		s.log.Error(ctx, "operation failed", "op", op, "kind", kind, "error", err, "duration", elapsed)
	default:
		s.log.Warn(ctx, "operation rejected", "op", op, "kind", kind, "duration", elapsed)
	}
}
