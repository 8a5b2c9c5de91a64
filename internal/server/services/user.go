// Package services implements the account and room flows on top of the
// stores and the auth primitives. Errors returned to transports are either
// *ValidationError, *ConflictError, common.ErrInvalidCredentials or
// common.ErrorInternal; the cause of an internal error is logged here and
// never returned.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/logging"
	"github.com/dmitrijs2005/storypoint/internal/server/auth"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/dmitrijs2005/storypoint/internal/server/repositories/users"
)

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, id models.Identity) (string, error)
}

// Session is the result of a successful sign-up or log-in.
type Session struct {
	User  models.Identity
	Token string
}

type UserService struct {
	users        users.Repository
	hasher       auth.Hasher
	tokens       TokenIssuer
	logger       logging.Logger
	storeTimeout time.Duration

	// decoyHash is compared against when the user does not exist so that
	// unknown usernames cost the same bcrypt work as wrong passwords.
	decoyHash func() string
}

type Option func(*options)

type options struct {
	storeTimeout time.Duration
	now          func() time.Time
}

// WithStoreTimeout bounds every store call made by a flow.
func WithStoreTimeout(d time.Duration) Option {
	return func(o *options) { o.storeTimeout = d }
}

// WithClock replaces time.Now for room timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewUserService(repo users.Repository, hasher auth.Hasher, tokens TokenIssuer, logger logging.Logger, opts ...Option) *UserService {
	o := buildOptions(opts)
	return &UserService{
		users:        repo,
		hasher:       hasher,
		tokens:       tokens,
		logger:       logger.With("module", "users"),
		storeTimeout: o.storeTimeout,
		decoyHash: sync.OnceValue(func() string {
			h, _ := hasher.Hash("decoy-password")
			return h
		}),
	}
}

func (s *UserService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout > 0 {
		return context.WithTimeout(ctx, s.storeTimeout)
	}
	return ctx, func() {}
}

func (s *UserService) internal(ctx context.Context, msg string, err error, args ...any) error {
	s.logger.Error(ctx, msg, append(args, "error", err)...)
	return common.ErrorInternal
}

// SignUp registers a new account and opens a session for it.
func (s *UserService) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	if err := check(req, signUpRules); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, invalid(MsgPasswordTooLong)
		}
		return nil, s.internal(ctx, "password hashing failed", err)
	}

	user := &models.User{
		UserName:     req.UserName,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if _, err := s.users.Register(sctx, user); err != nil {
		switch {
		case errors.Is(err, common.ErrUsernameExists):
			return nil, &ConflictError{Field: "username"}
		case errors.Is(err, common.ErrEmailExists):
			return nil, &ConflictError{Field: "email"}
		}
		return nil, s.internal(ctx, "registration failed", err, "username", req.UserName)
	}

	s.logger.Info(ctx, "user registered", "username", user.UserName)
	return s.openSession(ctx, user.Identity())
}

// LogIn checks credentials. Unknown users and wrong passwords both yield
// common.ErrInvalidCredentials.
func (s *UserService) LogIn(ctx context.Context, req LogInRequest) (*Session, error) {
	if err := check(req, logInRules); err != nil {
		return nil, err
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	user, err := s.users.GetUserByLogin(sctx, req.UserName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(req.Password, s.decoyHash())
			s.logger.Warn(ctx, "log-in for unknown user", "username", req.UserName)
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.internal(ctx, "user lookup failed", err, "username", req.UserName)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.logger.Warn(ctx, "log-in with wrong password", "username", req.UserName)
		return nil, common.ErrInvalidCredentials
	}

	return s.openSession(ctx, user.Identity())
}

// ChangePassword replaces the password of userName, who has already passed
// the authorization gate. Sessions issued before the change stay valid until
// they expire.
func (s *UserService) ChangePassword(ctx context.Context, userName string, req ChangePasswordRequest) error {
	if err := check(req, changePasswordRules); err != nil {
		return err
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	user, err := s.users.GetUserByLogin(sctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return invalid(MsgInvalidUsername)
		}
		return s.internal(ctx, "user lookup failed", err, "username", userName)
	}

	if !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		return invalid(MsgWrongCurrentPassword)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return invalid(MsgNewPasswordTooLong)
		}
		return s.internal(ctx, "password hashing failed", err)
	}

	if err := s.users.UpdatePassword(sctx, userName, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return invalid(MsgInvalidUsername)
		}
		return s.internal(ctx, "password update failed", err, "username", userName)
	}

	s.logger.Info(ctx, "password changed", "username", userName)
	return nil
}

func (s *UserService) openSession(ctx context.Context, id models.Identity) (*Session, error) {
	token, err := s.tokens.Issue(ctx, id)
	if err != nil {
		return nil, s.internal(ctx, "token issue failed", err, "username", id.UserName)
	}
	return &Session{User: id, Token: token}, nil
}
