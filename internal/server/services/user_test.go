package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/logging"
	"github.com/dmitrijs2005/storypoint/internal/server/auth"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/dmitrijs2005/storypoint/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

type fakeTokens struct {
	err    error
	issued []models.Identity
}

func (f *fakeTokens) Issue(ctx context.Context, id models.Identity) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.issued = append(f.issued, id)
	return "token-for-" + id.UserName, nil
}

// failingUsers wraps a real store and injects errors per method.
type failingUsers struct {
	users.Repository
	registerErr error
	getErr      error
	updateErr   error
}

func (f *failingUsers) Register(ctx context.Context, u *models.User) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.Repository.Register(ctx, u)
}

func (f *failingUsers) GetUserByLogin(ctx context.Context, name string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.GetUserByLogin(ctx, name)
}

func (f *failingUsers) UpdatePassword(ctx context.Context, name, hash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.Repository.UpdatePassword(ctx, name, hash)
}

type fixture struct {
	svc    *UserService
	repo   *users.MemoryRepository
	tokens *fakeTokens
	hasher *auth.BcryptHasher
	logs   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:   users.NewMemoryRepository(),
		tokens: &fakeTokens{},
		hasher: auth.NewBcryptHasher(auth.WithCost(bcrypt.MinCost)),
		logs:   &bytes.Buffer{},
	}
	f.svc = NewUserService(f.repo, f.hasher, f.tokens, logging.New("json", "debug", f.logs))
	return f
}

func aliceSignUp() SignUpRequest {
	return SignUpRequest{UserName: "alice", Email: "a@b.com", Password: "longenough1", FirstName: "A", LastName: "B"}
}

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err)
	assert.Equal(t, msg, ve.Message)
}

// --- sign-up ---

func TestSignUp_Success(t *testing.T) {
	f := newFixture(t)

	s, err := f.svc.SignUp(context.Background(), aliceSignUp())
	require.NoError(t, err)

	want := models.Identity{UserName: "alice", Email: "a@b.com", FirstName: "A", LastName: "B"}
	assert.Equal(t, want, s.User)
	assert.Equal(t, "token-for-alice", s.Token)
	assert.Equal(t, []models.Identity{want}, f.tokens.issued)

	stored, err := f.repo.GetUserByLogin(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough1", stored.PasswordHash)
	assert.True(t, f.hasher.Verify("longenough1", stored.PasswordHash))
}

func TestSignUp_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *SignUpRequest)
		msg    string
	}{
		{"missing username", func(r *SignUpRequest) { r.UserName = "" }, MsgMissingFields},
		{"missing email", func(r *SignUpRequest) { r.Email = "" }, MsgMissingFields},
		{"missing password", func(r *SignUpRequest) { r.Password = "" }, MsgMissingFields},
		{"missing first name", func(r *SignUpRequest) { r.FirstName = "" }, MsgMissingFields},
		{"missing last name", func(r *SignUpRequest) { r.LastName = "" }, MsgMissingFields},
		{"missing wins over bad email", func(r *SignUpRequest) { r.LastName = ""; r.Email = "nope" }, MsgMissingFields},
		{"no at sign", func(r *SignUpRequest) { r.Email = "alice.b.com" }, MsgInvalidEmail},
		{"no dot in domain", func(r *SignUpRequest) { r.Email = "a@localhost" }, MsgInvalidEmail},
		{"whitespace", func(r *SignUpRequest) { r.Email = "a b@c.com" }, MsgInvalidEmail},
		{"two at signs", func(r *SignUpRequest) { r.Email = "a@b@c.com" }, MsgInvalidEmail},
		{"bad email wins over short password", func(r *SignUpRequest) { r.Email = "x"; r.Password = "short" }, MsgInvalidEmail},
		{"password 7 chars", func(r *SignUpRequest) { r.Password = "1234567" }, MsgPasswordTooShort},
		{"password over 72 bytes", func(r *SignUpRequest) { r.Password = strings.Repeat("p", 73) }, MsgPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := aliceSignUp()
			tt.mutate(&req)

			_, err := f.svc.SignUp(context.Background(), req)
			requireValidation(t, err, tt.msg)

			n, _ := f.repo.Counts()
			assert.Zero(t, n)
			assert.Empty(t, f.tokens.issued)
		})
	}
}

func TestSignUp_PasswordExactly8(t *testing.T) {
	f := newFixture(t)
	req := aliceSignUp()
	req.Password = "12345678"

	_, err := f.svc.SignUp(context.Background(), req)
	require.NoError(t, err)
}

func TestSignUp_Conflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, aliceSignUp())
	require.NoError(t, err)

	sameUser := aliceSignUp()
	sameUser.Email = "other@b.com"
	_, err = f.svc.SignUp(ctx, sameUser)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Username already exists", ce.Error())
	assert.ErrorIs(t, err, common.ErrUsernameExists)

	sameEmail := aliceSignUp()
	sameEmail.UserName = "bob"
	_, err = f.svc.SignUp(ctx, sameEmail)
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Email already exists", ce.Error())
	assert.ErrorIs(t, err, common.ErrEmailExists)

	users, emails := f.repo.Counts()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, emails)
	assert.Len(t, f.tokens.issued, 1)
}

func TestSignUp_ConcurrentSameEmail(t *testing.T) {
	f := newFixture(t)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := aliceSignUp()
			req.UserName = "user" + string(rune('a'+i))
			_, err := f.svc.SignUp(context.Background(), req)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, common.ErrEmailExists) {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestSignUp_InternalErrors(t *testing.T) {
	t.Run("store outage", func(t *testing.T) {
		f := newFixture(t)
		repo := &failingUsers{Repository: f.repo, registerErr: errors.New("connection reset")}
		svc := NewUserService(repo, f.hasher, f.tokens, logging.New("json", "debug", f.logs))

		_, err := svc.SignUp(context.Background(), aliceSignUp())
		require.ErrorIs(t, err, common.ErrorInternal)
		assert.NotContains(t, err.Error(), "connection reset")
		assert.Contains(t, f.logs.String(), "connection reset")
	})

	t.Run("token failure", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.err = errors.New("vault down")

		_, err := f.svc.SignUp(context.Background(), aliceSignUp())
		require.ErrorIs(t, err, common.ErrorInternal)
		assert.Contains(t, f.logs.String(), "vault down")
	})
}

// --- log-in ---

func TestLogIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SignUp(ctx, aliceSignUp())
	require.NoError(t, err)

	s, err := f.svc.LogIn(ctx, LogInRequest{UserName: "alice", Password: "longenough1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", s.User.UserName)
	assert.Equal(t, "a@b.com", s.User.Email)
	assert.Equal(t, "token-for-alice", s.Token)
}

func TestLogIn_NoExistenceOracle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SignUp(ctx, aliceSignUp())
	require.NoError(t, err)

	_, wrongPassword := f.svc.LogIn(ctx, LogInRequest{UserName: "alice", Password: "wrongpass1"})
	_, unknownUser := f.svc.LogIn(ctx, LogInRequest{UserName: "mallory", Password: "longenough1"})

	require.ErrorIs(t, wrongPassword, common.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, common.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownUser)
}

func TestLogIn_Validation(t *testing.T) {
	f := newFixture(t)

	for _, req := range []LogInRequest{{}, {UserName: "alice"}, {Password: "longenough1"}} {
		_, err := f.svc.LogIn(context.Background(), req)
		requireValidation(t, err, MsgMissingFields)
	}
}

func TestLogIn_StoreOutage(t *testing.T) {
	f := newFixture(t)
	repo := &failingUsers{Repository: f.repo, getErr: errors.New("timeout")}
	svc := NewUserService(repo, f.hasher, f.tokens, logging.New("json", "debug", f.logs))

	_, err := svc.LogIn(context.Background(), LogInRequest{UserName: "alice", Password: "longenough1"})
	require.ErrorIs(t, err, common.ErrorInternal)
}

// --- change password ---

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SignUp(ctx, aliceSignUp())
	require.NoError(t, err)

	err = f.svc.ChangePassword(ctx, "alice", ChangePasswordRequest{CurrentPassword: "longenough1", NewPassword: "evenlonger2"})
	require.NoError(t, err)

	_, err = f.svc.LogIn(ctx, LogInRequest{UserName: "alice", Password: "longenough1"})
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = f.svc.LogIn(ctx, LogInRequest{UserName: "alice", Password: "evenlonger2"})
	require.NoError(t, err)

	stored, _ := f.repo.GetUserByLogin(ctx, "alice")
	assert.Equal(t, "a@b.com", stored.Email, "only the hash changes")
}

func TestChangePassword_Rejections(t *testing.T) {
	tests := []struct {
		name string
		user string
		req  ChangePasswordRequest
		msg  string
	}{
		{"missing current", "alice", ChangePasswordRequest{NewPassword: "evenlonger2"}, MsgMissingFields},
		{"missing new", "alice", ChangePasswordRequest{CurrentPassword: "longenough1"}, MsgMissingFields},
		{"new too short", "alice", ChangePasswordRequest{CurrentPassword: "longenough1", NewPassword: "short"}, MsgNewPasswordTooShort},
		{"short wins over same", "alice", ChangePasswordRequest{CurrentPassword: "short", NewPassword: "short"}, MsgNewPasswordTooShort},
		{"same as current", "alice", ChangePasswordRequest{CurrentPassword: "longenough1", NewPassword: "longenough1"}, MsgNewPasswordSame},
		{"wrong current", "alice", ChangePasswordRequest{CurrentPassword: "notmypass1", NewPassword: "evenlonger2"}, MsgWrongCurrentPassword},
		{"new too long", "alice", ChangePasswordRequest{CurrentPassword: "longenough1", NewPassword: strings.Repeat("n", 73)}, MsgNewPasswordTooLong},
		{"user vanished", "ghost", ChangePasswordRequest{CurrentPassword: "longenough1", NewPassword: "evenlonger2"}, MsgInvalidUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			_, err := f.svc.SignUp(ctx, aliceSignUp())
			require.NoError(t, err)
			before, _ := f.repo.GetUserByLogin(ctx, "alice")

			err = f.svc.ChangePassword(ctx, tt.user, tt.req)
			requireValidation(t, err, tt.msg)

			after, _ := f.repo.GetUserByLogin(ctx, "alice")
			assert.Equal(t, before.PasswordHash, after.PasswordHash)
		})
	}
}

func TestChangePassword_UpdateFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SignUp(ctx, aliceSignUp())
	require.NoError(t, err)

	repo := &failingUsers{Repository: f.repo, updateErr: errors.New("throttled")}
	svc := NewUserService(repo, f.hasher, f.tokens, logging.New("json", "debug", f.logs))

	err = svc.ChangePassword(ctx, "alice", ChangePasswordRequest{CurrentPassword: "longenough1", NewPassword: "evenlonger2"})
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.Contains(t, f.logs.String(), "throttled")
}

func TestConflictError(t *testing.T) {
	assert.Equal(t, "Username already exists", (&ConflictError{Field: "username"}).Error())
	assert.Equal(t, "Email already exists", (&ConflictError{Field: "email"}).Error())
	assert.Equal(t, "phone already exists", (&ConflictError{Field: "phone"}).Error())
	assert.Nil(t, (&ConflictError{Field: "phone"}).Unwrap())
}
