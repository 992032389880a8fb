package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"anoa.com/neoboard/internal/modules/user/dto"
	"anoa.com/neoboard/internal/modules/user/repository"
	"anoa.com/neoboard/internal/testutil"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/response"
	"anoa.com/neoboard/pkg/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (AuthService, *token.Issuer) {
	db := testutil.NewDB(t)
	issuer := token.NewIssuer("test-secret", time.Hour)
	return NewAuthService(repository.NewUserRepository(db), issuer), issuer
}

func TestRegisterAndLogin(t *testing.T) {
	svc, issuer := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, dto.RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, reg.Success)
	assert.Equal(t, "alice", reg.User.Username)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.False(t, reg.User.IsAnonymous)
	assert.Equal(t, 0, reg.User.PostCount)

	subject, err := issuer.Parse(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, subject)

	login, err := svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", apperror.Message(err))

	_, err = svc.Login(ctx, dto.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRegisterConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterInput{Username: "other", Email: "ALICE@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Email already registered", apperror.Message(err))

	_, err = svc.Register(ctx, dto.RegisterInput{Username: "alice", Email: "new@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Username already taken", apperror.Message(err))
}

func TestRegisterTrimsUsernameBeforeLengthCheck(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterInput{Username: "  ab  ", Email: "ab@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	assert.Equal(t, "Username must be between 3 and 30 characters", apperror.Message(err))

	_, err = svc.Register(ctx, dto.RegisterInput{Username: "    ", Email: "blank@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	reg, err := svc.Register(ctx, dto.RegisterInput{Username: "  bob  ", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bob", reg.User.Username)
}

func TestAnonymousLogin(t *testing.T) {
	svc, issuer := newTestService(t)
	ctx := context.Background()

	first, err := svc.AnonymousLogin(ctx)
	require.NoError(t, err)
	second, err := svc.AnonymousLogin(ctx)
	require.NoError(t, err)

	assert.True(t, first.User.IsAnonymous)
	assert.Equal(t, "Anonymous", first.User.Username)
	assert.Empty(t, first.User.Email)
	assert.NotEqual(t, first.User.ID, second.User.ID)

	id, err := issuer.Parse(first.Token)
	require.NoError(t, err)

	me, err := svc.CurrentUser(ctx, response.AuthContext{UserID: &id})
	require.NoError(t, err)
	assert.True(t, me.User.IsAnonymous)
}

func TestAnonymousUsernameFitsColumn(t *testing.T) {
	s := &authService{now: time.Now}
	name := s.anonymousUsername()

	assert.True(t, strings.HasPrefix(name, "Anonymous_"))
	assert.LessOrEqual(t, len(name), 30)
}

func TestCurrentUserAndLogout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CurrentUser(ctx, response.AuthContext{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	missing := uuid.New()
	_, err = svc.CurrentUser(ctx, response.AuthContext{UserID: &missing})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	reg, err := svc.Register(ctx, dto.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	auth := response.AuthContext{UserID: &reg.User.ID}
	me, err := svc.CurrentUser(ctx, auth)
	require.NoError(t, err)
	assert.Equal(t, "bob", me.User.Username)

	assert.NoError(t, svc.Logout(ctx, auth))
	assert.ErrorIs(t, svc.Logout(ctx, response.AuthContext{}), apperror.ErrUnauthorized)
}
