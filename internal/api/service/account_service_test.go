package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/pkg/auth"
	"golang-stock-portfolio/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const strongPassword = "Sup3r$ecretPass"

var testPolicy = auth.PasswordPolicy{
	MinLength:      12,
	RequireUpper:   true,
	RequireLower:   true,
	RequireDigit:   true,
	RequireSpecial: true,
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()
	expiresAt := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)

	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	users.On("ExistsByUsername", ctx, "alice").Return(false, nil)
	users.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Role == entity.RoleUser && u.PasswordHash != strongPassword && auth.CheckPassword(u.PasswordHash, strongPassword)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.User).ID = 5
	}).Return(nil)
	tokens.On("Issue", auth.Principal{UserID: 5, Username: "alice", Email: "alice@example.com", Role: entity.RoleUser}).
		Return("signed-token", expiresAt, nil)

	svc := NewAccountService(users, tokens, testPolicy, logger.NewNop())
	resp, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: strongPassword})

	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, expiresAt, resp.ExpiresAt)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAccountService_RegisterWeakPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewAccountService(users, new(MockTokenIssuer), testPolicy, logger.NewNop())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "short"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotEmpty(t, verr.Fields["password"])
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_RegisterDuplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("username", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ExistsByUsername", ctx, "alice").Return(true, nil)
		svc := NewAccountService(users, new(MockTokenIssuer), testPolicy, logger.NewNop())

		_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "other@example.com", Password: strongPassword})

		assert.ErrorIs(t, err, ErrUsernameTaken)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "username")
	})

	t.Run("email", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ExistsByUsername", ctx, "carol").Return(false, nil)
		users.On("ExistsByEmail", ctx, "alice@example.com").Return(true, nil)
		svc := NewAccountService(users, new(MockTokenIssuer), testPolicy, logger.NewNop())

		_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "carol", Email: "alice@example.com", Password: strongPassword})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("race on insert", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ExistsByUsername", ctx, "dave").Return(false, nil)
		users.On("ExistsByEmail", ctx, "dave@example.com").Return(false, nil)
		users.On("Create", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey)
		svc := NewAccountService(users, new(MockTokenIssuer), testPolicy, logger.NewNop())

		_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "dave", Email: "dave@example.com", Password: strongPassword})

		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword(strongPassword)
	require.NoError(t, err)
	user := &entity.User{ID: 3, Username: "alice", Email: "alice@example.com", PasswordHash: hash, Role: entity.RoleUser}

	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	users.On("FindByUsername", ctx, "alice").Return(user, nil)
	users.On("FindByUsername", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)
	tokens.On("Issue", mock.Anything).Return("tok", time.Now().Add(time.Hour), nil)
	svc := NewAccountService(users, tokens, testPolicy, logger.NewNop())

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: strongPassword})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "Wr0ng$password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, errUnknown := svc.Login(ctx, &dto.LoginRequest{Username: "ghost", Password: strongPassword})
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, err.Error(), errUnknown.Error())

	tokens.AssertNumberOfCalls(t, "Issue", 1)
}

func TestAccountService_GetProfile(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("FindByID", ctx, uint(3)).Return(&entity.User{ID: 3, Username: "alice", Role: entity.RoleUser}, nil)
	users.On("FindByID", ctx, uint(4)).Return(nil, gorm.ErrRecordNotFound)
	svc := NewAccountService(users, new(MockTokenIssuer), testPolicy, logger.NewNop())

	profile, err := svc.GetProfile(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	_, err = svc.GetProfile(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}
