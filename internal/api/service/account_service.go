package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/mapper"
	"golang-stock-portfolio/internal/api/repository"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/pkg/auth"
	"golang-stock-portfolio/pkg/logger"

	"gorm.io/gorm"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(p auth.Principal) (string, time.Time, error)
}

// AccountService defines the interface for registration and login.
type AccountService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AccountResponse, error)
	GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error)
}

// NewAccountService creates a new account service.
func NewAccountService(userRepo repository.UserRepository, tokens TokenIssuer, policy auth.PasswordPolicy, logger *logger.Logger) AccountService {
	return &accountService{
		userRepo: userRepo,
		tokens:   tokens,
		policy:   policy,
		logger:   logger,
	}
}

type accountService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	policy   auth.PasswordPolicy
	logger   *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

// Register creates a user with the User role and returns a token for it.
func (s *accountService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error) {
	if problems := s.policy.Validate(req.Password); len(problems) > 0 {
		return nil, NewValidationError("password", problems...)
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check username", logger.ErrorField(err))
		return nil, err
	}
	if taken {
		return nil, usernameTaken()
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check email", logger.ErrorField(err))
		return nil, err
	}
	if taken {
		return nil, &ValidationError{Fields: map[string][]string{"email": {ErrEmailTaken.Error()}}, Err: ErrEmailTaken}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash password", logger.ErrorField(err))
		return nil, err
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         entity.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent registration
			return nil, usernameTaken()
		}
		s.logger.ErrorContext(ctx, "Failed to create user", logger.ErrorField(err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered successfully", logger.Field("user_id", user.ID), logger.StringField("username", user.Username))
	return s.issue(ctx, user)
}

// Login checks the credentials and returns a fresh token. Unknown users and
// wrong passwords produce the same error.
func (s *accountService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AccountResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// keep the response time close to a real password check
			auth.CheckPassword(s.fallbackHash(), req.Password)
			return nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "Failed to find user", logger.ErrorField(err))
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.WarnContext(ctx, "Login rejected", logger.StringField("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *accountService) GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to find user", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, err
	}
	return mapper.ToProfileResponse(user), nil
}

func (s *accountService) issue(ctx context.Context, user *entity.User) (*dto.AccountResponse, error) {
	token, expiresAt, err := s.tokens.Issue(mapper.ToPrincipal(user))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to issue token", logger.ErrorField(err), logger.Field("user_id", user.ID))
		return nil, err
	}
	return mapper.ToAccountResponse(user, token, expiresAt), nil
}

func (s *accountService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPassword("no-such-user-placeholder")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func usernameTaken() error {
	return &ValidationError{Fields: map[string][]string{"username": {ErrUsernameTaken.Error()}}, Err: ErrUsernameTaken}
}
