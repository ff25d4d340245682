package service

import (
	"context"
	"time"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/pkg/auth"

	"github.com/stretchr/testify/mock"
)

// MockStockRepository is a mock stock repository for testing
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockStockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stock), args.Error(1)
}

func (m *MockStockRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stock), args.Error(1)
}

func (m *MockStockRepository) FindAll(ctx context.Context, param dto.GetStocksParam) ([]entity.Stock, error) {
	args := m.Called(ctx, param)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Stock), args.Error(1)
}

func (m *MockStockRepository) Update(ctx context.Context, stock *entity.Stock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockStockRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMarketDataRepository is a mock market data lookup for testing
type MockMarketDataRepository struct {
	mock.Mock
}

func (m *MockMarketDataRepository) GetStockBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stock), args.Error(1)
}

// MockUserRepository is a mock user repository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer is a mock token issuer for testing
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(p auth.Principal) (string, time.Time, error) {
	args := m.Called(p)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockNotifier is a mock telegram notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendMessage(text string) error {
	args := m.Called(text)
	return args.Error(0)
}
