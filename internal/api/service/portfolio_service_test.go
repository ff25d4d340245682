package service

import (
	"context"
	"testing"

	"golang-stock-portfolio/internal/api/repository"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/internal/testutil"
	"golang-stock-portfolio/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPortfolioService(db *gorm.DB, marketData repository.MarketDataRepository) PortfolioService {
	stockRepo := repository.NewStockRepository(db)
	resolver := NewStockResolver(stockRepo, marketData, logger.NewNop())
	return NewPortfolioService(repository.NewPortfolioRepository(db), stockRepo, resolver, logger.NewNop())
}

func TestPortfolioService_EmptyPortfolio(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")

	items, err := newPortfolioService(db, new(MockMarketDataRepository)).GetPortfolio(context.Background(), user.ID)

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestPortfolioService_AddImportsAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")
	marketData := new(MockMarketDataRepository)
	marketData.On("GetStockBySymbol", mock.Anything, "AAPL").Return(&entity.Stock{
		Symbol:      "AAPL",
		CompanyName: "Apple Inc.",
		Price:       decimal.RequireFromString("187.5"),
	}, nil).Once()
	svc := newPortfolioService(db, marketData)

	added, err := svc.AddStock(ctx, user.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", added.Symbol)
	assert.Equal(t, "Apple Inc.", added.CompanyName)

	// second add hits the stored stock, not the market data API
	_, err = svc.AddStock(ctx, user.ID, "aapl")
	assert.ErrorIs(t, err, ErrAlreadyInPortfolio)
	marketData.AssertNumberOfCalls(t, "GetStockBySymbol", 1)

	items, err := svc.GetPortfolio(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AAPL", items[0].Symbol)
}

func TestPortfolioService_AddUnknownSymbol(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")
	marketData := new(MockMarketDataRepository)
	marketData.On("GetStockBySymbol", mock.Anything, "NOPE").Return(nil, nil)

	_, err := newPortfolioService(db, marketData).AddStock(ctx, user.ID, "NOPE")

	assert.ErrorIs(t, err, ErrStockNotFound)
	var count int64
	db.Model(&entity.Portfolio{}).Count(&count)
	assert.Zero(t, count)
}

func TestPortfolioService_PortfoliosAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreateStock(t, db, "AAPL", "Apple Inc.")
	testutil.CreateStock(t, db, "TSLA", "Tesla")
	svc := newPortfolioService(db, new(MockMarketDataRepository))

	_, err := svc.AddStock(ctx, alice.ID, "AAPL")
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, bob.ID, "AAPL")
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, bob.ID, "TSLA")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveStock(ctx, alice.ID, "aapl"))

	aliceItems, err := svc.GetPortfolio(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceItems)

	bobItems, err := svc.GetPortfolio(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobItems, 2)
	assert.Equal(t, "AAPL", bobItems[0].Symbol)
	assert.Equal(t, "TSLA", bobItems[1].Symbol)
}

func TestPortfolioService_RemoveNotHeld(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")
	testutil.CreateStock(t, db, "AAPL", "Apple Inc.")
	svc := newPortfolioService(db, new(MockMarketDataRepository))

	assert.ErrorIs(t, svc.RemoveStock(ctx, user.ID, "AAPL"), ErrNotInPortfolio)
	assert.ErrorIs(t, svc.RemoveStock(ctx, user.ID, "UNKNOWN"), ErrNotInPortfolio)
}
