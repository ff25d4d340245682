package service

import (
	"context"
	"errors"
	"fmt"

	"golang-stock-portfolio/internal/api/repository"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/pkg/logger"

	"gorm.io/gorm"
)

// StockResolver finds a stock by symbol in the database and, on a miss,
// imports it from the market data API.
type StockResolver interface {
	Resolve(ctx context.Context, symbol string) (*entity.Stock, error)
}

// NewStockResolver creates a new stock resolver.
func NewStockResolver(stockRepo repository.StockRepository, marketDataRepo repository.MarketDataRepository, logger *logger.Logger) StockResolver {
	return &stockResolver{
		stockRepo:      stockRepo,
		marketDataRepo: marketDataRepo,
		logger:         logger,
	}
}

type stockResolver struct {
	stockRepo      repository.StockRepository
	marketDataRepo repository.MarketDataRepository
	logger         *logger.Logger
}

// Resolve returns ErrStockNotFound when neither source knows the symbol.
// A stock found only by the market data API is persisted before returning.
func (r *stockResolver) Resolve(ctx context.Context, symbol string) (*entity.Stock, error) {
	stock, err := r.stockRepo.FindBySymbol(ctx, symbol)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find stock %s: %w", symbol, err)
	}

	fetched, err := r.marketDataRepo.GetStockBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if fetched == nil {
		r.logger.InfoContext(ctx, "Stock not found locally or in market data", logger.StringField("symbol", symbol))
		return nil, ErrStockNotFound
	}

	if err := r.stockRepo.Create(ctx, fetched); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// imported by a concurrent request
			return r.stockRepo.FindBySymbol(ctx, fetched.Symbol)
		}
		r.logger.ErrorContext(ctx, "Failed to persist imported stock", logger.ErrorField(err), logger.StringField("symbol", fetched.Symbol))
		return nil, err
	}

	r.logger.InfoContext(ctx, "Stock imported from market data", logger.StringField("symbol", fetched.Symbol), logger.Field("stock_id", fetched.ID))
	return fetched, nil
}
