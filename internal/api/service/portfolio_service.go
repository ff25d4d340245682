package service

import (
	"context"
	"errors"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/mapper"
	"golang-stock-portfolio/internal/api/repository"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/pkg/logger"

	"gorm.io/gorm"
)

// PortfolioService defines the interface for managing a user's portfolio.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, userID uint) ([]*dto.PortfolioResponse, error)
	AddStock(ctx context.Context, userID uint, symbol string) (*dto.PortfolioResponse, error)
	RemoveStock(ctx context.Context, userID uint, symbol string) error
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(portfolioRepo repository.PortfolioRepository, stockRepo repository.StockRepository, resolver StockResolver, logger *logger.Logger) PortfolioService {
	return &portfolioService{
		portfolioRepo: portfolioRepo,
		stockRepo:     stockRepo,
		resolver:      resolver,
		logger:        logger,
	}
}

type portfolioService struct {
	portfolioRepo repository.PortfolioRepository
	stockRepo     repository.StockRepository
	resolver      StockResolver
	logger        *logger.Logger
}

// GetPortfolio returns the user's stocks in the order they were added.
func (s *portfolioService) GetPortfolio(ctx context.Context, userID uint) ([]*dto.PortfolioResponse, error) {
	items, err := s.portfolioRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list portfolio", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, err
	}

	responses := make([]*dto.PortfolioResponse, 0, len(items))
	for i := range items {
		responses = append(responses, mapper.ToPortfolioResponse(&items[i]))
	}
	return responses, nil
}

// AddStock adds the stock with the given symbol, importing it from market
// data when needed. A stock can be held at most once per user.
func (s *portfolioService) AddStock(ctx context.Context, userID uint, symbol string) (*dto.PortfolioResponse, error) {
	stock, err := s.resolver.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}

	exists, err := s.portfolioRepo.Exists(ctx, userID, stock.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check portfolio", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInPortfolio
	}

	item := &entity.Portfolio{UserID: userID, StockID: stock.ID}
	if err := s.portfolioRepo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInPortfolio
		}
		s.logger.ErrorContext(ctx, "Failed to add stock to portfolio", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, err
	}
	item.Stock = *stock

	s.logger.InfoContext(ctx, "Stock added to portfolio", logger.Field("user_id", userID), logger.StringField("symbol", stock.Symbol))
	return mapper.ToPortfolioResponse(item), nil
}

// RemoveStock removes the stock from the user's portfolio. Stocks that are
// unknown or not held report ErrNotInPortfolio and change nothing.
func (s *portfolioService) RemoveStock(ctx context.Context, userID uint, symbol string) error {
	stock, err := s.stockRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotInPortfolio
		}
		s.logger.ErrorContext(ctx, "Failed to find stock", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return err
	}

	if err := s.portfolioRepo.Delete(ctx, userID, stock.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotInPortfolio
		}
		s.logger.ErrorContext(ctx, "Failed to remove stock from portfolio", logger.ErrorField(err), logger.Field("user_id", userID))
		return err
	}

	s.logger.InfoContext(ctx, "Stock removed from portfolio", logger.Field("user_id", userID), logger.StringField("symbol", stock.Symbol))
	return nil
}
