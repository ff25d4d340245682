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

// StockService defines the interface for managing stocks.
type StockService interface {
	GetStocks(ctx context.Context, query *dto.StockQuery) ([]*dto.StockResponse, error)
	GetStockByID(ctx context.Context, id uint) (*dto.StockResponse, error)
	CreateStock(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error)
	UpdateStock(ctx context.Context, id uint, req *dto.UpdateStockRequest) (*dto.StockResponse, error)
	DeleteStock(ctx context.Context, id uint) error
}

// NewStockService creates a new stock service.
func NewStockService(stockRepo repository.StockRepository, commentRepo repository.CommentRepository, logger *logger.Logger) StockService {
	return &stockService{
		stockRepo:   stockRepo,
		commentRepo: commentRepo,
		logger:      logger,
	}
}

type stockService struct {
	stockRepo   repository.StockRepository
	commentRepo repository.CommentRepository
	logger      *logger.Logger
}

// GetStocks lists one page of stocks with their comments.
func (s *stockService) GetStocks(ctx context.Context, query *dto.StockQuery) ([]*dto.StockResponse, error) {
	pageNumber := query.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > dto.MaxPageNumber {
		pageNumber = dto.MaxPageNumber
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = dto.DefaultPageSize
	}
	if pageSize > dto.MaxPageSize {
		pageSize = dto.MaxPageSize
	}

	stocks, err := s.stockRepo.FindAll(ctx, dto.GetStocksParam{
		Symbol:      query.Symbol,
		CompanyName: query.CompanyName,
		SortBy:      query.SortBy,
		Descending:  query.IsDescending,
		Offset:      (pageNumber - 1) * pageSize,
		Limit:       pageSize,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list stocks", logger.ErrorField(err))
		return nil, err
	}

	responses := make([]*dto.StockResponse, 0, len(stocks))
	if len(stocks) == 0 {
		return responses, nil
	}

	ids := make([]uint, 0, len(stocks))
	for _, stock := range stocks {
		ids = append(ids, stock.ID)
	}
	comments, err := s.commentRepo.FindAll(ctx, dto.GetCommentsParam{StockIDs: ids})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list comments for stocks", logger.ErrorField(err))
		return nil, err
	}

	byStock := make(map[uint][]entity.Comment, len(stocks))
	for _, comment := range comments {
		byStock[comment.StockID] = append(byStock[comment.StockID], comment)
	}
	for i := range stocks {
		responses = append(responses, mapper.ToStockResponse(&stocks[i], byStock[stocks[i].ID]))
	}
	return responses, nil
}

// GetStockByID retrieves a stock and its comments.
func (s *stockService) GetStockByID(ctx context.Context, id uint) (*dto.StockResponse, error) {
	stock, err := s.findStock(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindAll(ctx, dto.GetCommentsParam{StockIDs: []uint{stock.ID}})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list comments for stock", logger.ErrorField(err), logger.Field("stock_id", id))
		return nil, err
	}
	return mapper.ToStockResponse(stock, comments), nil
}

// CreateStock handles the business logic for creating a new stock.
func (s *stockService) CreateStock(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error) {
	stock := mapper.StockFromCreateRequest(req)
	if err := s.stockRepo.Create(ctx, stock); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSymbol
		}
		s.logger.ErrorContext(ctx, "Failed to create stock", logger.ErrorField(err), logger.StringField("symbol", req.Symbol))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Stock created successfully", logger.Field("stock_id", stock.ID), logger.StringField("symbol", stock.Symbol))
	return mapper.ToStockResponse(stock, nil), nil
}

// UpdateStock overwrites the business fields of an existing stock.
func (s *stockService) UpdateStock(ctx context.Context, id uint, req *dto.UpdateStockRequest) (*dto.StockResponse, error) {
	stock, err := s.findStock(ctx, id)
	if err != nil {
		return nil, err
	}

	mapper.ApplyStockUpdate(stock, req)
	if err := s.stockRepo.Update(ctx, stock); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSymbol
		}
		s.logger.ErrorContext(ctx, "Failed to update stock", logger.ErrorField(err), logger.Field("stock_id", id))
		return nil, err
	}

	comments, err := s.commentRepo.FindAll(ctx, dto.GetCommentsParam{StockIDs: []uint{stock.ID}})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Stock updated successfully", logger.Field("stock_id", id))
	return mapper.ToStockResponse(stock, comments), nil
}

// DeleteStock deletes a stock with its comments and portfolio rows.
func (s *stockService) DeleteStock(ctx context.Context, id uint) error {
	if err := s.stockRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to delete stock", logger.ErrorField(err), logger.Field("stock_id", id))
		return err
	}
	s.logger.InfoContext(ctx, "Stock deleted successfully", logger.Field("stock_id", id))
	return nil
}

func (s *stockService) findStock(ctx context.Context, id uint) (*entity.Stock, error) {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to find stock", logger.ErrorField(err), logger.Field("stock_id", id))
		return nil, err
	}
	return stock, nil
}
