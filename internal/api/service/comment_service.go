package service

import (
	"context"
	"errors"
	"time"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/mapper"
	"golang-stock-portfolio/internal/api/repository"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/pkg/auth"
	"golang-stock-portfolio/pkg/logger"

	"gorm.io/gorm"
)

// CommentService defines the interface for managing comments on stocks.
type CommentService interface {
	GetComments(ctx context.Context, query *dto.CommentQuery) ([]*dto.CommentResponse, error)
	GetCommentByID(ctx context.Context, id uint) (*dto.CommentResponse, error)
	CreateComment(ctx context.Context, principal auth.Principal, symbol string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, id uint, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, id uint) error
}

// NewCommentService creates a new comment service. now stamps CreatedOn; nil means time.Now.
func NewCommentService(commentRepo repository.CommentRepository, resolver StockResolver, logger *logger.Logger, now func() time.Time) CommentService {
	if now == nil {
		now = time.Now
	}
	return &commentService{
		commentRepo: commentRepo,
		resolver:    resolver,
		logger:      logger,
		now:         now,
	}
}

type commentService struct {
	commentRepo repository.CommentRepository
	resolver    StockResolver
	logger      *logger.Logger
	now         func() time.Time
}

func (s *commentService) GetComments(ctx context.Context, query *dto.CommentQuery) ([]*dto.CommentResponse, error) {
	comments, err := s.commentRepo.FindAll(ctx, dto.GetCommentsParam{
		Symbol:     query.Symbol,
		Descending: query.IsDescending,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list comments", logger.ErrorField(err))
		return nil, err
	}
	return mapper.ToCommentResponses(comments), nil
}

func (s *commentService) GetCommentByID(ctx context.Context, id uint) (*dto.CommentResponse, error) {
	comment, err := s.findComment(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.ToCommentResponse(comment), nil
}

// CreateComment attaches a comment from principal to the stock with the
// given symbol, importing the stock from market data when it is unknown.
func (s *commentService) CreateComment(ctx context.Context, principal auth.Principal, symbol string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	stock, err := s.resolver.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		Title:     req.Title,
		Content:   req.Content,
		CreatedOn: s.now().UTC(),
		StockID:   stock.ID,
		UserID:    principal.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create comment", logger.ErrorField(err), logger.Field("stock_id", stock.ID))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Comment created successfully",
		logger.Field("comment_id", comment.ID),
		logger.StringField("symbol", stock.Symbol),
		logger.StringField("username", principal.Username))
	return mapper.ToCommentResponse(comment), nil
}

// UpdateComment replaces title and content. Creation time and author stay.
func (s *commentService) UpdateComment(ctx context.Context, id uint, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.findComment(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.Title = req.Title
	comment.Content = req.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update comment", logger.ErrorField(err), logger.Field("comment_id", id))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Comment updated successfully", logger.Field("comment_id", id))
	return mapper.ToCommentResponse(comment), nil
}

func (s *commentService) DeleteComment(ctx context.Context, id uint) error {
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to delete comment", logger.ErrorField(err), logger.Field("comment_id", id))
		return err
	}
	s.logger.InfoContext(ctx, "Comment deleted successfully", logger.Field("comment_id", id))
	return nil
}

func (s *commentService) findComment(ctx context.Context, id uint) (*entity.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to find comment", logger.ErrorField(err), logger.Field("comment_id", id))
		return nil, err
	}
	return comment, nil
}
