package repository

import (
	"context"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations.
// Every read loads the comment author.
type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uint) (*entity.Comment, error)
	FindAll(ctx context.Context, param dto.GetCommentsParam) ([]entity.Comment, error)
	Update(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id uint) error
}

// NewCommentRepository creates a new GORM-based comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

type commentRepository struct {
	db *gorm.DB
}

// Create inserts the comment and loads its author.
func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return err
	}
	return db.First(&comment.User, comment.UserID).Error
}

// FindByID retrieves a comment by its ID.
func (r *commentRepository) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindAll lists comments, optionally restricted to a symbol or a set of stocks,
// ordered by creation time.
func (r *commentRepository) FindAll(ctx context.Context, param dto.GetCommentsParam) ([]entity.Comment, error) {
	var comments []entity.Comment

	query := r.db.WithContext(ctx).Preload("User")
	if param.Symbol != "" {
		query = query.Joins("JOIN stocks ON stocks.id = comments.stock_id").
			Where("UPPER(stocks.symbol) = UPPER(?)", param.Symbol)
	}
	if param.StockIDs != nil {
		query = query.Where("comments.stock_id IN ?", param.StockIDs)
	}

	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Table: "comments", Name: "created_on"}, Desc: param.Descending}).
		Order("comments.id").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Update saves the title and content of an existing comment.
func (r *commentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).
		Model(comment).
		Updates(map[string]interface{}{"title": comment.Title, "content": comment.Content}).Error
}

// Delete removes a comment. It returns gorm.ErrRecordNotFound when absent.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
