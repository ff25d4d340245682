package repository

import (
	"context"

	"golang-stock-portfolio/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PortfolioRepository defines the interface for portfolio data operations.
type PortfolioRepository interface {
	Create(ctx context.Context, item *entity.Portfolio) error
	Exists(ctx context.Context, userID, stockID uint) (bool, error)
	FindByUserID(ctx context.Context, userID uint) ([]entity.Portfolio, error)
	Delete(ctx context.Context, userID, stockID uint) error
}

// NewPortfolioRepository creates a new GORM-based portfolio repository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

type portfolioRepository struct {
	db *gorm.DB
}

// Create inserts a (user, stock) pair. A second insert of the same pair
// fails with gorm.ErrDuplicatedKey.
func (r *portfolioRepository) Create(ctx context.Context, item *entity.Portfolio) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *portfolioRepository) Exists(ctx context.Context, userID, stockID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Portfolio{}).
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		Count(&count).Error
	return count > 0, err
}

// FindByUserID lists the user's holdings with their stocks loaded, oldest first.
func (r *portfolioRepository) FindByUserID(ctx context.Context, userID uint) ([]entity.Portfolio, error) {
	var items []entity.Portfolio
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ?", userID).
		Order("created_at").
		Order("stock_id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a pair. It returns gorm.ErrRecordNotFound when absent.
func (r *portfolioRepository) Delete(ctx context.Context, userID, stockID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		Delete(&entity.Portfolio{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
