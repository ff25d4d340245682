package repository

import (
	"context"
	"strings"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns maps the public sortBy values to columns.
var sortColumns = map[string]string{
	"symbol":      "symbol",
	"companyName": "company_name",
	"price":       "price",
	"marketCap":   "market_cap",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-case LIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// StockRepository defines the interface for stock data operations.
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	FindAll(ctx context.Context, param dto.GetStocksParam) ([]entity.Stock, error)
	Update(ctx context.Context, stock *entity.Stock) error
	Delete(ctx context.Context, id uint) error
}

// NewStockRepository creates a new GORM-based stock repository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

type stockRepository struct {
	db *gorm.DB
}

// Create creates a new stock in the database.
func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

// FindByID retrieves a stock by its ID.
func (r *stockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).First(&stock, id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// FindBySymbol retrieves a stock by its ticker symbol, ignoring case.
func (r *stockRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).Where("UPPER(symbol) = UPPER(?)", symbol).Order("id").First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// FindAll lists stocks matching the filter, sorted and paginated.
func (r *stockRepository) FindAll(ctx context.Context, param dto.GetStocksParam) ([]entity.Stock, error) {
	var stocks []entity.Stock

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if param.Symbol != "" {
		qFilter = append(qFilter, "LOWER(symbol) LIKE ? ESCAPE '\\'")
		qFilterParam = append(qFilterParam, containsPattern(param.Symbol))
	}

	if param.CompanyName != "" {
		qFilter = append(qFilter, "LOWER(company_name) LIKE ? ESCAPE '\\'")
		qFilterParam = append(qFilterParam, containsPattern(param.CompanyName))
	}

	query := r.db.WithContext(ctx)
	if len(qFilter) > 0 {
		query = query.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}

	if column, ok := sortColumns[param.SortBy]; ok {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: param.Descending})
	}
	query = query.Order("id")

	if param.Limit > 0 {
		query = query.Limit(param.Limit)
	}
	if param.Offset > 0 {
		query = query.Offset(param.Offset)
	}

	if err := query.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Update saves every column of an existing stock.
func (r *stockRepository) Update(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// Delete removes a stock together with its comments and portfolio rows.
// It returns gorm.ErrRecordNotFound when the stock does not exist.
func (r *stockRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock_id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("stock_id = ?", id).Delete(&entity.Portfolio{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Stock{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
