package dto

import (
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPageNumber   = 1000000
)

// StockQuery holds the filters accepted by the stock listing endpoint.
type StockQuery struct {
	Symbol       string `query:"symbol" validate:"max=10"`
	CompanyName  string `query:"companyName" validate:"max=100"`
	SortBy       string `query:"sortBy" validate:"omitempty,oneof=symbol companyName price marketCap"`
	IsDescending bool   `query:"isDescending"`
	PageNumber   int    `query:"pageNumber" validate:"gte=0,lte=1000000"`
	PageSize     int    `query:"pageSize" validate:"gte=0,lte=100"`
}

// GetStocksParam is the normalized filter passed to the stock repository.
type GetStocksParam struct {
	Symbol      string
	CompanyName string
	SortBy      string
	Descending  bool
	Offset      int
	Limit       int
}

// CreateStockRequest is the DTO for creating a new stock.
type CreateStockRequest struct {
	Symbol      string          `json:"symbol" validate:"required,max=10"`
	CompanyName string          `json:"companyName" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Industry    string          `json:"industry" validate:"max=50"`
	MarketCap   int64           `json:"marketCap" validate:"gte=0,lte=5000000000000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0,lte=1000000000" swaggertype:"number"`
	LastDiv     decimal.Decimal `json:"lastDiv" validate:"gte=0,lte=100" swaggertype:"number"`
}

// UpdateStockRequest is the DTO for updating an existing stock.
type UpdateStockRequest struct {
	Symbol      string          `json:"symbol" validate:"required,max=10"`
	CompanyName string          `json:"companyName" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Industry    string          `json:"industry" validate:"max=50"`
	MarketCap   int64           `json:"marketCap" validate:"gte=0,lte=5000000000000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0,lte=1000000000" swaggertype:"number"`
	LastDiv     decimal.Decimal `json:"lastDiv" validate:"gte=0,lte=100" swaggertype:"number"`
}

// StockResponse is the DTO for API responses containing stock details.
type StockResponse struct {
	ID          uint              `json:"id"`
	Symbol      string            `json:"symbol"`
	CompanyName string            `json:"companyName"`
	Description string            `json:"description"`
	Industry    string            `json:"industry"`
	MarketCap   int64             `json:"marketCap"`
	Price       decimal.Decimal   `json:"price" swaggertype:"string"`
	LastDiv     decimal.Decimal   `json:"lastDiv" swaggertype:"string"`
	Comments    []CommentResponse `json:"comments"`
}
