package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSymbolRequest carries the stock symbol for portfolio add/remove.
// The symbol is only ever read from the query string.
type PortfolioSymbolRequest struct {
	Symbol string `query:"symbol" validate:"required,max=10"`
}

// PortfolioResponse is one stock held by the caller.
type PortfolioResponse struct {
	StockID     uint            `json:"stockId"`
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"companyName"`
	Industry    string          `json:"industry"`
	MarketCap   int64           `json:"marketCap"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	LastDiv     decimal.Decimal `json:"lastDiv" swaggertype:"string"`
	AddedAt     time.Time       `json:"addedAt"`
}
