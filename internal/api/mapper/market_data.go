package mapper

import (
	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/entity"

	"github.com/shopspring/decimal"
)

// Column limits of the stocks table.
const (
	maxSymbolLen      = 10
	maxCompanyNameLen = 100
	maxIndustryLen    = 50
	maxDescriptionLen = 500
)

// StockFromMarketData converts an external profile to a stock entity,
// truncating text to the column sizes.
func StockFromMarketData(p *dto.MarketDataProfile) *entity.Stock {
	return &entity.Stock{
		Symbol:      truncate(NormalizeSymbol(p.Symbol), maxSymbolLen),
		CompanyName: truncate(p.CompanyName, maxCompanyNameLen),
		Description: truncate(p.Description, maxDescriptionLen),
		Industry:    truncate(p.Industry, maxIndustryLen),
		MarketCap:   p.MktCap,
		Price:       decimal.NewFromFloat(p.Price).Round(2),
		LastDiv:     decimal.NewFromFloat(p.LastDiv).Round(2),
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
