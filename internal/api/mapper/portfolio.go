package mapper

import (
	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/entity"
)

// ToPortfolioResponse expects item.Stock to be loaded.
func ToPortfolioResponse(item *entity.Portfolio) *dto.PortfolioResponse {
	return &dto.PortfolioResponse{
		StockID:     item.StockID,
		Symbol:      item.Stock.Symbol,
		CompanyName: item.Stock.CompanyName,
		Industry:    item.Stock.Industry,
		MarketCap:   item.Stock.MarketCap,
		Price:       item.Stock.Price,
		LastDiv:     item.Stock.LastDiv,
		AddedAt:     item.CreatedAt,
	}
}
