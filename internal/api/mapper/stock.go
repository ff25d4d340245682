package mapper

import (
	"strings"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/entity"
)

// ToStockResponse maps a stock and its comments to the API shape.
// Comments is always a non-nil slice.
func ToStockResponse(stock *entity.Stock, comments []entity.Comment) *dto.StockResponse {
	resp := &dto.StockResponse{
		ID:          stock.ID,
		Symbol:      stock.Symbol,
		CompanyName: stock.CompanyName,
		Description: stock.Description,
		Industry:    stock.Industry,
		MarketCap:   stock.MarketCap,
		Price:       stock.Price,
		LastDiv:     stock.LastDiv,
		Comments:    make([]dto.CommentResponse, 0, len(comments)),
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, *ToCommentResponse(&comments[i]))
	}
	return resp
}

// StockFromCreateRequest builds a new stock entity from a create request.
func StockFromCreateRequest(req *dto.CreateStockRequest) *entity.Stock {
	return &entity.Stock{
		Symbol:      NormalizeSymbol(req.Symbol),
		CompanyName: req.CompanyName,
		Description: req.Description,
		Industry:    req.Industry,
		MarketCap:   req.MarketCap,
		Price:       req.Price.Round(2),
		LastDiv:     req.LastDiv.Round(2),
	}
}

// ApplyStockUpdate overwrites the mutable fields of stock with the request values.
func ApplyStockUpdate(stock *entity.Stock, req *dto.UpdateStockRequest) {
	stock.Symbol = NormalizeSymbol(req.Symbol)
	stock.CompanyName = req.CompanyName
	stock.Description = req.Description
	stock.Industry = req.Industry
	stock.MarketCap = req.MarketCap
	stock.Price = req.Price.Round(2)
	stock.LastDiv = req.LastDiv.Round(2)
}

// NormalizeSymbol returns the stored form of a ticker symbol: trimmed and upper case.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
