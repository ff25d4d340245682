package http

import (
	"fmt"
	"net/http"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/service"
	"golang-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for stocks.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group. Only the
// listing requires a bearer token.
func (h *StockHandler) RegisterRoutes(g *echo.Group, authMiddleware echo.MiddlewareFunc) {
	g.GET("", h.GetStocks, authMiddleware)
	g.POST("", h.CreateStock)
	g.GET("/:id", h.GetStockByID)
	g.PUT("/:id", h.UpdateStock)
	g.DELETE("/:id", h.DeleteStock)
}

// GetStocks godoc
// @Summary List stocks
// @Description List stocks with their comments, filtered, sorted and paginated
// @Tags stocks
// @Produce  json
// @Security BearerAuth
// @Param   symbol        query  string  false  "Symbol contains"
// @Param   companyName   query  string  false  "Company name contains"
// @Param   sortBy        query  string  false  "Sort field (symbol, companyName, price, marketCap)"
// @Param   isDescending  query  bool    false  "Sort descending"
// @Param   pageNumber    query  int     false  "Page number, starting at 1 (max 1000000)"
// @Param   pageSize      query  int     false  "Page size (max 100)"
// @Success 200 {array} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stock [get]
func (h *StockHandler) GetStocks(c echo.Context) error {
	var query dto.StockQuery
	if err := bindQueryAndValidate(c, &query); err != nil {
		return writeError(c, h.logger, err)
	}

	stocks, err := h.stockService.GetStocks(c.Request().Context(), &query)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetStockByID godoc
// @Summary Get a stock by ID
// @Description Get a single stock with its comments
// @Tags stocks
// @Produce  json
// @Param   id  path    int true    "Stock ID"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stock/{id} [get]
func (h *StockHandler) GetStockByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	stock, err := h.stockService.GetStockByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, stock)
}

// CreateStock godoc
// @Summary Create a stock
// @Description Create a new stock
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   stock  body    dto.CreateStockRequest   true    "Stock to create"
// @Success 201 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stock [post]
func (h *StockHandler) CreateStock(c echo.Context) error {
	var req dto.CreateStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}

	stock, err := h.stockService.CreateStock(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/stock/%d", stock.ID))
	return c.JSON(http.StatusCreated, stock)
}

// UpdateStock godoc
// @Summary Update a stock
// @Description Replace the business fields of an existing stock
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   id     path    int                     true    "Stock ID"
// @Param   stock  body    dto.UpdateStockRequest  true    "Stock fields"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stock/{id} [put]
func (h *StockHandler) UpdateStock(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	var req dto.UpdateStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}

	stock, err := h.stockService.UpdateStock(c.Request().Context(), id, &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, stock)
}

// DeleteStock godoc
// @Summary Delete a stock
// @Description Delete a stock together with its comments and portfolio entries
// @Tags stocks
// @Param   id  path    int true    "Stock ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stock/{id} [delete]
func (h *StockHandler) DeleteStock(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	if err := h.stockService.DeleteStock(c.Request().Context(), id); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
