package http

import (
	"net/http"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/service"
	"golang-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for the caller's portfolio.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes. Every route requires a
// bearer token.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group, authMiddleware echo.MiddlewareFunc) {
	g.GET("", h.GetPortfolio, authMiddleware)
	g.POST("", h.AddStock, authMiddleware)
	g.DELETE("", h.RemoveStock, authMiddleware)
}

// GetPortfolio godoc
// @Summary Get portfolio
// @Description List the stocks held by the authenticated user
// @Tags portfolio
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} dto.PortfolioResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	items, err := h.portfolioService.GetPortfolio(c.Request().Context(), principal.UserID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, items)
}

// AddStock godoc
// @Summary Add a stock to the portfolio
// @Description Add the stock with the given symbol. Unknown symbols are looked up in market data first.
// @Tags portfolio
// @Produce  json
// @Security BearerAuth
// @Param   symbol  query  string  true  "Stock symbol"
// @Success 201 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio [post]
func (h *PortfolioHandler) AddStock(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	var req dto.PortfolioSymbolRequest
	if err := bindQueryAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}

	item, err := h.portfolioService.AddStock(c.Request().Context(), principal.UserID, req.Symbol)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// RemoveStock godoc
// @Summary Remove a stock from the portfolio
// @Tags portfolio
// @Security BearerAuth
// @Param   symbol  query  string  true  "Stock symbol"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio [delete]
func (h *PortfolioHandler) RemoveStock(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	var req dto.PortfolioSymbolRequest
	if err := bindQueryAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}

	if err := h.portfolioService.RemoveStock(c.Request().Context(), principal.UserID, req.Symbol); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
