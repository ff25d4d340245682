package http

import (
	"golang-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	swagger "github.com/swaggo/echo-swagger"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Account   *AccountHandler
	Stock     *StockHandler
	Comment   *CommentHandler
	Portfolio *PortfolioHandler
	Health    *HealthHandler
}

// NewRouter builds the Echo instance serving the API.
func NewRouter(h Handlers, tokens TokenParser, log *logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	e.Use(RequestID(), RequestLogger(log), middleware.Recover())

	authMiddleware := JWTAuth(tokens, log)
	h.Account.RegisterRoutes(e.Group("/account"), authMiddleware)
	h.Stock.RegisterRoutes(e.Group("/stock"), authMiddleware)
	h.Comment.RegisterRoutes(e.Group("/comment"), authMiddleware)
	h.Portfolio.RegisterRoutes(e.Group("/portfolio"), authMiddleware)

	e.GET("/healthz", h.Health.Check)
	e.GET("/swagger/*", swagger.WrapHandler)

	return e
}
