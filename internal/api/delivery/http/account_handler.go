package http

import (
	"net/http"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/service"
	"golang-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AccountHandler handles HTTP requests for accounts.
type AccountHandler struct {
	accountService service.AccountService
	logger         *logger.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService service.AccountService, logger *logger.Logger) *AccountHandler {
	return &AccountHandler{accountService: accountService, logger: logger}
}

// RegisterRoutes registers the account routes to the Echo group.
func (h *AccountHandler) RegisterRoutes(g *echo.Group, authMiddleware echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("/me", h.Me, authMiddleware)
}

// Register godoc
// @Summary Register a new account
// @Description Create a user with the User role and return a bearer token
// @Tags account
// @Accept  json
// @Produce  json
// @Param   account  body    dto.RegisterRequest   true    "Account to create"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /account/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}

	resp, err := h.accountService.Register(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Sign in
// @Description Exchange a username and password for a bearer token
// @Tags account
// @Accept  json
// @Produce  json
// @Param   credentials  body    dto.LoginRequest   true    "Credentials"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /account/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}

	resp, err := h.accountService.Login(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Current account
// @Description Get the profile of the authenticated user
// @Tags account
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /account/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	profile, err := h.accountService.GetProfile(c.Request().Context(), principal.UserID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, profile)
}
