package http

import (
	"net/http"
	"strings"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/service"
	"golang-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	commentService service.CommentService
	logger         *logger.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService service.CommentService, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{commentService: commentService, logger: logger}
}

// RegisterRoutes registers the comment routes to the Echo group. Listing and
// creating require a bearer token.
func (h *CommentHandler) RegisterRoutes(g *echo.Group, authMiddleware echo.MiddlewareFunc) {
	g.GET("", h.GetComments, authMiddleware)
	g.GET("/:id", h.GetCommentByID)
	g.POST("/:symbol", h.CreateComment, authMiddleware)
	g.PUT("/:id", h.UpdateComment)
	g.DELETE("/:id", h.DeleteComment)
}

// GetComments godoc
// @Summary List comments
// @Description List comments ordered by creation time, optionally for one symbol
// @Tags comments
// @Produce  json
// @Security BearerAuth
// @Param   symbol        query  string  false  "Stock symbol"
// @Param   isDescending  query  bool    false  "Newest first"
// @Success 200 {array} dto.CommentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /comment [get]
func (h *CommentHandler) GetComments(c echo.Context) error {
	var query dto.CommentQuery
	if err := bindQueryAndValidate(c, &query); err != nil {
		return writeError(c, h.logger, err)
	}

	comments, err := h.commentService.GetComments(c.Request().Context(), &query)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// GetCommentByID godoc
// @Summary Get a comment by ID
// @Tags comments
// @Produce  json
// @Param   id  path    int true    "Comment ID"
// @Success 200 {object} dto.CommentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /comment/{id} [get]
func (h *CommentHandler) GetCommentByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	comment, err := h.commentService.GetCommentByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// CreateComment godoc
// @Summary Comment on a stock
// @Description Create a comment on the stock with the given symbol. Unknown symbols are looked up in market data first.
// @Tags comments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   symbol   path    string                    true    "Stock symbol"
// @Param   comment  body    dto.CreateCommentRequest  true    "Comment to create"
// @Success 201 {object} dto.CommentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /comment/{symbol} [post]
func (h *CommentHandler) CreateComment(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" || len(symbol) > 10 {
		return writeError(c, h.logger, service.NewValidationError("symbol", "must be between 1 and 10 characters"))
	}

	var req dto.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), principal, symbol, &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// UpdateComment godoc
// @Summary Update a comment
// @Description Replace the title and content of a comment
// @Tags comments
// @Accept  json
// @Produce  json
// @Param   id       path    int                       true    "Comment ID"
// @Param   comment  body    dto.UpdateCommentRequest  true    "Comment fields"
// @Success 200 {object} dto.CommentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /comment/{id} [put]
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	var req dto.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}

	comment, err := h.commentService.UpdateComment(c.Request().Context(), id, &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Param   id  path    int true    "Comment ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /comment/{id} [delete]
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	if err := h.commentService.DeleteComment(c.Request().Context(), id); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
