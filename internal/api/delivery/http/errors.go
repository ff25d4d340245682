package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/service"
	"golang-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

// writeError maps service errors onto HTTP responses. Anything unknown is
// logged and answered with a generic 500 so internals never leak.
func writeError(c echo.Context, log *logger.Logger, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Fields: verr.Fields})
	}

	switch {
	case errors.Is(err, errInvalidPayload), errors.Is(err, errInvalidID):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, service.ErrStockNotFound),
		errors.Is(err, service.ErrAlreadyInPortfolio),
		errors.Is(err, service.ErrNotInPortfolio):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrDuplicateSymbol):
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
	}

	log.ErrorContext(c.Request().Context(), "Request failed",
		logger.ErrorField(err),
		logger.StringField("method", c.Request().Method),
		logger.StringField("path", c.Path()))
	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
}

var (
	errInvalidPayload = errors.New("invalid request payload")
	errInvalidID      = errors.New("invalid id")
)

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// bindAndValidate binds the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}

// bindQueryAndValidate is bindAndValidate for query strings on any method.
// echo only binds query parameters by itself for GET, DELETE and HEAD.
func bindQueryAndValidate(c echo.Context, req interface{}) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}
