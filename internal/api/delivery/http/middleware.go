package http

import (
	"net/http"
	"strings"
	"time"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/pkg/auth"
	"golang-stock-portfolio/pkg/common"
	"golang-stock-portfolio/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequestID reuses the caller's X-Request-ID or generates one, echoes it back
// and stores it in the request context for logging.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(common.HeaderRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			c.Response().Header().Set(common.HeaderRequestID, id)

			ctx := logger.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			logFn := log.InfoContext
			if status >= http.StatusInternalServerError {
				logFn = log.ErrorContext
			}
			logFn(req.Context(), "HTTP request",
				logger.StringField("method", req.Method),
				logger.StringField("path", req.URL.Path),
				logger.IntField("status", status),
				logger.Field("latency", time.Since(start)),
				logger.StringField("remote_ip", c.RealIP()))
			return nil
		}
	}
}

// JWTAuth rejects requests without a valid bearer token and stores the
// caller's auth.Principal under common.ContextKeyPrincipal.
func JWTAuth(tokens TokenParser, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return unauthorized(c, "Authorization header required")
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return unauthorized(c, "Authorization header must be a bearer token")
			}

			claims, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				log.DebugContext(c.Request().Context(), "Rejected bearer token", logger.ErrorField(err))
				return unauthorized(c, "Invalid or expired token")
			}

			principal, err := auth.PrincipalFromClaims(claims)
			if err != nil {
				return unauthorized(c, "Invalid token claims")
			}

			c.Set(common.ContextKeyPrincipal, principal)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msg})
}

// principalFrom returns the caller stored by JWTAuth.
func principalFrom(c echo.Context) (auth.Principal, bool) {
	principal, ok := c.Get(common.ContextKeyPrincipal).(auth.Principal)
	return principal, ok
}
