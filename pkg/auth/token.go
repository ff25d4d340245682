package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSigningKeyLength = 32

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrSigningKeyTooWeak = fmt.Errorf("signing key must be at least %d bytes", minSigningKeyLength)
)

// Principal is the authenticated caller derived from a validated token.
type Principal struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Claims is the payload carried by an issued token.
type Claims struct {
	Username string `json:"unique_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
	TTL        time.Duration
}

// TokenService issues and validates HS512 bearer tokens. It holds no state
// besides its configuration; a token stays valid until it expires.
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenService creates a TokenService. now is the clock used for both
// issuing and validating; nil means time.Now.
func NewTokenService(cfg TokenConfig, now func() time.Time) (*TokenService, error) {
	if len(cfg.SigningKey) < minSigningKeyLength {
		return nil, ErrSigningKeyTooWeak
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		key:      []byte(cfg.SigningKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      now,
	}, nil
}

// Issue signs a token for the principal and returns it with its expiry.
func (s *TokenService) Issue(p Principal) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := Claims{
		Username: p.Username,
		Email:    p.Email,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.UserID), 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates signature, algorithm, issuer, audience and expiry.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// PrincipalFromClaims maps a validated token payload to a Principal.
func PrincipalFromClaims(c *Claims) (Principal, error) {
	if c == nil {
		return Principal{}, ErrInvalidToken
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return Principal{}, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	if c.Username == "" {
		return Principal{}, fmt.Errorf("%w: missing username", ErrInvalidToken)
	}
	return Principal{
		UserID:   uint(id),
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
	}, nil
}
