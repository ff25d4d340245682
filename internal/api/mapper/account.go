package mapper

import (
	"time"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/pkg/auth"
)

func ToAccountResponse(user *entity.User, token string, expiresAt time.Time) *dto.AccountResponse {
	return &dto.AccountResponse{
		Username:  user.Username,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}

func ToProfileResponse(user *entity.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ToPrincipal is the identity embedded in issued tokens.
func ToPrincipal(user *entity.User) auth.Principal {
	return auth.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}
