package dto

import (
	"rento/infras/jwt"
	userModel "rento/internal/domains/user/model"
	"rento/shared/constant"
	gModel "rento/shared/model"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string  `json:"email"               validate:"required,email,max=255"`
	Password string  `json:"password"            validate:"required,min=8,max=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
}

// ToUserModel builds a fresh account. Emails are stored lower-cased so uniqueness is case insensitive.
func (r *RegisterRequest) ToUserModel(hashedPassword string, now time.Time) userModel.User {
	return userModel.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: hashedPassword,
		Level:    constant.RoleUser,
		FullName: r.FullName,
		Active:   true,
		Metadata: gModel.NewMetadata(constant.ContextGuest, now),
	}
}

type RegisterResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.TokenType = tokenPair.TokenType
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password"`
}

// CurrentUserResponse identifies the authenticated principal.
type CurrentUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Level string `json:"level"`
}
