package domain

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminDisabled      = errors.New("admin disabled")
)

// Admin is a back office user.
type Admin struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// LoginRequest is the body of POST /api/admin/auth.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NormalizeEmail lowercases and trims an email for lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("E-mail é obrigatório"), is.EmailFormat.Error("E-mail inválido")),
		validation.Field(&r.Password, validation.Required.Error("Senha é obrigatória")),
	)
}

// RefreshRequest is the body of POST /api/admin/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserView is the admin profile returned with a token pair.
type UserView struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Session is returned after login or refresh.
type Session struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int64    `json:"expiresIn"`
	User         UserView `json:"user"`
}
