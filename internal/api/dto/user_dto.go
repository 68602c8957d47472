package dto

import (
	"time"

	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/repository"
)

// LoginRequest payload for username/password login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries a Google ID token.
type GoogleLoginRequest struct {
	Token string `json:"token"`
}

// AuthResponse is returned by the login endpoints.
type AuthResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// Registration converts the payload.
func (r RegisterRequest) Registration() domain.Registration {
	return domain.Registration{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
		Phone:    r.Phone,
	}
}

// UpdateUserRequest payload for PUT /user/upd. Unknown fields are ignored.
type UpdateUserRequest struct {
	ID       int64             `json:"id"`
	Email    string            `json:"email"`
	FullName string            `json:"fullName"`
	Phone    string            `json:"phone"`
	Type     string            `json:"type"`
	Status   domain.UserStatus `json:"status"`
}

// User converts the payload.
func (r UpdateUserRequest) User() domain.User {
	return domain.User{
		ID:       r.ID,
		Email:    r.Email,
		FullName: r.FullName,
		Phone:    r.Phone,
		Type:     r.Type,
		Status:   r.Status,
	}
}

// UserResponse exposes an account without its secrets.
func UserResponse(account *repository.Account) domain.User {
	return account.User
}
