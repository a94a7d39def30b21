package models

import "time"

type Admin struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`

	// 2FA: секрет хранится после enable, verified — после подтверждения кодом.
	TwoFAEnabled  bool    `json:"twofa_enabled"`
	TwoFASecret   *string `json:"-"`
	TwoFAVerified bool    `json:"twofa_verified"`

	RefreshTokenHash *string    `json:"-"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AdminTfaLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
