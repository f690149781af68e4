package dto

import "time"

// RegisterRequest payload for tenant signup.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	CompanyName string `json:"companyName" validate:"required,max=120"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// SessionResponse describes the session set in cookies. Token values never leave the cookies.
type SessionResponse struct {
	User             UserResponse `json:"user"`
	TenantID         string       `json:"tenantId"`
	CompanyName      string       `json:"companyName,omitempty"`
	AccessExpiresAt  time.Time    `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time    `json:"refreshExpiresAt,omitempty"`
}

// RefreshResponse reports the new access token expiry.
type RefreshResponse struct {
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
}
