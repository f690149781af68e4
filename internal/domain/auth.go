package domain

import "time"

// TokenKind differentiates the short-lived access token from the refresh token.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Token is a signed, time-bounded credential carrying an Identity.
type Token struct {
	Value     string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair bundles the two independently signed tokens issued at login.
type TokenPair struct {
	Access  Token
	Refresh Token
}
