package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

var (
	ErrMissingSecret    = errors.New("auth: token secret is not configured")
	ErrInvalidSignature = errors.New("auth: invalid token signature")
	ErrExpired          = errors.New("auth: token expired")
	ErrMalformed        = errors.New("auth: malformed token")
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a new manager. An empty secret is a configuration error.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	tm := &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// Claims describes JWT payload.
type Claims struct {
	UserID    string           `json:"userId"`
	Email     string           `json:"email"`
	Role      domain.Role      `json:"role"`
	TenantID  string           `json:"tenantId"`
	TokenType domain.TokenKind `json:"tokenType"`
	jwt.RegisteredClaims
}

func (c *Claims) identity() domain.Identity {
	return domain.Identity{
		UserID:   c.UserID,
		Email:    c.Email,
		Role:     c.Role,
		TenantID: c.TenantID,
	}
}

// Issue signs an access and a refresh token for the identity.
func (tm *TokenManager) Issue(id domain.Identity) (domain.TokenPair, error) {
	if !id.Complete() {
		return domain.TokenPair{}, ErrMalformed
	}
	access, err := tm.sign(id, domain.TokenKindAccess, tm.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := tm.sign(id, domain.TokenKindRefresh, tm.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// Verify validates an access token and returns the embedded identity.
func (tm *TokenManager) Verify(raw string) (domain.Identity, error) {
	claims, err := tm.parse(raw, domain.TokenKindAccess)
	if err != nil {
		return domain.Identity{}, err
	}
	return claims.identity(), nil
}

// Refresh validates a refresh token and issues a new access token with identical claims.
func (tm *TokenManager) Refresh(refreshRaw string) (domain.Token, error) {
	claims, err := tm.parse(refreshRaw, domain.TokenKindRefresh)
	if err != nil {
		return domain.Token{}, err
	}
	return tm.sign(claims.identity(), domain.TokenKindAccess, tm.accessTTL)
}

func (tm *TokenManager) sign(id domain.Identity, kind domain.TokenKind, ttl time.Duration) (domain.Token, error) {
	// JWT timestamps have second precision.
	issuedAt := tm.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)
	claims := &Claims{
		UserID:    id.UserID,
		Email:     id.Email,
		Role:      id.Role,
		TenantID:  id.TenantID,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return domain.Token{}, err
	}
	return domain.Token{Value: tokenString, Kind: kind, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

func (tm *TokenManager) parse(raw string, kind domain.TokenKind) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
		// a token stays valid at its exact expiry instant and expires strictly after it
		jwt.WithLeeway(time.Nanosecond),
	)
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if claims.TokenType != kind || !claims.identity().Complete() {
		return nil, ErrMalformed
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}
