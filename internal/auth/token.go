package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or type checks.
var ErrInvalidToken = errors.New("token is invalid or expired")

// TokenPair is returned by the obtain endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenIssuer signs and verifies HS256 tokens carrying a user id.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. Non-positive TTLs fall back to 5m and 24h.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = 5 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuePair creates an access and a refresh token for userID.
func (i *TokenIssuer) IssuePair(userID uint) (TokenPair, error) {
	access, err := i.issue(userID, TokenTypeAccess, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.issue(userID, TokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (i *TokenIssuer) Refresh(refreshToken string) (string, error) {
	userID, err := i.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return i.issue(userID, TokenTypeAccess, i.accessTTL)
}

// Parse verifies tokenStr and returns its user id. An empty tokenType
// accepts either kind.
func (i *TokenIssuer) Parse(tokenStr, tokenType string) (uint, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(i.now().Unix(), true) {
		return 0, ErrInvalidToken
	}
	if tokenType != "" {
		if kind, _ := claims["token_type"].(string); kind != tokenType {
			return 0, ErrInvalidToken
		}
	}

	idFloat, ok := claims["user_id"].(float64)
	if !ok || idFloat < 1 {
		return 0, ErrInvalidToken
	}
	return uint(idFloat), nil
}

func (i *TokenIssuer) issue(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	})
	return token.SignedString(i.secret)
}
