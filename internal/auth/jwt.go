package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dashpos/internal/domain"
)

const issuer = "dashpos"

type Claims struct {
	UserID string                `json:"user_id"`
	Roles  []domain.BusinessRole `json:"business_roles"`
	// TokenUse distinguishes access from refresh tokens so a refresh token
	// cannot be replayed as a bearer credential.
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

func (m *TokenManager) Generate(userID string, roles []domain.BusinessRole) (access, refresh string, err error) {
	access, err = m.sign(userID, roles, "access", m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.sign(userID, roles, "refresh", m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *TokenManager) sign(userID string, roles []domain.BusinessRole, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Roles:    roles,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *TokenManager) Validate(tokenString, expectedUse string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.TokenUse != expectedUse {
		return nil, errors.New("unexpected token use")
	}
	return claims, nil
}
