package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// IdentityClaims — расшифрованный набор полей от identity-провайдера.
// Subject стабилен между входами, остальные поля опциональны.
type IdentityClaims struct {
	Subject     string
	Email       string
	DisplayName string
	PhotoURL    string
}

// TokenVerifier прячет identity-провайдера за интерфейсом:
// в проде это JWT-верификация, в тестах — стаб.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*IdentityClaims, error)
}

type jwtClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// JWTVerifier проверяет HS256-токены, выписанные identity-провайдером.
type JWTVerifier struct {
	key []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{key: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*IdentityClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &IdentityClaims{
		Subject:     claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}, nil
}
