package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
)

// SessionClaims описывает клеймы токена сессии CLI.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager отвечает за выпуск и проверку JWT сессии.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate выпускает токен для пользователя и возвращает время его истечения.
func (m *TokenManager) Generate(userID string, role valueobject.Role) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)

	claims := SessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse проверяет подпись и срок действия, возвращает идентификатор и роль.
func (m *TokenManager) Parse(token string) (string, valueobject.Role, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("неожиданный алгоритм подписи")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}

	role := valueobject.Role(claims.Role)
	if !role.IsValid() {
		return "", "", jwt.ErrTokenInvalidClaims
	}

	return claims.Subject, role, nil
}
