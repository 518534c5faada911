package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// JWTCustomClaims содержит пользовательские поля для сессионного токена
type JWTCustomClaims struct {
	SessionID string `json:"session_id"`
	AdminID   uint   `json:"admin_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService предоставляет методы для выпуска и проверки сессионных токенов
type JWTService struct {
	secretKey  []byte
	expiration time.Duration
}

// NewJWTService создает новый сервис JWT и возвращает ошибку при проблемах
func NewJWTService(secretKey string, expirationHrs int) (*JWTService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("JWT secret key is required")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &JWTService{
		secretKey:  []byte(secretKey),
		expiration: time.Duration(expirationHrs) * time.Hour,
	}, nil
}

// Expiration возвращает время жизни сессионного токена
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

// GenerateToken выпускает подписанный токен, несущий идентификатор сессии
func (s *JWTService) GenerateToken(sessionID string, adminID uint, email string) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		SessionID: sessionID,
		AdminID:   adminID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ParseToken проверяет подпись и срок действия токена и возвращает его claims
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.SessionID == "" {
		return nil, errors.New("token does not carry a session id")
	}

	return claims, nil
}
