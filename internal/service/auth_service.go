package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	"github.com/yourusername/quiz-admin-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
	"github.com/yourusername/quiz-admin-api/pkg/auth"
)

// AuthService предоставляет методы шлюза аутентификации:
// вход по учетным данным и разрешение сессии в личность администратора
type AuthService struct {
	adminRepo   repository.AdminRepository
	sessionRepo repository.SessionRepository
	jwtService  *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	adminRepo repository.AdminRepository,
	sessionRepo repository.SessionRepository,
	jwtService *auth.JWTService,
) (*AuthService, error) {
	if adminRepo == nil {
		return nil, fmt.Errorf("AdminRepository is required for AuthService")
	}
	if sessionRepo == nil {
		return nil, fmt.Errorf("SessionRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
	}, nil
}

// Login проверяет учетные данные и открывает сессию администратора.
// Неизвестный email и неверный пароль дают ОДНУ И ТУ ЖЕ ошибку
// "invalid credentials" — клиент не должен узнать, существует ли email.
func (s *AuthService) Login(email, password string) (*entity.Admin, string, error) {
	email = normalizeEmail(email)

	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if !admin.CheckPassword(password) {
		return nil, "", apperrors.ErrUnauthorized
	}

	session := &entity.AdminSession{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		Email:     admin.Email,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Save(session, s.jwtService.Expiration()); err != nil {
		return nil, "", fmt.Errorf("failed to save session: %w", err)
	}

	token, err := s.jwtService.GenerateToken(session.ID, admin.ID, admin.Email)
	if err != nil {
		// Сессия без токена бесполезна — подчищаем
		if delErr := s.sessionRepo.Delete(session.ID); delErr != nil {
			log.Printf("[AuthService] Не удалось удалить сессию %s: %v", session.ID, delErr)
		}
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return admin, token, nil
}

// ResolveSession разрешает сессионный токен в личность администратора.
// Возвращает (nil, nil), если токен отсутствует или сессия не найдена:
// само разрешение не отклоняет неаутентифицированный доступ,
// это обязанность middleware RequireAdmin.
func (s *AuthService) ResolveSession(token string) (*entity.AdminSession, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.jwtService.ParseToken(token)
	if err != nil {
		return nil, nil
	}

	session, err := s.sessionRepo.Get(claims.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	return session, nil
}

// Logout закрывает сессию, удаляя ее запись из хранилища
func (s *AuthService) Logout(sessionID string) error {
	return s.sessionRepo.Delete(sessionID)
}

// normalizeEmail приводит email к каноничному виду для поиска
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
