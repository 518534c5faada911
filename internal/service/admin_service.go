package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	"github.com/yourusername/quiz-admin-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
)

// AdminService предоставляет операции над учетной записью администратора
type AdminService struct {
	adminRepo repository.AdminRepository
}

// NewAdminService создает новый сервис администраторов и возвращает ошибку при проблемах
func NewAdminService(adminRepo repository.AdminRepository) (*AdminService, error) {
	if adminRepo == nil {
		return nil, fmt.Errorf("AdminRepository is required for AdminService")
	}
	return &AdminService{adminRepo: adminRepo}, nil
}

// Bootstrap создает учетную запись администратора при первом старте,
// если она еще не существует. Идемпотентен: безопасно вызывать при каждом
// запуске процесса. Гонка двух одновременных стартов разрешается уникальным
// индексом по email — дубликат вставки дает ErrConflict, который игнорируется.
// Email канонизируется тем же normalizeEmail, что и при входе: запись,
// сохраненная в другом регистре, была бы недостижима для Login.
func (s *AdminService) Bootstrap(email, password string) error {
	email = normalizeEmail(email)

	_, err := s.adminRepo.GetByEmail(email)
	if err == nil {
		// Запись уже существует — no-op
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check admin existence: %w", err)
	}

	admin := &entity.Admin{
		Email:    email,
		Password: password, // хешируется хуком BeforeSave
	}
	if err := s.adminRepo.Create(admin); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			log.Printf("[AdminService] Администратор %s уже создан параллельным стартом", email)
			return nil
		}
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	log.Printf("[AdminService] Создана учетная запись администратора %s", email)
	return nil
}

// FindByEmail возвращает администратора по email
func (s *AdminService) FindByEmail(email string) (*entity.Admin, error) {
	return s.adminRepo.GetByEmail(normalizeEmail(email))
}

// FindByID возвращает администратора по ID
func (s *AdminService) FindByID(id uint) (*entity.Admin, error) {
	return s.adminRepo.GetByID(id)
}
