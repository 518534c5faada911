package repository

import (
	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
)

// AdminRepository определяет методы для работы с учетной записью администратора
type AdminRepository interface {
	Create(admin *entity.Admin) error
	GetByEmail(email string) (*entity.Admin, error)
	GetByID(id uint) (*entity.Admin, error)
}
