package repository

import (
	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
)

// ThemeRepository определяет методы для работы с темами
type ThemeRepository interface {
	Create(theme *entity.Theme) error
	GetByID(id uint) (*entity.Theme, error)
	GetByTitle(title string) (*entity.Theme, error)
	List() ([]entity.Theme, error)
	Delete(id uint) error
}
