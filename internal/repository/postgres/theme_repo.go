package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
)

// ThemeRepo реализует repository.ThemeRepository
type ThemeRepo struct {
	db *gorm.DB
}

// NewThemeRepo создает новый репозиторий тем
func NewThemeRepo(db *gorm.DB) *ThemeRepo {
	return &ThemeRepo{db: db}
}

// Create создает новую тему.
// Уникальный индекс по title — финальный арбитр: гонка двух вставок
// с одинаковым названием дает ErrConflict, а не общую ошибку хранилища.
func (r *ThemeRepo) Create(theme *entity.Theme) error {
	if err := r.db.Create(theme).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: theme with title %q", apperrors.ErrConflict, theme.Title)
		}
		return err
	}
	return nil
}

// GetByID возвращает тему по ID
func (r *ThemeRepo) GetByID(id uint) (*entity.Theme, error) {
	var theme entity.Theme
	err := r.db.First(&theme, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &theme, nil
}

// GetByTitle возвращает тему по названию
func (r *ThemeRepo) GetByTitle(title string) (*entity.Theme, error) {
	var theme entity.Theme
	err := r.db.Where("title = ?", title).First(&theme).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &theme, nil
}

// List возвращает все темы в порядке первичного ключа
func (r *ThemeRepo) List() ([]entity.Theme, error) {
	var themes []entity.Theme
	err := r.db.Order("id").Find(&themes).Error
	if err != nil {
		return nil, err
	}
	return themes, nil
}

// Delete удаляет тему. Вопросы и их ответы удаляются каскадом
// на уровне хранилища (ON DELETE CASCADE), без обхода на уровне приложения.
func (r *ThemeRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Theme{}, id).Error
}
