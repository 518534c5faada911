package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// CreateWithAnswers создает вопрос вместе с ответами в одной транзакции.
// Порядок строгий: сначала вопрос (Create выполняет flush и дает id),
// затем ответы с проставленным question_id. Любая ошибка откатывает все —
// вопрос без ответов наблюдаться не может.
func (r *QuestionRepo) CreateWithAnswers(question *entity.Question, answers []entity.Answer) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}

		for i := range answers {
			answers[i].QuestionID = question.ID
		}
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		// Уникальный индекс по title — финальный арбитр при гонке
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: question with title %q", apperrors.ErrConflict, question.Title)
		}
		// FK на themes — подстраховка, если тема исчезла к моменту коммита
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: theme #%d", apperrors.ErrNotFound, question.ThemeID)
		}
		return err
	}

	// Коллекция ответов не гарантированно заполнена самой вставкой —
	// перечитываем вопрос с ответами после коммита
	return r.db.Preload("Answers").First(question, question.ID).Error
}

// GetByID возвращает вопрос по ID с жадно загруженными ответами
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Preload("Answers").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByTitle возвращает вопрос по названию с жадно загруженными ответами
func (r *QuestionRepo) GetByTitle(title string) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Preload("Answers").Where("title = ?", title).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// List возвращает вопросы с ответами, опционально отфильтрованные по теме.
// Существование темы здесь не проверяется: неизвестный theme_id дает пустой список.
func (r *QuestionRepo) List(themeID *uint) ([]entity.Question, error) {
	var questions []entity.Question

	query := r.db.Preload("Answers").Order("id")
	if themeID != nil {
		query = query.Where("theme_id = ?", *themeID)
	}

	err := query.Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Delete удаляет вопрос. Ответы удаляются каскадом на уровне хранилища.
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Question{}, id).Error
}
