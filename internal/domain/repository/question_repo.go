package repository

import (
	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	// CreateWithAnswers создает вопрос вместе с его ответами в одной транзакции:
	// вставка вопроса, flush для получения id, затем вставка ответов.
	// Возвращает вопрос с полностью материализованной коллекцией ответов.
	CreateWithAnswers(question *entity.Question, answers []entity.Answer) error

	GetByID(id uint) (*entity.Question, error)
	GetByTitle(title string) (*entity.Question, error)

	// List возвращает вопросы с жадно загруженными ответами.
	// themeID == nil — все вопросы; иначе фильтр по теме.
	// Неизвестная тема дает пустой список, не ошибку.
	List(themeID *uint) ([]entity.Question, error)

	Delete(id uint) error
}
