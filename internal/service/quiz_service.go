package service

import (
	"fmt"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	"github.com/yourusername/quiz-admin-api/internal/domain/repository"
)

// QuizService предоставляет доменные операции над темами и вопросами
type QuizService struct {
	themeRepo    repository.ThemeRepository
	questionRepo repository.QuestionRepository
}

// NewQuizService создает новый сервис викторины
func NewQuizService(
	themeRepo repository.ThemeRepository,
	questionRepo repository.QuestionRepository,
) *QuizService {
	return &QuizService{
		themeRepo:    themeRepo,
		questionRepo: questionRepo,
	}
}

// CreateTheme создает новую тему.
// Дубликат названия дает ErrConflict: обработчик проверяет заранее,
// но финальный арбитр — уникальный индекс хранилища.
func (s *QuizService) CreateTheme(title string) (*entity.Theme, error) {
	theme := &entity.Theme{Title: title}
	if err := s.themeRepo.Create(theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// GetThemeByTitle возвращает тему по названию
func (s *QuizService) GetThemeByTitle(title string) (*entity.Theme, error) {
	return s.themeRepo.GetByTitle(title)
}

// GetThemeByID возвращает тему по ID
func (s *QuizService) GetThemeByID(id uint) (*entity.Theme, error) {
	return s.themeRepo.GetByID(id)
}

// ListThemes возвращает все темы в порядке создания
func (s *QuizService) ListThemes() ([]entity.Theme, error) {
	return s.themeRepo.List()
}

// CreateQuestion создает вопрос с набором ответов.
// Инвариант набора ответов проверяется здесь, до любой вставки:
// минимум два ответа и ровно один правильный. Вставка вопроса и ответов
// выполняется в одной транзакции, частичная запись невозможна.
func (s *QuizService) CreateQuestion(title string, themeID uint, answers []entity.Answer) (*entity.Question, error) {
	if err := entity.ValidateAnswerSet(answers); err != nil {
		return nil, err
	}

	question := &entity.Question{
		Title:   title,
		ThemeID: themeID,
	}
	if err := s.questionRepo.CreateWithAnswers(question, answers); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	return question, nil
}

// GetQuestionByTitle возвращает вопрос по названию вместе с ответами
func (s *QuizService) GetQuestionByTitle(title string) (*entity.Question, error) {
	return s.questionRepo.GetByTitle(title)
}

// ListQuestions возвращает вопросы с ответами, опционально по теме.
// Существование темы не проверяется: неизвестный theme_id дает пустой
// список, не ошибку — это задокументированная политика, не баг.
func (s *QuizService) ListQuestions(themeID *uint) ([]entity.Question, error) {
	return s.questionRepo.List(themeID)
}
