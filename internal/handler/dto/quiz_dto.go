package dto

import (
	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
)

// ThemeResponse представляет тему в формате для ответа клиенту
type ThemeResponse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// ThemeListResponse представляет список тем
type ThemeListResponse struct {
	Themes []ThemeResponse `json:"themes"`
}

// AnswerResponse представляет вариант ответа в формате для ответа клиенту
type AnswerResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID      uint             `json:"id"`
	Title   string           `json:"title"`
	ThemeID uint             `json:"theme_id"`
	Answers []AnswerResponse `json:"answers"`
}

// QuestionListResponse представляет список вопросов
type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
}

// NewThemeResponse создает DTO для темы
func NewThemeResponse(theme *entity.Theme) ThemeResponse {
	return ThemeResponse{
		ID:    theme.ID,
		Title: theme.Title,
	}
}

// NewThemeListResponse создает DTO для списка тем
func NewThemeListResponse(themes []entity.Theme) ThemeListResponse {
	out := make([]ThemeResponse, 0, len(themes))
	for i := range themes {
		out = append(out, NewThemeResponse(&themes[i]))
	}
	return ThemeListResponse{Themes: out}
}

// NewQuestionResponse создает DTO для вопроса вместе с его ответами
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	answers := make([]AnswerResponse, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, AnswerResponse{
			ID:        a.ID,
			Title:     a.Title,
			IsCorrect: a.IsCorrect,
		})
	}
	return QuestionResponse{
		ID:      q.ID,
		Title:   q.Title,
		ThemeID: q.ThemeID,
		Answers: answers,
	}
}

// NewQuestionListResponse создает DTO для списка вопросов
func NewQuestionListResponse(questions []entity.Question) QuestionListResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, NewQuestionResponse(&questions[i]))
	}
	return QuestionListResponse{Questions: out}
}
