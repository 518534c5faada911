package entity

import (
	"fmt"
	"time"

	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
)

// MinAnswersPerQuestion — минимальное количество ответов у вопроса
const MinAnswersPerQuestion = 2

// Question представляет вопрос викторины, принадлежащий одной теме
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null;uniqueIndex" json:"title"`
	ThemeID   uint      `gorm:"not null;index" json:"theme_id"`
	Answers   []Answer  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Answer представляет один вариант ответа на вопрос
type Answer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"type:text;not null" json:"title"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}

// ValidateAnswerSet проверяет инварианты набора ответов:
// минимум два ответа и ровно один правильный.
// Проверка выполняется самой доменной операцией, а не только обработчиком,
// поэтому инвариант сохраняется независимо от точки входа.
func ValidateAnswerSet(answers []Answer) error {
	if len(answers) < MinAnswersPerQuestion {
		return fmt.Errorf("%w: too few answers", apperrors.ErrInvalidAnswerSet)
	}

	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: must have exactly one correct answer", apperrors.ErrInvalidAnswerSet)
	}

	return nil
}

// CorrectAnswer возвращает правильный ответ вопроса или nil, если его нет
func (q *Question) CorrectAnswer() *Answer {
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			return &q.Answers[i]
		}
	}
	return nil
}

// AnswersCount возвращает количество вариантов ответа
func (q *Question) AnswersCount() int {
	return len(q.Answers)
}
