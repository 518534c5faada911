package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (неверные учетные данные).
	// Сообщение одинаковое для неизвестного email и неверного пароля.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrForbidden используется, когда запрос пришел без действующей сессии администратора.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для нарушений уникальности (дубликат названия темы или вопроса).
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidAnswerSet используется, когда набор ответов вопроса нарушает инварианты:
	// меньше двух ответов или количество правильных не равно одному.
	ErrInvalidAnswerSet = errors.New("invalid answer set")
)

// FieldErrors содержит ошибки валидации по полям запроса.
type FieldErrors map[string]string

// ValidationError несет детали ошибок валидации по полям.
// Разворачивается в ErrValidation, поэтому слой трансляции
// распознает его через errors.Is.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError создает ошибку валидации с деталями по полям
func NewValidationError(fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}
