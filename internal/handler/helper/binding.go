package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
)

// BindingError переводит ошибку привязки запроса в ошибку валидации
// с деталями по полям. Валидатор отклоняет запрос до того, как он
// дойдет до доменной логики.
func BindingError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(apperrors.FieldErrors, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields[strings.ToLower(fieldErr.Field())] = fieldMessage(fieldErr)
		}
		return apperrors.NewValidationError(fields)
	}

	// Синтаксическая ошибка JSON или несовпадение типов
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
}

// fieldMessage формирует сообщение для одной ошибки поля
func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fieldErr.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
