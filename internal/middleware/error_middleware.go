package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
)

// ErrorResponse — единый конверт ошибки для клиента
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorHandler — единая точка трансляции ошибок конвейера в HTTP-ответ.
// Оборачивает весь вызов: обработчики регистрируют ошибку через c.Error
// и прерывают цепочку, а сюда ни один вид ошибки не приходит непереведенным.
// Паника внутри обработчика также превращается в конверт 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ErrorHandler] Паника при обработке %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Status:  "internal_server_error",
					Message: "internal server error",
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		writeError(c, c.Errors.Last().Err)
	}
}

// writeError переводит ошибку в конверт {status, message, data?}
func writeError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  "bad_request",
			Message: err.Error(),
			Data:    validationErr.Fields,
		})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAnswerSet):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  "bad_request",
			Message: err.Error(),
		})
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Status:  "forbidden",
			Message: err.Error(),
		})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Status:  "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Status:  "conflict",
			Message: err.Error(),
		})
	default:
		// Неклассифицированная ошибка: полная запись в лог,
		// клиенту — только общее сообщение
		log.Printf("[ErrorHandler] Внутренняя ошибка при обработке %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Status:  "internal_server_error",
			Message: "internal server error",
		})
	}
}
