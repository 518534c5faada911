package repository

import (
	"time"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
)

// SessionRepository определяет методы внешнего key-value хранилища сессий.
// Шлюз аутентификации пишет и читает только запись администратора {id, email}.
type SessionRepository interface {
	Save(session *entity.AdminSession, ttl time.Duration) error
	Get(sessionID string) (*entity.AdminSession, error)
	Delete(sessionID string) error
}
