package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
)

// sessionKeyPrefix — префикс ключей сессий в Redis
const sessionKeyPrefix = "session:admin:"

// SessionRepo реализует repository.SessionRepository поверх Redis
type SessionRepo struct {
	client redis.UniversalClient
	ctx    context.Context
}

// NewSessionRepo создает новый репозиторий сессий и возвращает ошибку при проблемах
func NewSessionRepo(client redis.UniversalClient) (*SessionRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for SessionRepo")
	}
	return &SessionRepo{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// Save сохраняет запись сессии с заданным временем жизни
func (r *SessionRepo) Save(session *entity.AdminSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, sessionKeyPrefix+session.ID, data, ttl).Err()
}

// Get возвращает запись сессии по идентификатору
func (r *SessionRepo) Get(sessionID string) (*entity.AdminSession, error) {
	data, err := r.client.Get(r.ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	var session entity.AdminSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete удаляет запись сессии
func (r *SessionRepo) Delete(sessionID string) error {
	return r.client.Del(r.ctx, sessionKeyPrefix+sessionID).Err()
}
