package dto

import (
	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
)

// AdminResponse представляет администратора в формате для ответа клиенту
type AdminResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// LoginResponse представляет ответ на успешный вход:
// данные администратора и сессионный токен для клиентов без кук
type LoginResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// NewAdminResponse создает DTO для администратора
func NewAdminResponse(admin *entity.Admin) AdminResponse {
	return AdminResponse{
		ID:    admin.ID,
		Email: admin.Email,
	}
}
