package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
	"github.com/yourusername/quiz-admin-api/internal/service"
)

// SessionCookieName — имя куки с сессионным токеном
const SessionCookieName = "session_token"

// adminSessionKey — ключ контекста Gin с личностью администратора
const adminSessionKey = "admin_session"

// AuthMiddleware разрешает сессионный токен запроса в личность администратора
type AuthMiddleware struct {
	authService *service.AuthService
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// ResolveAdmin прикрепляет личность администратора к запросу, если она есть.
// Сам по себе не отклоняет неаутентифицированный доступ — это делает
// RequireAdmin. Личность передается дальше значением в контексте,
// а не мутацией разделяемого объекта запроса.
func (m *AuthMiddleware) ResolveAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.authService.ResolveSession(extractToken(c))
		if err != nil {
			// Ошибка хранилища сессий фатальна для запроса
			c.Error(err)
			c.Abort()
			return
		}
		if session != nil {
			c.Set(adminSessionKey, session)
		}
		c.Next()
	}
}

// RequireAdmin пропускает только запросы с прикрепленной личностью администратора
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := AdminSessionFromContext(c); !ok {
			c.Error(apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminSessionFromContext возвращает личность администратора из контекста запроса
func AdminSessionFromContext(c *gin.Context) (*entity.AdminSession, bool) {
	value, exists := c.Get(adminSessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*entity.AdminSession)
	return session, ok
}

// extractToken достает сессионный токен из куки или заголовка Authorization
func extractToken(c *gin.Context) string {
	if cookie, err := c.Request.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// SetSessionCookie записывает сессионный токен в HttpOnly куку
func SetSessionCookie(c *gin.Context, token string, maxAgeSec int, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAgeSec,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет сессионную куку
func ClearSessionCookie(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
