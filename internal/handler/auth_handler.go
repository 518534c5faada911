package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-admin-api/internal/handler/dto"
	"github.com/yourusername/quiz-admin-api/internal/handler/helper"
	"github.com/yourusername/quiz-admin-api/internal/middleware"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
	"github.com/yourusername/quiz-admin-api/internal/service"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией администратора
type AuthHandler struct {
	authService  *service.AuthService
	cookieMaxAge int
	secureCookie bool
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, cookieMaxAge int, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login обрабатывает вход администратора.
// POST /api/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(helper.BindingError(err))
		c.Abort()
		return
	}

	admin, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	middleware.SetSessionCookie(c, token, h.cookieMaxAge, h.secureCookie)

	log.Printf("[AuthHandler] Администратор ID=%d (%s) вошел в систему", admin.ID, admin.Email)
	c.JSON(http.StatusOK, dto.LoginResponse{
		ID:    admin.ID,
		Email: admin.Email,
		Token: token,
	})
}

// Current возвращает личность текущего администратора.
// GET /api/admin/current
func (h *AuthHandler) Current(c *gin.Context) {
	session, ok := middleware.AdminSessionFromContext(c)
	if !ok {
		c.Error(apperrors.ErrForbidden)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, dto.AdminResponse{
		ID:    session.AdminID,
		Email: session.Email,
	})
}

// Logout закрывает сессию текущего администратора.
// POST /api/admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := middleware.AdminSessionFromContext(c)
	if !ok {
		c.Error(apperrors.ErrForbidden)
		c.Abort()
		return
	}

	if err := h.authService.Logout(session.ID); err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	middleware.ClearSessionCookie(c, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
