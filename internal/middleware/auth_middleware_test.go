package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
	"github.com/yourusername/quiz-admin-api/internal/service"
	"github.com/yourusername/quiz-admin-api/pkg/auth"
)

// stubAdminRepo — минимальная реализация AdminRepository для сборки AuthService
type stubAdminRepo struct{}

func (s *stubAdminRepo) Create(*entity.Admin) error { return nil }
func (s *stubAdminRepo) GetByEmail(string) (*entity.Admin, error) {
	return nil, apperrors.ErrNotFound
}
func (s *stubAdminRepo) GetByID(uint) (*entity.Admin, error) { return nil, apperrors.ErrNotFound }

// stubSessionRepo хранит сессии в памяти
type stubSessionRepo struct {
	sessions map[string]*entity.AdminSession
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*entity.AdminSession)}
}

func (s *stubSessionRepo) Save(session *entity.AdminSession, _ time.Duration) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *stubSessionRepo) Get(sessionID string) (*entity.AdminSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return session, nil
}

func (s *stubSessionRepo) Delete(sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func setupAuthRouter(t *testing.T, sessionRepo *stubSessionRepo) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)

	authService, err := service.NewAuthService(&stubAdminRepo{}, sessionRepo, jwtService)
	require.NoError(t, err)

	authMiddleware := NewAuthMiddleware(authService)

	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(authMiddleware.ResolveAdmin())
	router.GET("/open", func(c *gin.Context) {
		_, ok := AdminSessionFromContext(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	router.GET("/protected", authMiddleware.RequireAdmin(), func(c *gin.Context) {
		session, _ := AdminSessionFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": session.Email})
	})
	return router, jwtService
}

func issueSessionToken(t *testing.T, jwtService *auth.JWTService, sessionRepo *stubSessionRepo) string {
	t.Helper()
	session := &entity.AdminSession{ID: "session-1", AdminID: 1, Email: "admin@admin.com"}
	require.NoError(t, sessionRepo.Save(session, time.Hour))
	token, err := jwtService.GenerateToken(session.ID, session.AdminID, session.Email)
	require.NoError(t, err)
	return token
}

func TestRequireAdmin_RejectsWithoutIdentity(t *testing.T) {
	// Arrange
	router, _ := setupAuthRouter(t, newStubSessionRepo())

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	// Assert: без личности — 403 в едином конверте
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"status":"forbidden","message":"forbidden"}`, w.Body.String())
}

func TestRequireAdmin_PassesWithSessionCookie(t *testing.T) {
	// Arrange
	sessionRepo := newStubSessionRepo()
	router, jwtService := setupAuthRouter(t, sessionRepo)
	token := issueSessionToken(t, jwtService, sessionRepo)

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"admin@admin.com"}`, w.Body.String())
}

func TestRequireAdmin_PassesWithBearerHeader(t *testing.T) {
	// Arrange
	sessionRepo := newStubSessionRepo()
	router, jwtService := setupAuthRouter(t, sessionRepo)
	token := issueSessionToken(t, jwtService, sessionRepo)

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResolveAdmin_IgnoresInvalidToken(t *testing.T) {
	// Arrange: мусорный токен не должен валить открытый маршрут
	router, _ := setupAuthRouter(t, newStubSessionRepo())

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"})
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestResolveAdmin_IgnoresDeletedSession(t *testing.T) {
	// Arrange: токен валиден, но сессия уже удалена из хранилища
	sessionRepo := newStubSessionRepo()
	router, jwtService := setupAuthRouter(t, sessionRepo)
	token := issueSessionToken(t, jwtService, sessionRepo)
	require.NoError(t, sessionRepo.Delete("session-1"))

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSessionCookieHelpers(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Act
	SetSessionCookie(c, "token-value", 3600, false)

	// Assert
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "token-value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	// Act: очистка
	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	ClearSessionCookie(c2, false)

	// Assert
	cookies = w2.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
