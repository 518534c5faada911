package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	"github.com/yourusername/quiz-admin-api/internal/handler/dto"
	"github.com/yourusername/quiz-admin-api/internal/middleware"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
	"github.com/yourusername/quiz-admin-api/internal/service"
)

// memThemeRepo — имитация хранилища тем в памяти
type memThemeRepo struct {
	themes []entity.Theme
	nextID uint
}

func newMemThemeRepo() *memThemeRepo {
	return &memThemeRepo{nextID: 1}
}

func (r *memThemeRepo) Create(theme *entity.Theme) error {
	for _, t := range r.themes {
		if t.Title == theme.Title {
			return apperrors.ErrConflict
		}
	}
	theme.ID = r.nextID
	r.nextID++
	r.themes = append(r.themes, *theme)
	return nil
}

func (r *memThemeRepo) GetByID(id uint) (*entity.Theme, error) {
	for i := range r.themes {
		if r.themes[i].ID == id {
			theme := r.themes[i]
			return &theme, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memThemeRepo) GetByTitle(title string) (*entity.Theme, error) {
	for i := range r.themes {
		if r.themes[i].Title == title {
			theme := r.themes[i]
			return &theme, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memThemeRepo) List() ([]entity.Theme, error) {
	return r.themes, nil
}

func (r *memThemeRepo) Delete(id uint) error { return nil }

// memQuestionRepo — имитация хранилища вопросов в памяти
type memQuestionRepo struct {
	questions []entity.Question
	nextID    uint
}

func newMemQuestionRepo() *memQuestionRepo {
	return &memQuestionRepo{nextID: 1}
}

func (r *memQuestionRepo) CreateWithAnswers(question *entity.Question, answers []entity.Answer) error {
	for _, q := range r.questions {
		if q.Title == question.Title {
			return apperrors.ErrConflict
		}
	}
	question.ID = r.nextID
	r.nextID++
	for i := range answers {
		answers[i].ID = uint(i + 1)
		answers[i].QuestionID = question.ID
	}
	question.Answers = answers
	r.questions = append(r.questions, *question)
	return nil
}

func (r *memQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	for i := range r.questions {
		if r.questions[i].ID == id {
			q := r.questions[i]
			return &q, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memQuestionRepo) GetByTitle(title string) (*entity.Question, error) {
	for i := range r.questions {
		if r.questions[i].Title == title {
			q := r.questions[i]
			return &q, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memQuestionRepo) List(themeID *uint) ([]entity.Question, error) {
	result := make([]entity.Question, 0)
	for _, q := range r.questions {
		if themeID == nil || q.ThemeID == *themeID {
			result = append(result, q)
		}
	}
	return result, nil
}

func (r *memQuestionRepo) Delete(id uint) error { return nil }

func setupQuizRouter(t *testing.T) (*gin.Engine, *memThemeRepo, *memQuestionRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	themeRepo := newMemThemeRepo()
	questionRepo := newMemQuestionRepo()
	quizService := service.NewQuizService(themeRepo, questionRepo)
	quizHandler := NewQuizHandler(quizService)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	api := router.Group("/api")
	{
		api.POST("/themes", quizHandler.CreateTheme)
		api.GET("/themes", quizHandler.ListThemes)
		api.POST("/questions", quizHandler.CreateQuestion)
		api.GET("/questions", quizHandler.ListQuestions)
		api.GET("/questions/export", quizHandler.ExportQuestions)
	}
	return router, themeRepo, questionRepo
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func seedTheme(t *testing.T, themeRepo *memThemeRepo, title string) *entity.Theme {
	t.Helper()
	theme := &entity.Theme{Title: title}
	require.NoError(t, themeRepo.Create(theme))
	return theme
}

func TestQuizHandler_CreateTheme_Success(t *testing.T) {
	// Arrange
	router, _, _ := setupQuizRouter(t)

	// Act
	w := postJSON(router, "/api/themes", gin.H{"title": "История"})

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ThemeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.ID)
	assert.Equal(t, "История", resp.Title)
}

func TestQuizHandler_CreateTheme_Duplicate(t *testing.T) {
	// Arrange
	router, themeRepo, _ := setupQuizRouter(t)
	seedTheme(t, themeRepo, "История")

	// Act
	w := postJSON(router, "/api/themes", gin.H{"title": "История"})

	// Assert
	assert.Equal(t, http.StatusConflict, w.Code)
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "conflict", resp.Status)
}

func TestQuizHandler_CreateTheme_MissingTitle(t *testing.T) {
	// Arrange
	router, _, _ := setupQuizRouter(t)

	// Act
	w := postJSON(router, "/api/themes", gin.H{})

	// Assert: нарушение правил связывания — 400 с деталями по полям
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Status)
	require.NotNil(t, resp.Data)
}

func TestQuizHandler_CreateQuestion_Success(t *testing.T) {
	// Arrange
	router, themeRepo, _ := setupQuizRouter(t)
	theme := seedTheme(t, themeRepo, "География")

	// Act
	w := postJSON(router, "/api/questions", gin.H{
		"title":    "Столица Франции?",
		"theme_id": theme.ID,
		"answers": []gin.H{
			{"title": "Париж", "is_correct": true},
			{"title": "Лион", "is_correct": false},
			{"title": "Марсель", "is_correct": false},
		},
	})

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.QuestionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Столица Франции?", resp.Title)
	assert.Equal(t, theme.ID, resp.ThemeID)
	assert.Len(t, resp.Answers, 3)
}

func TestQuizHandler_CreateQuestion_TooFewAnswers(t *testing.T) {
	// Arrange
	router, themeRepo, questionRepo := setupQuizRouter(t)
	theme := seedTheme(t, themeRepo, "География")

	// Act
	w := postJSON(router, "/api/questions", gin.H{
		"title":    "Столица Франции?",
		"theme_id": theme.ID,
		"answers": []gin.H{
			{"title": "Париж", "is_correct": true},
		},
	})

	// Assert: нарушение набора ответов — 400, вопрос не сохранен
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Status)
	assert.Contains(t, resp.Message, "invalid answer set")
	assert.Empty(t, questionRepo.questions)
}

func TestQuizHandler_CreateQuestion_TwoCorrectAnswers(t *testing.T) {
	// Arrange
	router, themeRepo, _ := setupQuizRouter(t)
	theme := seedTheme(t, themeRepo, "География")

	// Act
	w := postJSON(router, "/api/questions", gin.H{
		"title":    "Столица Франции?",
		"theme_id": theme.ID,
		"answers": []gin.H{
			{"title": "Париж", "is_correct": true},
			{"title": "Лион", "is_correct": true},
		},
	})

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid answer set")
}

func TestQuizHandler_CreateQuestion_UnknownTheme(t *testing.T) {
	// Arrange
	router, _, _ := setupQuizRouter(t)

	// Act
	w := postJSON(router, "/api/questions", gin.H{
		"title":    "Столица Франции?",
		"theme_id": 42,
		"answers": []gin.H{
			{"title": "Париж", "is_correct": true},
			{"title": "Лион", "is_correct": false},
		},
	})

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Status)
}

func TestQuizHandler_ListQuestions_FilterByTheme(t *testing.T) {
	// Arrange
	router, themeRepo, _ := setupQuizRouter(t)
	geo := seedTheme(t, themeRepo, "География")
	history := seedTheme(t, themeRepo, "История")

	postJSON(router, "/api/questions", gin.H{
		"title": "Столица Франции?", "theme_id": geo.ID,
		"answers": []gin.H{{"title": "Париж", "is_correct": true}, {"title": "Лион"}},
	})
	postJSON(router, "/api/questions", gin.H{
		"title": "Год основания Рима?", "theme_id": history.ID,
		"answers": []gin.H{{"title": "753 до н.э.", "is_correct": true}, {"title": "509 до н.э."}},
	})

	// Act
	w := getPath(router, "/api/questions?theme_id=1")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.QuestionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "Столица Франции?", resp.Questions[0].Title)
}

func TestQuizHandler_ListQuestions_UnknownThemeIsEmptyList(t *testing.T) {
	// Arrange
	router, _, _ := setupQuizRouter(t)

	// Act
	w := getPath(router, "/api/questions?theme_id=99")

	// Assert: неизвестная тема — пустой список, не ошибка
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.QuestionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Questions)
}

func TestQuizHandler_ListQuestions_BadThemeIDQuery(t *testing.T) {
	// Arrange
	router, _, _ := setupQuizRouter(t)

	// Act
	w := getPath(router, "/api/questions?theme_id=abc")

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Status)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "must be a positive integer", data["theme_id"])
}

func TestQuizHandler_ExportQuestions_CSV(t *testing.T) {
	// Arrange
	router, themeRepo, _ := setupQuizRouter(t)
	theme := seedTheme(t, themeRepo, "География")
	postJSON(router, "/api/questions", gin.H{
		"title": "Столица Франции?", "theme_id": theme.ID,
		"answers": []gin.H{{"title": "Париж", "is_correct": true}, {"title": "Лион"}},
	})

	// Act
	w := getPath(router, "/api/questions/export?format=csv")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"), "CSV должен начинаться с UTF-8 BOM")
	assert.Contains(t, body, "Столица Франции?")
	assert.Contains(t, body, "Париж | Лион")
}

func TestQuizHandler_ExportQuestions_XLSX(t *testing.T) {
	// Arrange
	router, themeRepo, _ := setupQuizRouter(t)
	theme := seedTheme(t, themeRepo, "География")
	postJSON(router, "/api/questions", gin.H{
		"title": "Столица Франции?", "theme_id": theme.ID,
		"answers": []gin.H{{"title": "Париж", "is_correct": true}, {"title": "Лион"}},
	})

	// Act
	w := getPath(router, "/api/questions/export?format=xlsx")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	// XLSX — это zip-архив, начинается с сигнатуры PK
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

// brokenWriter имитирует обрыв соединения при выгрузке
type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("write: broken pipe")
}

func TestWriteQuestionsCSV(t *testing.T) {
	questions := []entity.Question{
		{
			ID:      1,
			Title:   "Столица Франции?",
			ThemeID: 1,
			Answers: []entity.Answer{
				{Title: "Париж", IsCorrect: true},
				{Title: "Лион"},
			},
		},
	}
	themeTitles := map[uint]string{1: "География"}

	t.Run("Success", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeQuestionsCSV(&buf, questions, themeTitles))
		assert.Contains(t, buf.String(), "Столица Франции?")
		assert.Contains(t, buf.String(), "Париж | Лион")
	})

	t.Run("BrokenStream", func(t *testing.T) {
		// Обрыв потока не должен проглатываться молча
		err := writeQuestionsCSV(brokenWriter{}, questions, themeTitles)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken pipe")
	})
}

func TestSanitizeForExcel(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Plain", input: "Париж", want: "Париж"},
		{name: "Formula", input: "=SUM(A1:A2)", want: "'=SUM(A1:A2)"},
		{name: "Plus", input: "+1", want: "'+1"},
		{name: "Minus", input: "-1", want: "'-1"},
		{name: "At", input: "@cmd", want: "'@cmd"},
		{name: "Empty", input: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeForExcel(tc.input))
		})
	}
}
