package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quiz-admin-api/internal/domain/entity"
	"github.com/yourusername/quiz-admin-api/internal/handler/dto"
	"github.com/yourusername/quiz-admin-api/internal/handler/helper"
	apperrors "github.com/yourusername/quiz-admin-api/internal/pkg/errors"
	"github.com/yourusername/quiz-admin-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с темами и вопросами
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик викторины
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// CreateThemeRequest представляет запрос на создание темы
type CreateThemeRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// CreateTheme обрабатывает создание темы.
// POST /api/themes
func (h *QuizHandler) CreateTheme(c *gin.Context) {
	var req CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(helper.BindingError(err))
		c.Abort()
		return
	}

	// Предварительная проверка дубликата; при гонке финальный арбитр —
	// уникальный индекс хранилища, репозиторий вернет тот же ErrConflict
	_, err := h.quizService.GetThemeByTitle(req.Title)
	if err == nil {
		c.Error(fmt.Errorf("%w: theme with title %q", apperrors.ErrConflict, req.Title))
		c.Abort()
		return
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		c.Error(err)
		c.Abort()
		return
	}

	theme, err := h.quizService.CreateTheme(req.Title)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, dto.NewThemeResponse(theme))
}

// ListThemes возвращает все темы.
// GET /api/themes
func (h *QuizHandler) ListThemes(c *gin.Context) {
	themes, err := h.quizService.ListThemes()
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, dto.NewThemeListResponse(themes))
}

// CreateQuestionRequest представляет запрос на создание вопроса
type CreateQuestionRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=255"`
	ThemeID uint   `json:"theme_id" binding:"required"`
	// Количество ответов и единственность правильного проверяет
	// доменная операция, не валидатор запроса
	Answers []struct {
		Title     string `json:"title" binding:"required"`
		IsCorrect bool   `json:"is_correct"`
	} `json:"answers" binding:"required,dive"`
}

// CreateQuestion обрабатывает создание вопроса с набором ответов.
// POST /api/questions
func (h *QuizHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(helper.BindingError(err))
		c.Abort()
		return
	}

	// Предварительные проверки: тема существует, название не занято.
	// Хранилище подстраховывает обе через FK и уникальный индекс.
	if _, err := h.quizService.GetThemeByID(req.ThemeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.Error(fmt.Errorf("%w: theme #%d", apperrors.ErrNotFound, req.ThemeID))
		} else {
			c.Error(err)
		}
		c.Abort()
		return
	}

	_, err := h.quizService.GetQuestionByTitle(req.Title)
	if err == nil {
		c.Error(fmt.Errorf("%w: question with title %q", apperrors.ErrConflict, req.Title))
		c.Abort()
		return
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		c.Error(err)
		c.Abort()
		return
	}

	answers := make([]entity.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, entity.Answer{
			Title:     a.Title,
			IsCorrect: a.IsCorrect,
		})
	}

	question, err := h.quizService.CreateQuestion(req.Title, req.ThemeID, answers)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// ListQuestions возвращает вопросы с ответами, опционально по теме.
// GET /api/questions?theme_id=N
func (h *QuizHandler) ListQuestions(c *gin.Context) {
	themeID, err := parseThemeIDQuery(c)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	questions, err := h.quizService.ListQuestions(themeID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionListResponse(questions))
}

// ExportQuestions выгружает банк вопросов в CSV или XLSX.
// GET /api/questions/export?theme_id=N&format=csv|xlsx
func (h *QuizHandler) ExportQuestions(c *gin.Context) {
	themeID, err := parseThemeIDQuery(c)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	questions, err := h.quizService.ListQuestions(themeID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	themes, err := h.quizService.ListThemes()
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}
	themeTitles := make(map[uint]string, len(themes))
	for _, t := range themes {
		themeTitles[t.ID] = t.Title
	}

	filename := fmt.Sprintf("questions_%s", time.Now().Format("2006-01-02"))

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		h.exportXLSX(c, questions, themeTitles, filename)
	default:
		h.exportCSV(c, questions, themeTitles, filename)
	}
}

// exportCSV выгружает вопросы в CSV с правильным экранированием спецсимволов
func (h *QuizHandler) exportCSV(c *gin.Context, questions []entity.Question, themeTitles map[uint]string, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Заголовки уже ушли клиенту, прерывать ответ поздно —
	// обрыв потока фиксируется в логе
	if err := writeQuestionsCSV(c.Writer, questions, themeTitles); err != nil {
		log.Printf("[QuizHandler] Ошибка записи CSV: %v", err)
	}
}

// writeQuestionsCSV пишет банк вопросов в CSV и возвращает
// первую ошибку кодирования или записи в поток
func writeQuestionsCSV(w io.Writer, questions []entity.Question, themeTitles map[uint]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"ID", "Вопрос", "Тема", "Варианты", "Правильный ответ"}); err != nil {
		return err
	}

	for _, q := range questions {
		correct := ""
		if a := q.CorrectAnswer(); a != nil {
			correct = a.Title
		}
		row := []string{
			strconv.FormatUint(uint64(q.ID), 10),
			sanitizeForExcel(q.Title),
			sanitizeForExcel(themeTitles[q.ThemeID]),
			sanitizeForExcel(joinAnswerTitles(q.Answers)),
			sanitizeForExcel(correct),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportXLSX выгружает вопросы в Excel с использованием StreamWriter
func (h *QuizHandler) exportXLSX(c *gin.Context, questions []entity.Question, themeTitles map[uint]string, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Вопросы"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuizHandler] Ошибка создания StreamWriter: %v", err)
		c.Error(err)
		c.Abort()
		return
	}

	headers := []interface{}{"ID", "Вопрос", "Тема", "Варианты", "Правильный ответ"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[QuizHandler] Ошибка записи заголовков: %v", err)
	}

	for i, q := range questions {
		rowNum := i + 2 // 1 строка — заголовки
		cell := fmt.Sprintf("A%d", rowNum)

		correct := ""
		if a := q.CorrectAnswer(); a != nil {
			correct = a.Title
		}

		row := []interface{}{
			q.ID,
			sanitizeForExcel(q.Title),
			sanitizeForExcel(themeTitles[q.ThemeID]),
			sanitizeForExcel(joinAnswerTitles(q.Answers)),
			sanitizeForExcel(correct),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[QuizHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuizHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuizHandler] Ошибка записи Excel в response: %v", err)
	}
}

// parseThemeIDQuery читает необязательный query-параметр theme_id
func parseThemeIDQuery(c *gin.Context) (*uint, error) {
	raw := c.Query("theme_id")
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, apperrors.NewValidationError(apperrors.FieldErrors{
			"theme_id": "must be a positive integer",
		})
	}

	themeID := uint(id)
	return &themeID, nil
}

// joinAnswerTitles собирает варианты ответов в одну ячейку
func joinAnswerTitles(answers []entity.Answer) string {
	titles := make([]string, 0, len(answers))
	for _, a := range answers {
		titles = append(titles, a.Title)
	}
	return strings.Join(titles, " | ")
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
