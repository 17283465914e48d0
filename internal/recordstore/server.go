package recordstore

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/model"
)

// Server is the flat record store the quiz API talks to. It mimics a
// json-server style interface: one route group per collection, equality
// filters via query params, PATCH merges only the fields present in the
// body. Clients own all semantics; the store never validates domain rules.
type Server struct {
	db *gorm.DB
}

func NewServer(db *gorm.DB) *Server {
	return &Server{db: db}
}

func (s *Server) RegisterRoutes(router *gin.Engine) {
	questions := router.Group("/questions")
	questions.GET("", s.ListQuestions)
	questions.GET("/:id", s.GetQuestion)
	questions.POST("", s.CreateQuestion)
	questions.PUT("/:id", s.ReplaceQuestion)
	questions.DELETE("/:id", s.DeleteQuestion)

	progress := router.Group("/progress")
	progress.GET("", s.ListProgress)
	progress.GET("/:id", s.GetProgress)
	progress.POST("", s.CreateProgress)
	progress.PATCH("/:id", s.PatchProgress)
	progress.DELETE("/:id", s.DeleteProgress)

	exams := router.Group("/exam")
	exams.GET("", s.ListExams)
	exams.GET("/:id", s.GetExam)
	exams.POST("", s.CreateExam)

	users := router.Group("/user")
	users.GET("", s.ListUsers)
	users.POST("", s.CreateUser)
}

func (s *Server) ListQuestions(ctx *gin.Context) {
	var questions []model.Question
	if err := s.db.WithContext(ctx.Request.Context()).Find(&questions).Error; err != nil {
		s.storeError(ctx, err, "list questions")
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

func (s *Server) GetQuestion(ctx *gin.Context) {
	var question model.Question
	if err := s.db.WithContext(ctx.Request.Context()).First(&question, "id = ?", ctx.Param("id")).Error; err != nil {
		s.notFoundOrError(ctx, err, "question")
		return
	}
	ctx.JSON(http.StatusOK, question)
}

func (s *Server) CreateQuestion(ctx *gin.Context) {
	var question model.Question
	if err := ctx.ShouldBindJSON(&question); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx.Request.Context()).Create(&question).Error; err != nil {
		s.storeError(ctx, err, "create question")
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

func (s *Server) ReplaceQuestion(ctx *gin.Context) {
	var question model.Question
	if err := ctx.ShouldBindJSON(&question); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	question.ID = ctx.Param("id")
	result := s.db.WithContext(ctx.Request.Context()).Model(&model.Question{}).Where("id = ?", question.ID).Select("*").Omit("id").Updates(&question)
	if result.Error != nil {
		s.storeError(ctx, result.Error, "replace question")
		return
	}
	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "question not found"})
		return
	}
	ctx.JSON(http.StatusOK, question)
}

func (s *Server) DeleteQuestion(ctx *gin.Context) {
	if err := s.db.WithContext(ctx.Request.Context()).Delete(&model.Question{}, "id = ?", ctx.Param("id")).Error; err != nil {
		s.storeError(ctx, err, "delete question")
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (s *Server) ListProgress(ctx *gin.Context) {
	query := s.db.WithContext(ctx.Request.Context())
	if userID := ctx.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if questionID := ctx.Query("questionId"); questionID != "" {
		query = query.Where("question_id = ?", questionID)
	}
	var records []model.ProgressRecord
	if err := query.Find(&records).Error; err != nil {
		s.storeError(ctx, err, "list progress")
		return
	}
	ctx.JSON(http.StatusOK, records)
}

func (s *Server) GetProgress(ctx *gin.Context) {
	var record model.ProgressRecord
	if err := s.db.WithContext(ctx.Request.Context()).First(&record, "id = ?", ctx.Param("id")).Error; err != nil {
		s.notFoundOrError(ctx, err, "progress record")
		return
	}
	ctx.JSON(http.StatusOK, record)
}

func (s *Server) CreateProgress(ctx *gin.Context) {
	var record model.ProgressRecord
	if err := ctx.ShouldBindJSON(&record); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx.Request.Context()).Create(&record).Error; err != nil {
		s.storeError(ctx, err, "create progress")
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

// PatchProgress merges the request body over the stored record: only keys
// present in the JSON change, an explicit null clears a nullable field.
func (s *Server) PatchProgress(ctx *gin.Context) {
	var record model.ProgressRecord
	if err := s.db.WithContext(ctx.Request.Context()).First(&record, "id = ?", ctx.Param("id")).Error; err != nil {
		s.notFoundOrError(ctx, err, "progress record")
		return
	}

	body, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to read request body"})
		return
	}
	id := record.ID
	if err := json.Unmarshal(body, &record); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	record.ID = id

	if err := s.db.WithContext(ctx.Request.Context()).Model(&model.ProgressRecord{}).Where("id = ?", id).Select("*").Omit("id").Updates(&record).Error; err != nil {
		s.storeError(ctx, err, "patch progress")
		return
	}
	ctx.JSON(http.StatusOK, record)
}

func (s *Server) DeleteProgress(ctx *gin.Context) {
	if err := s.db.WithContext(ctx.Request.Context()).Delete(&model.ProgressRecord{}, "id = ?", ctx.Param("id")).Error; err != nil {
		s.storeError(ctx, err, "delete progress")
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (s *Server) ListExams(ctx *gin.Context) {
	query := s.db.WithContext(ctx.Request.Context())
	if userID := ctx.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	var records []model.ExamRecord
	if err := query.Find(&records).Error; err != nil {
		s.storeError(ctx, err, "list exams")
		return
	}
	ctx.JSON(http.StatusOK, records)
}

func (s *Server) GetExam(ctx *gin.Context) {
	var record model.ExamRecord
	if err := s.db.WithContext(ctx.Request.Context()).First(&record, "id = ?", ctx.Param("id")).Error; err != nil {
		s.notFoundOrError(ctx, err, "exam record")
		return
	}
	ctx.JSON(http.StatusOK, record)
}

func (s *Server) CreateExam(ctx *gin.Context) {
	var record model.ExamRecord
	if err := ctx.ShouldBindJSON(&record); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx.Request.Context()).Create(&record).Error; err != nil {
		s.storeError(ctx, err, "create exam")
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

func (s *Server) ListUsers(ctx *gin.Context) {
	query := s.db.WithContext(ctx.Request.Context())
	if username := ctx.Query("username"); username != "" {
		query = query.Where("username = ?", username)
	}
	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		s.storeError(ctx, err, "list users")
		return
	}
	ctx.JSON(http.StatusOK, users)
}

func (s *Server) CreateUser(ctx *gin.Context) {
	var user model.User
	if err := ctx.ShouldBindJSON(&user); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	user.ID = 0
	if err := s.db.WithContext(ctx.Request.Context()).Create(&user).Error; err != nil {
		s.storeError(ctx, err, "create user")
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

func (s *Server) storeError(ctx *gin.Context, err error, op string) {
	log.Error().Err(err).Str("op", op).Msg("Record store failure")
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Record store failure", Details: []string{err.Error()}})
}

func (s *Server) notFoundOrError(ctx *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: what + " not found"})
		return
	}
	s.storeError(ctx, err, "get "+what)
}
