package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/model"
	"github.com/haiminh-dev/drivemaster/internal/repository"
)

// AdminQuestionController curates the question bank. Responses include
// the correct flags, so these routes must never be exposed to the
// practice frontend.
type AdminQuestionController struct {
	questionRepo repository.QuestionRepository
}

func NewAdminQuestionController(questionRepo repository.QuestionRepository) *AdminQuestionController {
	return &AdminQuestionController{questionRepo: questionRepo}
}

// validateAnswerKey enforces exactly one correct option and option IDs
// unique within the question. Returns a message for the client, empty
// when valid.
func validateAnswerKey(options []dto.AnswerOptionCreateDTO) string {
	correct := 0
	seen := make(map[int]bool, len(options))
	for _, opt := range options {
		if opt.Correct {
			correct++
		}
		if seen[opt.ID] {
			return "Answer option IDs must be unique within a question"
		}
		seen[opt.ID] = true
	}
	if correct != 1 {
		return "Exactly one answer option must be marked correct"
	}
	return ""
}

// CreateQuestion godoc
// @Summary (Admin) Add a question to the bank
// @Description Creates a bank entry. Exactly one answer option must be marked correct.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question body dto.QuestionCreateDTO true "Question data"
// @Success 201 {object} model.Question
// @Failure 400 {object} dto.ErrorResponse "Invalid body or answer key"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [post]
func (c *AdminQuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if msg := validateAnswerKey(req.Answer); msg != "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: msg})
		return
	}

	var question model.Question
	if err := copier.Copy(&question, &req); err != nil {
		log.Error().Err(err).Msg("Admin CreateQuestion: failed to map request")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create question"})
		return
	}

	if err := c.questionRepo.Create(ctx.Request.Context(), &question); err != nil {
		log.Error().Err(err).Msg("Admin CreateQuestion: repository error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create question", Details: []string{err.Error()}})
		return
	}
	log.Info().Str("questionID", question.ID).Msg("Question created")
	ctx.JSON(http.StatusCreated, question)
}

// GetQuestion godoc
// @Summary (Admin) Get a bank entry including the answer key
// @Tags Admin - Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} model.Question
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{id} [get]
func (c *AdminQuestionController) GetQuestion(ctx *gin.Context) {
	question, err := c.questionRepo.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		log.Warn().Err(err).Str("questionID", ctx.Param("id")).Msg("Admin GetQuestion: not found or store error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found"})
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// GetAllQuestions godoc
// @Summary (Admin) List the full bank including answer keys
// @Tags Admin - Questions
// @Produce json
// @Success 200 {array} model.Question
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [get]
func (c *AdminQuestionController) GetAllQuestions(ctx *gin.Context) {
	questions, err := c.questionRepo.FindAll(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Admin GetAllQuestions: repository error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// UpdateQuestion godoc
// @Summary (Admin) Replace a bank entry
// @Description Full replacement with the same answer-key validation as create.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param question body dto.QuestionCreateDTO true "Replacement question data"
// @Success 200 {object} model.Question
// @Failure 400 {object} dto.ErrorResponse "Invalid body or answer key"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{id} [put]
func (c *AdminQuestionController) UpdateQuestion(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.questionRepo.FindByID(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found"})
		return
	}

	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin UpdateQuestion: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if msg := validateAnswerKey(req.Answer); msg != "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: msg})
		return
	}

	var question model.Question
	if err := copier.Copy(&question, &req); err != nil {
		log.Error().Err(err).Msg("Admin UpdateQuestion: failed to map request")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update question"})
		return
	}
	question.ID = id

	if err := c.questionRepo.Update(ctx.Request.Context(), &question); err != nil {
		log.Error().Err(err).Str("questionID", id).Msg("Admin UpdateQuestion: repository error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary (Admin) Remove a question from the bank
// @Description Archived exam details that reference the question keep their frozen copy.
// @Tags Admin - Questions
// @Param id path string true "Question ID"
// @Success 204 "No Content"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{id} [delete]
func (c *AdminQuestionController) DeleteQuestion(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.questionRepo.Delete(ctx.Request.Context(), id); err != nil {
		log.Error().Err(err).Str("questionID", id).Msg("Admin DeleteQuestion: repository error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete question", Details: []string{err.Error()}})
		return
	}
	log.Info().Str("questionID", id).Msg("Question deleted")
	ctx.Status(http.StatusNoContent)
}
