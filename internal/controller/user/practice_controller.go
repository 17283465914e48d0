package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/service"
)

type PracticeController struct {
	practiceSvc service.PracticeService
	categorySvc service.CategoryService
}

func NewPracticeController(practiceSvc service.PracticeService, categorySvc service.CategoryService) *PracticeController {
	return &PracticeController{practiceSvc: practiceSvc, categorySvc: categorySvc}
}

// queryUserID reads the optional user_id query param. Absent means guest.
func queryUserID(ctx *gin.Context) (int, bool) {
	raw := ctx.DefaultQuery("user_id", strconv.Itoa(service.GuestUserID))
	userID, err := strconv.Atoi(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user_id format"})
		return 0, false
	}
	return userID, true
}

// GetQuestions godoc
// @Summary List practice questions
// @Description Get the question bank, optionally filtered by category. Correct flags are never included.
// @Tags Practice
// @Produce json
// @Param category query string false "Category key (law, traffic-sign, situation)"
// @Success 200 {array} dto.QuestionDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions [get]
func (c *PracticeController) GetQuestions(ctx *gin.Context) {
	questions, err := c.practiceSvc.Questions(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		log.Error().Err(err).Msg("GetQuestions: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GetProgress godoc
// @Summary Get a user's practice progress
// @Description Per-question progress snapshot. Correctness is only present for revealed questions.
// @Tags Practice
// @Produce json
// @Param user_id query int false "User ID, 0 or absent for guest"
// @Success 200 {array} dto.ProgressItemDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user_id format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress [get]
func (c *PracticeController) GetProgress(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	items, err := c.practiceSvc.Progress(ctx.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("GetProgress: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve progress", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// SelectOption godoc
// @Summary Select an answer for a practice question
// @Description Records or replaces the user's current choice. Rejected once the question has been revealed.
// @Tags Practice
// @Accept json
// @Produce json
// @Param selection body dto.SelectOptionDTO true "User, question and chosen answer"
// @Success 200 {object} dto.ProgressItemDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Question already revealed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress/select [post]
func (c *PracticeController) SelectOption(ctx *gin.Context) {
	var req dto.SelectOptionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SelectOption: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	item, err := c.practiceSvc.SelectOption(ctx.Request.Context(), req.UserID, req.QuestionID, req.AnswerID)
	if err != nil {
		if errors.Is(err, service.ErrQuestionRevealed) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Question has already been revealed"})
			return
		}
		log.Error().Err(err).Int("userID", req.UserID).Str("questionID", req.QuestionID).Msg("SelectOption: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to record selection", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// RevealAnswer godoc
// @Summary Reveal the answer for a practice question
// @Description Marks the question answered and returns whether the current selection was correct. Idempotent.
// @Tags Practice
// @Accept json
// @Produce json
// @Param reveal body dto.RevealAnswerDTO true "User and question"
// @Success 200 {object} dto.ProgressItemDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress/reveal [post]
func (c *PracticeController) RevealAnswer(ctx *gin.Context) {
	var req dto.RevealAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("RevealAnswer: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	item, err := c.practiceSvc.RevealAnswer(ctx.Request.Context(), req.UserID, req.QuestionID)
	if err != nil {
		log.Error().Err(err).Int("userID", req.UserID).Str("questionID", req.QuestionID).Msg("RevealAnswer: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to reveal answer", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// ResetProgress godoc
// @Summary Delete all practice progress for a user
// @Description Removes every progress record for the user. Exam history is untouched.
// @Tags Practice
// @Produce json
// @Param user_id query int false "User ID, 0 or absent for guest"
// @Success 200 {object} dto.ResetProgressDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user_id format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress [delete]
func (c *PracticeController) ResetProgress(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	deleted, err := c.practiceSvc.ResetProgress(ctx.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Int("deleted", deleted).Msg("ResetProgress: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to reset progress", Details: []string{err.Error()}})
		return
	}
	log.Info().Int("userID", userID).Int("deleted", deleted).Msg("Practice progress reset")
	ctx.JSON(http.StatusOK, dto.ResetProgressDTO{Deleted: deleted})
}

// GetTopicStats godoc
// @Summary Per-category practice statistics
// @Description Aggregates answered counts, accuracy and completion for each category in catalogue order.
// @Tags Practice
// @Produce json
// @Param user_id query int false "User ID, 0 or absent for guest"
// @Success 200 {array} dto.CategoryStatDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user_id format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /topics/stats [get]
func (c *PracticeController) GetTopicStats(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	stats, err := c.categorySvc.TopicStats(ctx.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("GetTopicStats: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute topic statistics", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
