package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/service"
)

type ExamController struct {
	sessionSvc service.ExamSessionService
}

func NewExamController(sessionSvc service.ExamSessionService) *ExamController {
	return &ExamController{sessionSvc: sessionSvc}
}

// StartSession godoc
// @Summary Start a trial exam session
// @Description Draws a fresh random question set and opens a live session with a countdown.
// @Tags Exams
// @Accept json
// @Produce json
// @Param session body dto.StartSessionDTO true "User and exam number"
// @Success 201 {object} dto.ExamSessionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/sessions [post]
func (c *ExamController) StartSession(ctx *gin.Context) {
	var req dto.StartSessionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartSession: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	session, err := c.sessionSvc.StartSession(ctx.Request.Context(), req.UserID, req.ExamID)
	if err != nil {
		log.Error().Err(err).Int("userID", req.UserID).Int("examID", req.ExamID).Msg("StartSession: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start exam session", Details: []string{err.Error()}})
		return
	}
	log.Info().Str("sessionID", session.SessionID).Int("userID", req.UserID).Int("examID", req.ExamID).Msg("Exam session started")
	ctx.JSON(http.StatusCreated, session)
}

// GetSession godoc
// @Summary Get the state of a live exam session
// @Tags Exams
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.ExamSessionDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /exams/sessions/{session_id} [get]
func (c *ExamController) GetSession(ctx *gin.Context) {
	session, err := c.sessionSvc.Session(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// SelectAnswer godoc
// @Summary Record an answer inside a live session
// @Description Overwrites any previous choice for the question. Rejected after submission.
// @Tags Exams
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param answer body dto.SessionAnswerDTO true "Question and chosen answer"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already submitted"
// @Router /exams/sessions/{session_id}/answers [put]
func (c *ExamController) SelectAnswer(ctx *gin.Context) {
	var req dto.SessionAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SelectAnswer: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.sessionSvc.SelectAnswer(ctx.Param("session_id"), req.QuestionID, req.AnswerID); err != nil {
		c.sessionError(ctx, err, "SelectAnswer")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Submit godoc
// @Summary Submit a live exam session for scoring
// @Description Requires confirm=true; an unconfirmed request leaves the session untouched. Scores once and archives the result.
// @Tags Exams
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param confirmation body dto.ConfirmDTO true "Explicit confirmation"
// @Success 200 {object} dto.ExamResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or missing confirmation"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already submitted"
// @Failure 500 {object} dto.ErrorResponse "Failed to archive the result"
// @Router /exams/sessions/{session_id}/submit [post]
func (c *ExamController) Submit(ctx *gin.Context) {
	var req dto.ConfirmDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Submit: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.sessionSvc.Submit(ctx.Request.Context(), ctx.Param("session_id"), req.Confirm)
	if err != nil {
		c.sessionError(ctx, err, "Submit")
		return
	}
	log.Info().Str("recordID", result.RecordID).Int("correct", result.CorrectAnswers).Int("total", result.TotalQuestions).Msg("Exam submitted")
	ctx.JSON(http.StatusOK, result)
}

// Abandon godoc
// @Summary Abandon a live exam session
// @Description Requires confirm=true. Discards the session without scoring or archiving anything.
// @Tags Exams
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param confirmation body dto.ConfirmDTO true "Explicit confirmation"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid body or missing confirmation"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already submitted"
// @Router /exams/sessions/{session_id}/abandon [post]
func (c *ExamController) Abandon(ctx *gin.Context) {
	var req dto.ConfirmDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Abandon: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.sessionSvc.Abandon(ctx.Param("session_id"), req.Confirm); err != nil {
		c.sessionError(ctx, err, "Abandon")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetHistory godoc
// @Summary List a user's archived exam results
// @Description Summaries in reverse chronological order.
// @Tags Exams
// @Produce json
// @Param user_id query int false "User ID, 0 or absent for guest"
// @Success 200 {array} dto.ExamSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user_id format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/history [get]
func (c *ExamController) GetHistory(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	history, err := c.sessionSvc.History(ctx.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("GetHistory: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve exam history", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, history)
}

// GetResultDetail godoc
// @Summary Review an archived exam result
// @Description The frozen answer details joined with the current question bank.
// @Tags Exams
// @Produce json
// @Param record_id path string true "Exam record ID"
// @Success 200 {object} dto.ExamDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/history/{record_id} [get]
func (c *ExamController) GetResultDetail(ctx *gin.Context) {
	detail, err := c.sessionSvc.Detail(ctx.Request.Context(), ctx.Param("record_id"))
	if err != nil {
		log.Warn().Err(err).Str("recordID", ctx.Param("record_id")).Msg("GetResultDetail: record not found or service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Exam record not found"})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// sessionError maps the session sentinel errors onto HTTP statuses.
func (c *ExamController) sessionError(ctx *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
	case errors.Is(err, service.ErrSessionSubmitted):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Session has already been submitted"})
	case errors.Is(err, service.ErrConfirmationRequired):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Confirmation required; session left unchanged"})
	default:
		log.Error().Err(err).Str("op", op).Msg("Exam session: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Exam session operation failed", Details: []string{err.Error()}})
	}
}
