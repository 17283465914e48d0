package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/service"
)

// defaultWrongRatio keeps a question out of the frequently-wrong list
// until at least half of its exam appearances went wrong.
const defaultWrongRatio = 0.5

type StatisticController struct {
	statisticsSvc service.StatisticsService
}

func NewStatisticController(statisticsSvc service.StatisticsService) *StatisticController {
	return &StatisticController{statisticsSvc: statisticsSvc}
}

// GetStatistics godoc
// @Summary Full statistics summary for a user
// @Description Overview counts, per-category stats, exam aggregates with trend, improvement figures and streaks. Everything is derived on demand.
// @Tags Statistics
// @Produce json
// @Param user_id query int false "User ID, 0 or absent for guest"
// @Success 200 {object} dto.StatisticsDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user_id format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /statistics [get]
func (c *StatisticController) GetStatistics(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	summary, err := c.statisticsSvc.Summary(ctx.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("GetStatistics: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute statistics", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GetFrequentlyWrong godoc
// @Summary Questions the user keeps getting wrong in exams
// @Description Per-question wrong/correct tallies across the exam archive, filtered by wrong-attempt ratio.
// @Tags Statistics
// @Produce json
// @Param user_id query int false "User ID, 0 or absent for guest"
// @Param threshold query number false "Minimum wrong ratio in [0,1], default 0.5"
// @Success 200 {array} dto.QuestionAttemptStatDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user_id or threshold format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /statistics/frequently-wrong [get]
func (c *StatisticController) GetFrequentlyWrong(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}

	threshold := defaultWrongRatio
	if raw := ctx.Query("threshold"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil || val < 0 || val > 1 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid threshold; expected a number in [0,1]"})
			return
		}
		threshold = val
	}

	stats, err := c.statisticsSvc.FrequentlyWrong(ctx.Request.Context(), userID, threshold)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("GetFrequentlyWrong: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute frequently wrong questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
