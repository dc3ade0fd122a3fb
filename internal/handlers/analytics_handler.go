package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/services"
	"spendwise/internal/types"
)

// AnalyticsHandler serves spending statistics.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

type statsQuery struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
}

// GetStats returns totals, category breakdown and daily trend for a range.
// @Summary     Spending statistics
// @Description Total spent, per-category breakdown (amount descending) and per-day trend (date ascending) for the inclusive date range
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string true "First day (YYYY-MM-DD)"
// @Param       endDate   query string true "Last day (YYYY-MM-DD)"
// @Success     200 {object} analytics.Stats "Statistics"
// @Failure     400 {object} ErrorResponse "Missing or malformed dates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/stats [get]
func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query statsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate and endDate are required"))
		return
	}

	start, err := types.ParseDate(query.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate must be YYYY-MM-DD"))
		return
	}
	end, err := types.ParseDate(query.EndDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "endDate must be YYYY-MM-DD"))
		return
	}

	stats, err := h.analyticsService.GetStats(c.Request.Context(), userID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
