package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spendwise/internal/models"
	"spendwise/internal/services"
)

// InsightHandler handles AI spending insights.
type InsightHandler struct {
	insightService services.InsightServicer
	now            func() time.Time
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService services.InsightServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService, now: time.Now}
}

// InsightsResponse wraps a list of insights.
type InsightsResponse struct {
	Insights []models.Insight `json:"insights"`
}

// GetInsights lists the user's insights, newest first.
// @Summary     List insights
// @Description Get the authenticated user's insights, newest first
// @Tags        insights
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} InsightsResponse "Insights"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /insights [get]
func (h *InsightHandler) GetInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insights, err := h.insightService.ListInsights(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newInsightsResponse(insights))
}

// GenerateInsights analyzes this month against last month and stores new insights.
// @Summary     Generate insights
// @Description Analyze the current calendar month against the previous one and persist AI-generated insights. When the AI service fails a single fallback insight is stored instead.
// @Tags        insights
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} InsightsResponse "Generated insights"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /insights/generate [post]
func (h *InsightHandler) GenerateInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insights, err := h.insightService.GenerateInsights(c.Request.Context(), userID, h.now().UTC())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newInsightsResponse(insights))
}

// MarkRead marks an insight as read.
// @Summary     Mark insight read
// @Description Mark an insight as read. Marking an already-read insight is a no-op.
// @Tags        insights
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Insight ID"
// @Success     200 {object} models.Insight "Updated insight"
// @Failure     400 {object} ErrorResponse "Invalid insight ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Insight not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /insights/{id}/read [put]
func (h *InsightHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insightID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	insight, err := h.insightService.MarkRead(c.Request.Context(), userID, insightID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insight": insight})
}

func newInsightsResponse(insights []models.Insight) InsightsResponse {
	if insights == nil {
		insights = []models.Insight{}
	}
	return InsightsResponse{Insights: insights}
}
