package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendwise/internal/services"
	"spendwise/internal/types"
)

// AIHandler exposes AI expense categorization.
type AIHandler struct {
	categorizationService services.CategorizationServicer
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(categorizationService services.CategorizationServicer) *AIHandler {
	return &AIHandler{categorizationService: categorizationService}
}

// CategorizeRequest describes an expense to categorize.
type CategorizeRequest struct {
	Description string       `json:"description" binding:"required,min=1,max=500"`
	Amount      *types.Money `json:"amount" binding:"required,money_nonnegative" swaggertype:"number" example:"450.00"`
}

// Categorize suggests a category for an expense.
// @Summary     Categorize an expense
// @Description Ask the AI service for a category label, confidence and reasoning, plus the best matching existing category. Falls back to "shopping" with confidence 0.1 when the AI service fails.
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategorizeRequest true "Expense to categorize"
// @Success     200 {object} services.CategorizationResult "Categorization"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /ai/categorize [post]
func (h *AIHandler) Categorize(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req CategorizeRequest
	if !bindJSON(c, &req) {
		return
	}

	result := h.categorizationService.Categorize(c.Request.Context(), req.Description, *req.Amount)
	c.JSON(http.StatusOK, result)
}
