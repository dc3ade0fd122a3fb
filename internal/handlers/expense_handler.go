package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/repository"
	"spendwise/internal/services"
	"spendwise/internal/types"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
// Date defaults to today and paymentMethod to cash.
type CreateExpenseRequest struct {
	CategoryID    *string              `json:"categoryId" binding:"omitempty,uuid"`
	Amount        *types.Money         `json:"amount" binding:"required,money_nonnegative" swaggertype:"number" example:"12.50"`
	Description   string               `json:"description" binding:"required,min=1,max=500"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"omitempty,payment_method"`
	Date          types.Date           `json:"date" swaggertype:"string" format:"date" example:"2024-03-15"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
// An empty categoryId detaches the expense from its category.
type UpdateExpenseRequest struct {
	CategoryID    *string               `json:"categoryId" binding:"omitempty,uuid_or_empty"`
	Amount        *types.Money          `json:"amount" binding:"omitempty,money_nonnegative" swaggertype:"number"`
	Description   *string               `json:"description" binding:"omitempty,min=1,max=500"`
	PaymentMethod *models.PaymentMethod `json:"paymentMethod" binding:"omitempty,payment_method"`
	Date          *types.Date           `json:"date" swaggertype:"string" format:"date"`
}

// listExpensesQuery holds the optional filters of an expense listing.
type listExpensesQuery struct {
	StartDate     string `form:"startDate"`
	EndDate       string `form:"endDate"`
	CategoryID    string `form:"categoryId" binding:"omitempty,uuid"`
	PaymentMethod string `form:"paymentMethod" binding:"omitempty,payment_method"`
}

func (q listExpensesQuery) filter() (repository.ExpenseFilter, error) {
	filter := repository.ExpenseFilter{
		CategoryID:    q.CategoryID,
		PaymentMethod: models.PaymentMethod(q.PaymentMethod),
	}
	if q.StartDate != "" {
		start, err := types.ParseDate(q.StartDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate must be YYYY-MM-DD")
		}
		filter.StartDate = &start
	}
	if q.EndDate != "" {
		end, err := types.ParseDate(q.EndDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "endDate must be YYYY-MM-DD")
		}
		filter.EndDate = &end
	}
	return filter, nil
}

// CreateExpense handles recording a new expense.
// @Summary     Create an expense
// @Description Record a new expense for the authenticated user
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), userID, services.ExpenseInput{
		CategoryID:    req.CategoryID,
		Amount:        *req.Amount,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		Date:          req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditActionCreate, services.AuditResourceExpense, expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount.String(), "date": expense.Date.String()})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing the authenticated user's expenses.
// @Summary     List expenses
// @Description Get a paginated list of expenses, newest first
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       startDate     query string false "Earliest date (YYYY-MM-DD)"
// @Param       endDate       query string false "Latest date (YYYY-MM-DD)"
// @Param       categoryId    query string false "Filter by category ID"
// @Param       paymentMethod query string false "Filter by payment method"
// @Param       page          query int    false "Page number (default 1)"
// @Param       pageSize      query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var query listExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.ListExpenses(c.Request.Context(), userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Description Get a specific expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an existing expense.
// @Summary     Update expense
// @Description Update fields of an existing expense. An empty categoryId removes the category.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated expense fields"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	update := services.ExpenseUpdate{
		Amount:        req.Amount,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		Date:          req.Date,
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			update.ClearCategory = true
		} else {
			update.CategoryID = req.CategoryID
		}
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), userID, expenseID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditActionUpdate, services.AuditResourceExpense, expenseID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete expense
// @Description Delete an expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditActionDelete, services.AuditResourceExpense, expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}
