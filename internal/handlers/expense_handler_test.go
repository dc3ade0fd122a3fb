package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/repository"
	"spendwise/internal/services"
	"spendwise/internal/types"
)

const (
	expenseID  = "0190a0f4-5c6e-7c1a-9b1e-1f2d3c4b5b01"
	categoryID = "0190a0f4-5c6e-7c1a-9b1e-1f2d3c4b5c01"
)

// --- mock expense service ---

type mockExpenseService struct {
	createExpenseFn  func(userID string, input services.ExpenseInput) (*models.Expense, error)
	listExpensesFn   func(userID string, filter repository.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	getExpenseByIDFn func(userID, expenseID string) (*models.Expense, error)
	updateExpenseFn  func(userID, expenseID string, update services.ExpenseUpdate) (*models.Expense, error)
	deleteExpenseFn  func(userID, expenseID string) error
}

func (m *mockExpenseService) CreateExpense(_ context.Context, userID string, input services.ExpenseInput) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, input)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) ListExpenses(_ context.Context, userID string, filter repository.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(userID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) GetExpenseByID(_ context.Context, userID, expenseID string) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(_ context.Context, userID, expenseID string, update services.ExpenseUpdate) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, expenseID, update)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(_ context.Context, userID, expenseID string) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/expenses", handler.CreateExpense)
	auth.GET("/expenses", handler.GetExpenses)
	auth.GET("/expenses/:id", handler.GetExpense)
	auth.PUT("/expenses/:id", handler.UpdateExpense)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.ExpenseInput
		audit := &mockAuditService{}
		svc := &mockExpenseService{
			createExpenseFn: func(userID string, input services.ExpenseInput) (*models.Expense, error) {
				got = input
				return &models.Expense{
					Base:          models.Base{ID: expenseID},
					UserID:        userID,
					CategoryID:    input.CategoryID,
					Amount:        input.Amount,
					Description:   input.Description,
					PaymentMethod: input.PaymentMethod,
					Date:          input.Date,
				}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit))

		rec := doRequest(r, "POST", "/expenses",
			`{"categoryId":"`+categoryID+`","amount":"12.50","description":"Lunch","paymentMethod":"upi","date":"2024-03-15"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(types.MustParseMoney("12.50")) {
			t.Errorf("expected amount 12.50, got %s", got.Amount)
		}
		if got.Date.String() != "2024-03-15" {
			t.Errorf("expected date 2024-03-15, got %s", got.Date)
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["amount"].(float64) != 12.5 {
			t.Errorf("expected amount 12.5, got %v", expense["amount"])
		}
		if expense["date"] != "2024-03-15" {
			t.Errorf("expected date 2024-03-15, got %v", expense["date"])
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditActionCreate || audit.entries[0].resourceID != expenseID {
			t.Errorf("expected one create audit entry, got %+v", audit.entries)
		}
	})

	t.Run("accepts numeric amount", func(t *testing.T) {
		var got services.ExpenseInput
		svc := &mockExpenseService{
			createExpenseFn: func(_ string, input services.ExpenseInput) (*models.Expense, error) {
				got = input
				return &models.Expense{Base: models.Base{ID: expenseID}}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/expenses", `{"amount":7.25,"description":"Bus"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount.String() != "7.25" {
			t.Errorf("expected 7.25, got %s", got.Amount)
		}
		if got.CategoryID != nil {
			t.Errorf("expected no category, got %v", *got.CategoryID)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing amount", `{"description":"Lunch"}`},
		{"negative amount", `{"amount":"-1.00","description":"Lunch"}`},
		{"three decimal places", `{"amount":"1.005","description":"Lunch"}`},
		{"missing description", `{"amount":"1.00"}`},
		{"invalid payment method", `{"amount":"1.00","description":"Lunch","paymentMethod":"cheque"}`},
		{"invalid category id", `{"amount":"1.00","description":"Lunch","categoryId":"food"}`},
		{"invalid date", `{"amount":"1.00","description":"Lunch","date":"15/03/2024"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/expenses", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(string, services.ExpenseInput) (*models.Expense, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		audit := &mockAuditService{}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit))

		rec := doRequest(r, "POST", "/expenses", `{"amount":"1.00","description":"Lunch","categoryId":"`+missingUUID+`"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
		if len(audit.entries) != 0 {
			t.Error("failed create must not be audited")
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		r := gin.New()
		r.POST("/expenses", NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}).CreateExpense)

		rec := doRequest(r, "POST", "/expenses", `{"amount":"1.00","description":"Lunch"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("passes filters and pagination to service", func(t *testing.T) {
		var gotFilter repository.ExpenseFilter
		var gotPage pagination.PageRequest
		svc := &mockExpenseService{
			listExpensesFn: func(_ string, filter repository.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
				gotFilter = filter
				gotPage = page
				resp := pagination.NewPageResponse([]models.Expense{{Base: models.Base{ID: expenseID}}}, 2, 5, 6)
				return &resp, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET",
			"/expenses?startDate=2024-03-01&endDate=2024-03-31&categoryId="+categoryID+"&paymentMethod=cash&page=2&pageSize=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.StartDate == nil || gotFilter.StartDate.String() != "2024-03-01" {
			t.Errorf("unexpected start date %v", gotFilter.StartDate)
		}
		if gotFilter.EndDate == nil || gotFilter.EndDate.String() != "2024-03-31" {
			t.Errorf("unexpected end date %v", gotFilter.EndDate)
		}
		if gotFilter.CategoryID != categoryID || gotFilter.PaymentMethod != models.PaymentMethodCash {
			t.Errorf("unexpected filter %+v", gotFilter)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		result := parseJSON(t, rec)
		if result["totalPages"].(float64) != 2 {
			t.Errorf("expected 2 total pages, got %v", result["totalPages"])
		}
		if len(result["data"].([]interface{})) != 1 {
			t.Errorf("expected 1 expense, got %v", result["data"])
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses?startDate=March", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses?pageSize=1000", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on inverted range", func(t *testing.T) {
		svc := &mockExpenseService{
			listExpensesFn: func(string, repository.ExpenseFilter, pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
				return nil, apperrors.ErrInvalidDateRange
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses?startDate=2024-03-31&endDate=2024-03-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE_RANGE")
	})
}

func TestExpenseHandler_GetExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(userID, id string) (*models.Expense, error) {
				if userID != testUserID {
					t.Errorf("expected user %s, got %s", testUserID, userID)
				}
				return &models.Expense{Base: models.Base{ID: id}, Description: "Lunch"}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses/"+expenseID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["id"] != expenseID {
			t.Errorf("expected id %s, got %v", expenseID, expense["id"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(string, string) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses/"+missingUUID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	t.Run("maps fields to update", func(t *testing.T) {
		var got services.ExpenseUpdate
		svc := &mockExpenseService{
			updateExpenseFn: func(_, id string, update services.ExpenseUpdate) (*models.Expense, error) {
				got = update
				return &models.Expense{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/expenses/"+expenseID, `{"amount":"20.00","categoryId":"`+categoryID+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || got.Amount.String() != "20.00" {
			t.Errorf("unexpected amount %v", got.Amount)
		}
		if got.CategoryID == nil || *got.CategoryID != categoryID || got.ClearCategory {
			t.Errorf("unexpected category update %+v", got)
		}
		if got.Description != nil || got.Date != nil || got.PaymentMethod != nil {
			t.Errorf("expected untouched fields to be nil, got %+v", got)
		}
	})

	t.Run("empty category clears it", func(t *testing.T) {
		var got services.ExpenseUpdate
		svc := &mockExpenseService{
			updateExpenseFn: func(_, id string, update services.ExpenseUpdate) (*models.Expense, error) {
				got = update
				return &models.Expense{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/expenses/"+expenseID, `{"categoryId":""}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.ClearCategory || got.CategoryID != nil {
			t.Errorf("expected ClearCategory, got %+v", got)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(string, string, services.ExpenseUpdate) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/expenses/"+missingUUID, `{"description":"Dinner"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/expenses/"+expenseID, `{"amount":"-5"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, audit))

		rec := doRequest(r, "DELETE", "/expenses/"+expenseID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditActionDelete {
			t.Errorf("expected one delete audit entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			deleteExpenseFn: func(string, string) error { return apperrors.ErrExpenseNotFound },
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/expenses/"+missingUUID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/expenses/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
