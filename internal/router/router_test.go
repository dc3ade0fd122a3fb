package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/ai"
	"spendwise/internal/config"
	"spendwise/internal/logger"
	"spendwise/internal/services"
	"spendwise/internal/testutil"
	"spendwise/internal/types"
	"spendwise/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

const insightsReply = "```json\n" + `{"insights":[
  {"type":"warning","title":"Food & Dining over budget","description":"You spent 120.50 INR against a 100.00 INR budget.","priority":"high"},
  {"type":"goal","title":"Keep it up","description":"Uncategorized spend is only 30.00 INR.","priority":"low"}
]}` + "\n```"

// testApp holds the full application stack over an isolated SQLite database.
type testApp struct {
	router *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		CORSAllowOrigins: []string{"*"},
		JWTSecret:        "router-test-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    time.Hour,
		AITimeout:        5 * time.Second,
		Currency:         "INR",
	}
}

func stubCompleter() ai.Completer {
	return ai.CompleterFunc(func(_ context.Context, req ai.CompletionRequest) (string, error) {
		if strings.Contains(req.System, "categorize") {
			return `{"category":"food","confidence":0.9,"reasoning":"A restaurant meal."}`, nil
		}
		return insightsReply, nil
	})
}

func setupApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()

	store, _ := testutil.SetupTestStore(t)
	_, err := services.NewCategoryService(store).SeedDefaults(context.Background())
	require.NoError(t, err)

	return &testApp{router: New(cfg, store, stubCompleter())}
}

func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result), "body: %s", rec.Body.String())
	return result
}

// registerUser registers a user and returns the access and refresh tokens.
func (app *testApp) registerUser(t *testing.T, email string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","firstName":"Test","lastName":"User"}`, email)
	rec := app.request(http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decode(t, rec)
	return result["accessToken"].(string), result["refreshToken"].(string)
}

func (app *testApp) categoryID(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request(http.MethodGet, "/api/categories", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, raw := range decode(t, rec)["categories"].([]interface{}) {
		c := raw.(map[string]interface{})
		if c["name"] == name {
			return c["id"].(string)
		}
	}
	t.Fatalf("category %q not found", name)
	return ""
}

func TestExpenseToInsightFlow(t *testing.T) {
	app := setupApp(t, testConfig())
	token, _ := app.registerUser(t, "flow@test.com")
	food := app.categoryID(t, token, "Food & Dining")

	today := types.DateOf(time.Now().UTC())
	first := today.FirstOfMonth()

	// Two expenses this month, one uncategorized
	rec := app.request(http.MethodPost, "/api/expenses",
		fmt.Sprintf(`{"categoryId":%q,"amount":"120.50","description":"Lunch","paymentMethod":"upi","date":%q}`, food, today), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	expense := decode(t, rec)["expense"].(map[string]interface{})
	assert.Equal(t, 120.5, expense["amount"])
	assert.Equal(t, "upi", expense["paymentMethod"])

	rec = app.request(http.MethodPost, "/api/expenses",
		fmt.Sprintf(`{"amount":30,"description":"Parking","date":%q}`, today), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "cash", decode(t, rec)["expense"].(map[string]interface{})["paymentMethod"])

	rec = app.request(http.MethodGet, "/api/expenses?page=1&pageSize=10", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	assert.Equal(t, 2.0, page["totalItems"])
	assert.Len(t, page["data"], 2)

	// Statistics
	rec = app.request(http.MethodGet, fmt.Sprintf("/api/analytics/stats?startDate=%s&endDate=%s", first, today), "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decode(t, rec)
	assert.Equal(t, 150.5, stats["totalSpent"])
	breakdown := stats["categoryBreakdown"].([]interface{})
	require.Len(t, breakdown, 2)
	assert.Equal(t, "Food & Dining", breakdown[0].(map[string]interface{})["categoryName"])
	assert.Equal(t, "Uncategorized", breakdown[1].(map[string]interface{})["categoryName"])
	trend := stats["dailyTrend"].([]interface{})
	require.Len(t, trend, 1)
	assert.Equal(t, today.String(), trend[0].(map[string]interface{})["date"])

	// Budget over the month
	rec = app.request(http.MethodPost, "/api/budgets",
		fmt.Sprintf(`{"categoryId":%q,"amount":100,"period":"monthly","startDate":%q}`, food, first), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	budgetID := decode(t, rec)["budget"].(map[string]interface{})["id"].(string)

	rec = app.request(http.MethodGet, "/api/budgets/"+budgetID+"/progress", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	progress := decode(t, rec)["progress"].(map[string]interface{})
	assert.Equal(t, 120.5, progress["spent"])
	assert.Equal(t, -20.5, progress["remaining"])
	assert.Equal(t, true, progress["isOverBudget"])
	assert.Equal(t, "Food & Dining", progress["categoryName"])

	// Insights
	rec = app.request(http.MethodPost, "/api/insights/generate", "", token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	generated := decode(t, rec)["insights"].([]interface{})
	require.Len(t, generated, 2)
	first0 := generated[0].(map[string]interface{})
	assert.Equal(t, "warning", first0["type"])
	assert.Equal(t, "false", first0["isRead"])

	rec = app.request(http.MethodGet, "/api/insights", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["insights"], 2)

	insightID := first0["id"].(string)
	rec = app.request(http.MethodPut, "/api/insights/"+insightID+"/read", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "true", decode(t, rec)["insight"].(map[string]interface{})["isRead"])

	// Categorization resolves to the seeded category
	rec = app.request(http.MethodPost, "/api/ai/categorize", `{"description":"Dinner at Nobu","amount":450}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	categorization := decode(t, rec)
	assert.Equal(t, "food", categorization["category"])
	assert.Equal(t, food, categorization["categoryId"])
	assert.Equal(t, "Food & Dining", categorization["categoryName"])
}

func TestUserIsolation(t *testing.T) {
	app := setupApp(t, testConfig())
	alice, _ := app.registerUser(t, "alice@test.com")
	bob, _ := app.registerUser(t, "bob@test.com")

	rec := app.request(http.MethodPost, "/api/expenses",
		`{"amount":"12.00","description":"Coffee","date":"2024-03-01"}`, alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	expenseID := decode(t, rec)["expense"].(map[string]interface{})["id"].(string)

	rec = app.request(http.MethodGet, "/api/expenses/"+expenseID, "", bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.request(http.MethodDelete, "/api/expenses/"+expenseID, "", bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.request(http.MethodGet, "/api/analytics/stats?startDate=2024-03-01&endDate=2024-03-31", "", bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, decode(t, rec)["totalSpent"])

	rec = app.request(http.MethodGet, "/api/expenses/"+expenseID, "", alice)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshRotation(t *testing.T) {
	app := setupApp(t, testConfig())
	_, refresh := app.registerUser(t, "rotate@test.com")

	rec := app.request(http.MethodPost, "/api/auth/refresh", fmt.Sprintf(`{"refreshToken":%q}`, refresh), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := decode(t, rec)
	assert.NotEqual(t, refresh, rotated["refreshToken"])

	rec = app.request(http.MethodGet, "/api/profile", "", rotated["accessToken"].(string))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rotate@test.com", decode(t, rec)["user"].(map[string]interface{})["email"])

	rec = app.request(http.MethodPost, "/api/auth/refresh", fmt.Sprintf(`{"refreshToken":%q}`, refresh), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t, testConfig())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/profile"},
		{http.MethodGet, "/api/expenses"},
		{http.MethodPost, "/api/budgets"},
		{http.MethodGet, "/api/analytics/stats"},
		{http.MethodPost, "/api/insights/generate"},
		{http.MethodPost, "/api/ai/categorize"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := app.request(p.method, p.path, "", "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestFallbackRoutes(t *testing.T) {
	app := setupApp(t, testConfig())

	rec := app.request(http.MethodGet, "/api/nothing-here", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec)["error"].(map[string]interface{})["code"])

	rec = app.request(http.MethodPatch, "/api/auth/login", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", decode(t, rec)["error"].(map[string]interface{})["code"])
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupApp(t, testConfig())

	rec := app.request(http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = app.request(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "spendwise_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	app := setupApp(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/expenses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPprofRoutes(t *testing.T) {
	hasPprof := func(r *gin.Engine) bool {
		for _, route := range r.Routes() {
			if strings.Contains(route.Path, "pprof") {
				return true
			}
		}
		return false
	}

	off := setupApp(t, testConfig())
	assert.False(t, hasPprof(off.router), "pprof routes registered while disabled")

	cfg := testConfig()
	cfg.EnablePprof = true
	on := setupApp(t, cfg)
	assert.True(t, hasPprof(on.router))
}
