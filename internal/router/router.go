// Package router wires services, handlers and middleware into a gin engine.
package router

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spendwise/internal/ai"
	"spendwise/internal/config"
	_ "spendwise/internal/docs" // swagger spec
	apperrors "spendwise/internal/errors"
	"spendwise/internal/handlers"
	"spendwise/internal/middleware"
	"spendwise/internal/repository"
	"spendwise/internal/services"
)

const healthTimeout = 2 * time.Second

// New builds the HTTP engine for the API over store. completer backs the
// insight and categorization endpoints.
func New(cfg *config.Config, store *repository.Store, completer ai.Completer) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	// Client IPs are only logged and audited; no proxy is trusted.
	_ = r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())
	r.Use(corsMiddleware(cfg.CORSAllowOrigins))

	r.NoRoute(func(c *gin.Context) {
		respond(c, apperrors.ErrNotFound)
	})
	r.NoMethod(func(c *gin.Context) {
		respond(c, &apperrors.AppError{Code: "METHOD_NOT_ALLOWED", Message: "Method not allowed", StatusCode: http.StatusMethodNotAllowed})
	})

	// Services
	userService := services.NewUserService(store)
	categoryService := services.NewCategoryService(store)
	expenseService := services.NewExpenseService(store)
	budgetService := services.NewBudgetService(store)
	analyticsService := services.NewAnalyticsService(store)
	auditService := services.NewAuditService(store)
	insightService := services.NewInsightService(store, ai.NewInsightFormatter(completer, cfg.Currency, cfg.AITimeout))
	categorizationService := services.NewCategorizationService(ai.NewCategorizer(completer, cfg.Currency, cfg.AITimeout), categoryService)

	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	insightHandler := handlers.NewInsightHandler(insightService)
	aiHandler := handlers.NewAIHandler(categorizationService)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.EnablePprof {
		pprof.Register(r)
	}

	api := r.Group("/api")
	api.GET("/health", healthCheck(store))

	// Public auth routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	protected.GET("/profile", authHandler.GetProfile)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	protected.GET("/analytics/stats", analyticsHandler.GetStats)

	insights := protected.Group("/insights")
	insights.GET("", insightHandler.GetInsights)
	insights.POST("/generate", insightHandler.GenerateInsights)
	insights.PUT("/:id/read", insightHandler.MarkRead)

	protected.POST("/ai/categorize", aiHandler.Categorize)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	return cors.New(corsConfig)
}

// healthCheck reports whether the storage backend answers a ping.
func healthCheck(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if store.Ping != nil {
			if err := store.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func respond(c *gin.Context, err *apperrors.AppError) {
	c.JSON(err.StatusCode, handlers.ErrorResponse{Error: handlers.ErrorDetail{Code: err.Code, Message: err.Message}})
}
