package handler

import (
	"github.com/gastosapp/gastos-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	cardHandler *CardHandler,
	categoryHandler *CategoryHandler,
	expenseHandler *ExpenseHandler,
	receiptHandler *ReceiptHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")

	// WebSocket endpoint authenticates via query token, not the middleware
	if wsHandler != nil {
		api.GET("/ws", wsHandler.HandleWS)
	}

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)

	// Card routes (protected)
	cards := api.Group("/cards")
	cards.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.GetCards)
	cards.GET("/:id", cardHandler.GetCardByID)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.POST("/:id/subcategories", categoryHandler.CreateSubcategory)
	categories.GET("/:id/subcategories", categoryHandler.GetSubcategories)
	categories.DELETE("/subcategories/:subcategoryId", categoryHandler.DeleteSubcategory)

	// Expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	// Fixed paths before :id so "monthly" never parses as an expense ID
	expenses.GET("/monthly", expenseHandler.GetMonthlyExpenses)
	expenses.GET("/monthly-total", expenseHandler.GetMonthlyTotal)
	expenses.GET("/annual-total", expenseHandler.GetAnnualTotal)
	expenses.PUT("/installments/:id/status", expenseHandler.UpdateInstallmentStatus)
	expenses.GET("/:id", expenseHandler.GetExpenseByID)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.DELETE("/:id/scheduled", expenseHandler.DeleteScheduledExpense)
	expenses.POST("/:id/installments", expenseHandler.CreateInstallments)
	expenses.GET("/:id/installments", expenseHandler.GetInstallments)
	expenses.PUT("/:id/mark-as-paid", expenseHandler.MarkAsPaid)

	// Receipt routes (protected)
	if receiptHandler != nil {
		expenses.POST("/:id/receipt", receiptHandler.UploadReceipt)
		expenses.GET("/:id/receipt", receiptHandler.GetReceipt)
		expenses.DELETE("/:id/receipt", receiptHandler.DeleteReceipt)
	}
}
