package handler

import (
	"github.com/dafibh/fortuna/budget-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	settingsHandler *SettingsHandler,
	expenseHandler *ExpenseHandler,
	consumptionHandler *ConsumptionHandler,
	periodHandler *PeriodHandler,
	dashboardHandler *DashboardHandler,
	snapshotHandler *SnapshotHandler,
	wsHandler *WebSocketHandler,
) {
	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", ServeOpenAPI3Spec)

	// WebSocket authenticates from the query string or cookie
	e.GET("/ws", wsHandler.HandleWS)

	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (login is public but throttled)
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login, middleware.RateLimitMiddleware(loginLimiter))
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate())

	// Everything below requires a session
	protected := api.Group("")
	protected.Use(authMiddleware.Authenticate())

	// Settings routes
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PATCH("/settings", settingsHandler.UpdateSettings)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PATCH("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Consumption routes
	consumptions := protected.Group("/consumptions")
	consumptions.GET("", consumptionHandler.ListConsumptions)
	consumptions.POST("", consumptionHandler.CreateConsumption)
	consumptions.GET("/:id", consumptionHandler.GetConsumption)
	consumptions.PATCH("/:id", consumptionHandler.UpdateConsumption)
	consumptions.DELETE("/:id", consumptionHandler.DeleteConsumption)

	// Period routes
	periods := protected.Group("/periods")
	periods.GET("", periodHandler.ListPeriods)
	periods.GET("/resolve", periodHandler.ResolvePeriod)
	periods.POST("/recompute", periodHandler.Recompute)
	periods.GET("/:start/:end", periodHandler.GetPeriod)
	periods.GET("/:start/:end/expenses/:expenseId", periodHandler.GetPeriodExpense)

	// Dashboard routes
	protected.GET("/summary", dashboardHandler.GetSummary)
	protected.GET("/history", dashboardHandler.GetHistory)

	// Snapshot routes
	snapshots := protected.Group("/snapshots")
	snapshots.GET("", snapshotHandler.ListSnapshots)
	snapshots.POST("", snapshotHandler.CreateSnapshot)
	snapshots.GET("/latest", snapshotHandler.GetLatestSnapshot)
	snapshots.GET("/:start/:end/report", snapshotHandler.GetReport)
}
