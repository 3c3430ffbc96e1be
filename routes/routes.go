package routes

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/FellipeMarraa/cashz-api/handlers"
	"github.com/FellipeMarraa/cashz-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupFinanceRoutes wires the transaction, budget and category routes.
func SetupFinanceRoutes(rg *gin.RouterGroup, db *sql.DB, wsHandler *handlers.WSHandler) {
	access := services.NewAccessService(db)
	notifications := services.NewNotificationService(db)

	txHandler := handlers.NewTransactionHandler(db, services.NewTransactionService(db, access, notifications), wsHandler)
	rg.GET("/transactions", txHandler.List)
	rg.POST("/transactions", txHandler.Create)
	rg.PUT("/transactions/:id", txHandler.Update)
	rg.DELETE("/transactions/:id", txHandler.Delete)

	budgetHandler := handlers.NewBudgetHandler(db, services.NewBudgetService(db, access))
	rg.GET("/budgets", budgetHandler.List)
	rg.PUT("/budgets", budgetHandler.Save)
	rg.DELETE("/budgets/:id", budgetHandler.Delete)

	categoryHandler := handlers.NewCategoryHandler(db, services.NewCategoryService(db, access))
	rg.GET("/categories", categoryHandler.List)
	rg.POST("/categories", categoryHandler.Create)
	rg.PUT("/categories/:id", categoryHandler.Rename)
	rg.DELETE("/categories/:id", categoryHandler.Delete)

	investmentHandler := handlers.NewInvestmentHandler(db, access)
	rg.GET("/investments", investmentHandler.List)
	rg.POST("/investments", investmentHandler.Create)
	rg.DELETE("/investments/:id", investmentHandler.Delete)
}

// SetupSharingRoutes wires the partner-sharing routes.
func SetupSharingRoutes(rg *gin.RouterGroup, db *sql.DB) {
	emailService := services.NewEmailService(
		os.Getenv("RESEND_API_KEY"),
		os.Getenv("FROM_EMAIL"),
		os.Getenv("FRONTEND_URL"),
	)
	sharingHandler := handlers.NewSharingHandler(db, services.NewSharingService(db), emailService, services.NewNotificationService(db))

	rg.GET("/sharing", sharingHandler.Status)
	rg.POST("/sharing/invite", sharingHandler.Invite)
	rg.POST("/sharing/accept", sharingHandler.Accept)
	rg.DELETE("/sharing", sharingHandler.Revoke)
	rg.DELETE("/sharing/inbound", sharingHandler.Leave)
}

// SetupNotificationRoutes wires in-app notification routes.
func SetupNotificationRoutes(rg *gin.RouterGroup, db *sql.DB) {
	notificationHandler := handlers.NewNotificationHandler(db, services.NewNotificationService(db))

	rg.GET("/notifications", notificationHandler.List)
	rg.POST("/notifications/schedule", notificationHandler.Schedule)
	rg.PUT("/notifications/:id/read", notificationHandler.MarkRead)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupBillingRoutes wires checkout (protected) and the provider
// webhook (public, secret-gated).
func SetupBillingRoutes(protected, public *gin.RouterGroup, db *sql.DB) {
	billingHandler := handlers.NewBillingHandler(db, services.NewBillingService(db, services.NewNotificationService(db)))

	protected.POST("/billing/checkout", billingHandler.Checkout)
	public.POST("/billing/webhook", billingHandler.Webhook)
}

// SetupAdminRoutes wires the admin console, gated by X-Admin-Secret.
func SetupAdminRoutes(rg *gin.RouterGroup, db *sql.DB) {
	adminHandler := &handlers.AdminHandler{
		DB:      db,
		Billing: services.NewBillingService(db, services.NewNotificationService(db)),
	}

	rg.GET("/admin/users", adminHandler.ListUsers)
	rg.PUT("/admin/users/:id/plan", adminHandler.SetPlan)
	rg.POST("/admin/users/:id/bonus", adminHandler.ActivateBonus)
	rg.GET("/admin/stats", adminHandler.Stats)
}
