package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/FellipeMarraa/cashz-api/config"
	"github.com/FellipeMarraa/cashz-api/handlers"
	"github.com/FellipeMarraa/cashz-api/middleware"
	"github.com/FellipeMarraa/cashz-api/routes"
	"github.com/FellipeMarraa/cashz-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	wsHandler := handlers.NewWSHandler()

	go scheduleNotificationDelivery(db, wsHandler)

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	allowedOrigins := []string{
		frontendURL,
		"https://cashz.app",
		"https://www.cashz.app",
	}

	log.Printf("🌍 CORS: Allowing origins:")
	for _, origin := range allowedOrigins {
		log.Printf("   - %s", origin)
	}

	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Admin-Secret", "X-Webhook-Secret"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	router.Use(middleware.RateLimiter())

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, db)
		v1.GET("/ws/owners/:id", wsHandler.HandleWS)
		routes.SetupAdminRoutes(v1, db)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.SetupFinanceRoutes(protected, db, wsHandler)
			routes.SetupSharingRoutes(protected, db)
			routes.SetupNotificationRoutes(protected, db)
			routes.SetupUserRoutes(protected, db)
			routes.SetupBillingRoutes(protected, v1, db)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// scheduleNotificationDelivery periodically flips due scheduled
// notifications to sent and pushes them to connected clients.
func scheduleNotificationDelivery(db *sql.DB, ws *handlers.WSHandler) {
	notifications := services.NewNotificationService(db)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	deliverDueNotifications(notifications, ws)
	for range ticker.C {
		deliverDueNotifications(notifications, ws)
	}
}

func deliverDueNotifications(notifications *services.NotificationService, ws *handlers.WSHandler) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	delivered, err := notifications.DeliverDue(ctx)
	if err != nil {
		log.Printf("❌ Scheduled notification delivery failed: %v", err)
		return
	}

	for _, n := range delivered {
		ws.BroadcastUpdate(n.UserID, "notification", n.Title)
	}
	if len(delivered) > 0 {
		log.Printf("🔔 Delivered %d scheduled notifications", len(delivered))
	}
}
