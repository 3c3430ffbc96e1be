package handlers

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/services"
)

type BillingHandler struct {
	DB      *sql.DB
	Service *services.BillingService
}

func NewBillingHandler(db *sql.DB, service *services.BillingService) *BillingHandler {
	return &BillingHandler{DB: db, Service: service}
}

// Checkout opens a provider checkout session for the premium plan.
func (h *BillingHandler) Checkout(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.Service.Checkout(c.Request.Context(), user)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}

// Webhook receives payment events from the provider. Authenticated by
// a shared secret header, not by a user session.
func (h *BillingHandler) Webhook(c *gin.Context) {
	secret := os.Getenv("BILLING_WEBHOOK_SECRET")
	if secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "BILLING_WEBHOOK_SECRET not configured"})
		return
	}
	if c.GetHeader("X-Webhook-Secret") != secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook secret"})
		return
	}

	var req models.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.HandleWebhook(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event processed"})
}
