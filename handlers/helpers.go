package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FellipeMarraa/cashz-api/middleware"
	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/services"
)

// currentUser loads the authenticated user's full row. Core operations
// take the acting user explicitly instead of reading session state.
func currentUser(c *gin.Context, db *sql.DB) (*models.User, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	var user models.User
	var premiumUntil sql.NullTime
	err := db.QueryRow(`
		SELECT id, email, name, plan, premium_until, is_admin, totp_enabled, email_verified, created_at, updated_at
		FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.Name, &user.Plan, &premiumUntil,
		&user.IsAdmin, &user.TOTPEnabled, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return nil, false
	}
	if premiumUntil.Valid {
		user.PremiumUntil = &premiumUntil.Time
	}

	return &user, true
}

// serviceError maps the service error taxonomy to HTTP responses. Plan
// and quota errors carry a stable code so the UI can open the upgrade
// flow instead of a generic toast.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "NOT_AUTHENTICATED"})
	case errors.Is(err, services.ErrRecurrenceRequiresUpgrade):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "code": "RECURRENCE_REQUIRES_UPGRADE"})
	case errors.Is(err, services.ErrMonthlyLimitReached):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "code": "MONTHLY_LIMIT_REACHED"})
	case errors.Is(err, services.ErrInvalidInstallmentCount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_INSTALLMENT_COUNT"})
	case errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_AMOUNT"})
	case errors.Is(err, services.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "CATEGORY_NOT_FOUND"})
	case errors.Is(err, services.ErrGrantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "GRANT_NOT_FOUND"})
	case errors.Is(err, services.ErrGrantEmailMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": "GRANT_EMAIL_MISMATCH"})
	case errors.Is(err, services.ErrSelfShare):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "SELF_SHARE"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
