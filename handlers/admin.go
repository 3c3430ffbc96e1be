// handlers/admin.go
package handlers

import (
	"database/sql"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/services"
)

type AdminHandler struct {
	DB      *sql.DB
	Billing *services.BillingService
}

// requireAdminSecret gates the admin console behind a shared secret
// header, separate from user authentication.
func requireAdminSecret(c *gin.Context) bool {
	expected := os.Getenv("ADMIN_SECRET")
	if expected == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ADMIN_SECRET not configured"})
		return false
	}
	if c.GetHeader("X-Admin-Secret") != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin secret"})
		return false
	}
	return true
}

// ListUsers returns all accounts with their plan state.
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	if !requireAdminSecret(c) {
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, email, name, plan, premium_until, totp_enabled, email_verified, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var premiumUntil sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Plan, &premiumUntil,
			&u.TOTPEnabled, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			continue
		}
		if premiumUntil.Valid {
			u.PremiumUntil = &premiumUntil.Time
		}
		users = append(users, u)
	}

	c.JSON(http.StatusOK, users)
}

type setPlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=free premium"`
}

// SetPlan overrides a user's plan tier.
// PUT /api/v1/admin/users/:id/plan
func (h *AdminHandler) SetPlan(c *gin.Context) {
	if !requireAdminSecret(c) {
		return
	}

	var req setPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.DB.Exec(`UPDATE users SET plan = $1, updated_at = NOW() WHERE id = $2`, req.Plan, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan updated"})
}

// ActivateBonus grants a user extra premium days. The underlying write
// is read-then-update in one transaction, so replays cannot stack.
// POST /api/v1/admin/users/:id/bonus?days=30
func (h *AdminHandler) ActivateBonus(c *gin.Context) {
	if !requireAdminSecret(c) {
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	until, err := h.Billing.ActivateBonus(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate bonus"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"premium_until": until})
}

// Stats returns aggregate counters for the admin dashboard.
// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	if !requireAdminSecret(c) {
		return
	}

	stats := gin.H{}
	counters := map[string]string{
		"users":         `SELECT COUNT(*) FROM users`,
		"premium_users": `SELECT COUNT(*) FROM users WHERE plan = 'premium'`,
		"transactions":  `SELECT COUNT(*) FROM transactions`,
		"sharing_pairs": `SELECT COUNT(*) FROM sharing_grants WHERE status = 'accepted'`,
	}
	for name, query := range counters {
		var n int
		if err := h.DB.QueryRow(query).Scan(&n); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}
		stats[name] = n
	}

	c.JSON(http.StatusOK, stats)
}
