package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/FellipeMarraa/cashz-api/middleware"
	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/services"
)

type InvestmentHandler struct {
	DB     *sql.DB
	Access *services.AccessService
}

func NewInvestmentHandler(db *sql.DB, access *services.AccessService) *InvestmentHandler {
	return &InvestmentHandler{DB: db, Access: access}
}

func (h *InvestmentHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.SaveInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv := models.Investment{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        req.Name,
		Kind:        req.Kind,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		PurchasedAt: req.PurchasedAt,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	_, err := h.DB.Exec(`
		INSERT INTO investments (id, user_id, name, kind, quantity, unit_price, purchased_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, inv.ID, inv.UserID, inv.Name, inv.Kind, inv.Quantity, inv.UnitPrice, inv.PurchasedAt, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create investment"})
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// List returns holdings across every owner visible to the caller.
func (h *InvestmentHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	email := middleware.GetUserEmail(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	allowed := h.Access.ResolveAllowedOwnerIDs(c.Request.Context(), userID, email)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, kind, quantity, unit_price, purchased_at, created_at, updated_at
		FROM investments
		WHERE user_id = ANY($1)
		ORDER BY purchased_at DESC
	`, pq.Array(allowed))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investments"})
		return
	}
	defer rows.Close()

	investments := []models.Investment{}
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Name, &inv.Kind, &inv.Quantity,
			&inv.UnitPrice, &inv.PurchasedAt, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			continue
		}
		investments = append(investments, inv)
	}

	c.JSON(http.StatusOK, investments)
}

func (h *InvestmentHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	_, err := h.DB.Exec(`DELETE FROM investments WHERE id = $1 AND user_id = $2`, c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete investment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Investment deleted"})
}
