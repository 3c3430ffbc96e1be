package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/services"
)

type BudgetHandler struct {
	DB      *sql.DB
	Service *services.BudgetService
}

func NewBudgetHandler(db *sql.DB, service *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{DB: db, Service: service}
}

// Save upserts the budget for a (category, month, year).
func (h *BudgetHandler) Save(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req models.SaveBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.Service.Save(c.Request.Context(), user, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// List returns the period's budgets with their spent totals.
func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	month, err1 := strconv.Atoi(c.Query("month"))
	year, err2 := strconv.Atoi(c.Query("year"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month and year query parameters are required"})
		return
	}

	budgets, err := h.Service.List(c.Request.Context(), user, month, year)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted"})
}
