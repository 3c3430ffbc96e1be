package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/services"
)

type TransactionHandler struct {
	DB      *sql.DB
	Service *services.TransactionService
	WS      *WSHandler
}

func NewTransactionHandler(db *sql.DB, service *services.TransactionService, ws *WSHandler) *TransactionHandler {
	return &TransactionHandler{DB: db, Service: service, WS: ws}
}

// Create persists a transaction, expanding installment and fixed
// recurrences into their full series. Responds with the leading row.
func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.Service.Create(c.Request.Context(), user, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.WS.BroadcastUpdate(user.ID, "transaction_created", user.Name)
	c.JSON(http.StatusCreated, tx)
}

// List returns the period's transactions for every owner visible to the
// caller. month is optional; year is required.
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year query parameter is required"})
		return
	}
	month, _ := strconv.Atoi(c.DefaultQuery("month", "0"))

	transactions, err := h.Service.List(c.Request.Context(), user, month, year)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// Update edits description, amount or status in place.
func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.Service.Update(c.Request.Context(), user, c.Param("id"), req)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.WS.BroadcastUpdate(user.ID, "transaction_updated", user.Name)
	c.JSON(http.StatusOK, tx)
}

// Delete removes one transaction, or with delete_all=true forward-
// cancels its series from the pivot's date on. Deleting a missing row
// succeeds as a no-op.
func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	deleteAll := c.Query("delete_all") == "true"

	if err := h.Service.Delete(c.Request.Context(), user, c.Param("id"), deleteAll); err != nil {
		serviceError(c, err)
		return
	}

	h.WS.BroadcastUpdate(user.ID, "transaction_deleted", user.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}
