package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/services"
)

type CategoryHandler struct {
	DB      *sql.DB
	Service *services.CategoryService
}

func NewCategoryHandler(db *sql.DB, service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{DB: db, Service: service}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.Service.Create(c.Request.Context(), user, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	categories, err := h.Service.List(c.Request.Context(), user)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Rename(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.Rename(c.Request.Context(), user, c.Param("id"), req.Name); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category renamed"})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
