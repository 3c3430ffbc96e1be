package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/services"
)

type NotificationHandler struct {
	DB      *sql.DB
	Service *services.NotificationService
}

func NewNotificationHandler(db *sql.DB, service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{DB: db, Service: service}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.Service.List(c.Request.Context(), user.ID, unreadOnly)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	if err := h.Service.MarkRead(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// Schedule stores a reminder that becomes visible at its due time.
func (h *NotificationHandler) Schedule(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req models.ScheduleNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := h.Service.Schedule(c.Request.Context(), user.ID, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, n)
}
