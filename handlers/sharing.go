package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FellipeMarraa/cashz-api/models"
	"github.com/FellipeMarraa/cashz-api/services"
	"github.com/FellipeMarraa/cashz-api/utils"
)

type SharingHandler struct {
	DB            *sql.DB
	Service       *services.SharingService
	Email         *services.EmailService
	Notifications *services.NotificationService
}

func NewSharingHandler(db *sql.DB, service *services.SharingService, email *services.EmailService, notifications *services.NotificationService) *SharingHandler {
	return &SharingHandler{DB: db, Service: service, Email: email, Notifications: notifications}
}

// Invite creates a sharing grant for the given email and mails the
// accept link. Email delivery is best effort.
func (h *SharingHandler) Invite(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req models.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := h.Service.Invite(c.Request.Context(), user, req.Email)
	if err != nil {
		serviceError(c, err)
		return
	}

	if err := h.Email.SendShareInvitation(grant.InviteeEmail, user.Name, grant.Token); err != nil {
		log.Printf("⚠️ Failed to send invitation email to %s: %v", utils.MaskEmail(grant.InviteeEmail), err)
		c.JSON(http.StatusCreated, gin.H{
			"grant":   grant,
			"message": "Invitation created but email failed to send",
			"warning": "Please share the invitation link manually",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"grant":   grant,
		"message": "Invitation sent successfully",
	})
}

// Accept turns a pending grant into an accepted one for the caller.
func (h *SharingHandler) Accept(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req models.AcceptShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := h.Service.Accept(c.Request.Context(), user, req.Token)
	if err != nil {
		serviceError(c, err)
		return
	}

	// Tell the owner their invite was accepted; advisory only.
	if err := h.Notifications.Notify(c.Request.Context(), grant.OwnerID, models.NotifySharing,
		"Sharing invitation accepted",
		user.Name+" now has access to your finances."); err != nil {
		log.Printf("⚠️ Failed to notify grant owner %s: %v", utils.MaskID(grant.OwnerID), err)
	}

	c.JSON(http.StatusOK, grant)
}

// Status reports the caller's outbound and inbound grants.
func (h *SharingHandler) Status(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	outbound, err := h.Service.Outbound(c.Request.Context(), user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	inbound, err := h.Service.Inbound(c.Request.Context(), user.Email)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outbound": outbound, "inbound": inbound})
}

// Revoke removes the grant the caller issued.
func (h *SharingHandler) Revoke(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	if err := h.Service.Revoke(c.Request.Context(), user.ID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sharing revoked"})
}

// Leave removes the grant shared with the caller.
func (h *SharingHandler) Leave(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	if err := h.Service.Leave(c.Request.Context(), user.Email); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left shared finances"})
}
