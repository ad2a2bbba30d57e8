package handlers

import (
	"errors"
	"net/http"

	"press_admin/internal/services"

	"github.com/gin-gonic/gin"
)

type WhatsAppHandler struct {
	accountService      services.AccountService
	notificationService services.NotificationService
}

func NewWhatsAppHandler(accountService services.AccountService, notificationService services.NotificationService) *WhatsAppHandler {
	return &WhatsAppHandler{
		accountService:      accountService,
		notificationService: notificationService,
	}
}

// WelcomeLink composes the welcome message. With ?redirect=1 the client is
// sent straight to the wa.me link.
func (h *WhatsAppHandler) WelcomeLink(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.notificationService.Welcome(account)
	if errors.Is(err, services.ErrNoContactNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "WhatsApp number not found for this user"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("redirect") == "1" {
		c.Redirect(http.StatusFound, msg.Link)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// SendWelcome delivers the welcome message through the WhatsApp gateway.
func (h *WhatsAppHandler) SendWelcome(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.notificationService.SendWelcome(c.Request.Context(), account)
	if errors.Is(err, services.ErrNoContactNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "WhatsApp number not found for this user"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent", "destination": msg.Destination})
}
