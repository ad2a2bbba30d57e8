package handlers

import (
	"errors"
	"net/http"

	"press_admin/internal/services"

	"github.com/gin-gonic/gin"
)

type RecycleBinHandler struct {
	lifecycleService services.LifecycleService
}

func NewRecycleBinHandler(lifecycleService services.LifecycleService) *RecycleBinHandler {
	return &RecycleBinHandler{lifecycleService: lifecycleService}
}

func (h *RecycleBinHandler) List(c *gin.Context) {
	entries, err := h.lifecycleService.RecycleBin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *RecycleBinHandler) Restore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	account, err := h.lifecycleService.Restore(c.Request.Context(), id)
	if errors.Is(err, services.ErrOrphanedArchive) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "User not found. The recycle bin entry has been removed.",
			"removed": true,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User " + account.Username + " restored successfully", "account": newAccountResponse(account)})
}

func (h *RecycleBinHandler) Purge(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	result, err := h.lifecycleService.Purge(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "User " + result.Entry.Username + " permanently deleted",
		"account_removed": result.AccountRemoved,
	})
}
