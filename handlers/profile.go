package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zen-wellness/Zen-snoopy/middleware"
)

type updatePreferencesRequest struct {
	NotifyEnabled     *bool `json:"notifyEnabled" binding:"required"`
	NotifyLeadMinutes *int  `json:"notifyLeadMinutes" binding:"required,min=0,max=1440"`
}

func (h *Handler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdatePreferences меняет только настройки уведомлений; профильные
// поля принадлежат identity-провайдеру и здесь не редактируются.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update_preferences", err)
		return
	}

	updated, err := h.Store.UpdatePreferences(user.ID, *req.NotifyEnabled, *req.NotifyLeadMinutes)
	if err != nil {
		h.fail(c, "update_preferences", err)
		return
	}

	middleware.InvalidateUserCache(c, h.Cache, user.ID)
	c.JSON(http.StatusOK, updated)
}
