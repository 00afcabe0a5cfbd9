package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zen-wellness/Zen-snoopy/middleware"
	"github.com/zen-wellness/Zen-snoopy/models"
)

type createJournalRequest struct {
	Content string `json:"content" binding:"required"`
	Mood    string `json:"mood"`
	Date    string `json:"date" binding:"required,dateymd"`
}

func (h *Handler) ListJournal(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	entries, err := h.Store.ListJournal(user.ID, c.Query("date"))
	if err != nil {
		h.fail(c, "list_journal", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) CreateJournalEntry(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req createJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create_journal", err)
		return
	}

	entry := models.JournalEntry{
		Content: req.Content,
		Mood:    req.Mood,
		Date:    req.Date,
	}
	if err := h.Store.CreateJournalEntry(user.ID, &entry); err != nil {
		h.fail(c, "create_journal", err)
		return
	}

	middleware.InvalidateUserCache(c, h.Cache, user.ID)
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) DeleteJournalEntry(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if err := h.Store.DeleteJournalEntry(id, user.ID); err != nil {
		h.fail(c, "delete_journal", err)
		return
	}

	middleware.InvalidateUserCache(c, h.Cache, user.ID)
	c.Status(http.StatusNoContent)
}
