package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zen-wellness/Zen-snoopy/middleware"
	"github.com/zen-wellness/Zen-snoopy/models"
	"github.com/zen-wellness/Zen-snoopy/store"
)

type createHabitRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// updateHabitRequest не принимает streak — счётчик меняет только /log.
type updateHabitRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

type logHabitRequest struct {
	Date string `json:"date" binding:"required,dateymd"`
}

func (h *Handler) ListHabits(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	habits, err := h.Store.ListHabits(user.ID)
	if err != nil {
		h.fail(c, "list_habits", err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

func (h *Handler) CreateHabit(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create_habit", err)
		return
	}

	habit := models.Habit{Title: req.Title, Description: req.Description}
	if err := h.Store.CreateHabit(user.ID, &habit); err != nil {
		h.fail(c, "create_habit", err)
		return
	}
	habit.Logs = []models.HabitLog{}

	h.invalidateHabitCaches(c, user.ID)
	c.JSON(http.StatusCreated, habit)
}

func (h *Handler) UpdateHabit(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update_habit", err)
		return
	}

	habit, err := h.Store.UpdateHabit(id, user.ID, store.HabitUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, "update_habit", err)
		return
	}

	h.invalidateHabitCaches(c, user.ID)
	c.JSON(http.StatusOK, habit)
}

// LogHabit отмечает выполнение привычки: лог добавляется всегда, streak
// растёт на 1 за каждый вызов — включая повторные за один день.
func (h *Handler) LogHabit(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req logHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "log_habit", err)
		return
	}

	log, err := h.Store.LogHabit(id, user.ID, req.Date)
	if err != nil {
		h.fail(c, "log_habit", err)
		return
	}

	h.invalidateHabitCaches(c, user.ID)
	c.JSON(http.StatusOK, log)
}

func (h *Handler) DeleteHabit(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if err := h.Store.DeleteHabit(id, user.ID); err != nil {
		h.fail(c, "delete_habit", err)
		return
	}

	h.invalidateHabitCaches(c, user.ID)
	c.Status(http.StatusNoContent)
}

func (h *Handler) HabitStats(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	stats, err := h.Stats.UserStats(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "habit_stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) invalidateHabitCaches(c *gin.Context, userID string) {
	middleware.InvalidateUserCache(c, h.Cache, userID)
	h.Stats.InvalidateUser(c.Request.Context(), userID)
}
