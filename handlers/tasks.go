package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zen-wellness/Zen-snoopy/middleware"
	"github.com/zen-wellness/Zen-snoopy/models"
	"github.com/zen-wellness/Zen-snoopy/store"
)

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	StartTime   string `json:"startTime" binding:"required,hhmm"`
	EndTime     string `json:"endTime" binding:"required,hhmm"`
	Date        string `json:"date" binding:"required,dateymd"`
}

// updateTaskRequest — частичное обновление; nil-поля не трогаются.
// startTime > endTime допустимо: блок через полночь.
type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	StartTime   *string `json:"startTime" binding:"omitempty,hhmm"`
	EndTime     *string `json:"endTime" binding:"omitempty,hhmm"`
	Completed   *bool   `json:"completed"`
	Date        *string `json:"date" binding:"omitempty,dateymd"`
}

func (h *Handler) ListTasks(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	tasks, err := h.Store.ListTasks(user.ID, c.Query("date"))
	if err != nil {
		h.fail(c, "list_tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create_task", err)
		return
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Date:        req.Date,
	}
	if err := h.Store.CreateTask(user.ID, &task); err != nil {
		h.fail(c, "create_task", err)
		return
	}

	middleware.InvalidateUserCache(c, h.Cache, user.ID)
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update_task", err)
		return
	}

	task, err := h.Store.UpdateTask(id, user.ID, store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Completed:   req.Completed,
		Date:        req.Date,
	})
	if err != nil {
		h.fail(c, "update_task", err)
		return
	}

	middleware.InvalidateUserCache(c, h.Cache, user.ID)
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if err := h.Store.DeleteTask(id, user.ID); err != nil {
		h.fail(c, "delete_task", err)
		return
	}

	middleware.InvalidateUserCache(c, h.Cache, user.ID)
	c.Status(http.StatusNoContent)
}
