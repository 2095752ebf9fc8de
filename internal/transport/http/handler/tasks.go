package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todoweb/internal/app"
	"todoweb/internal/flash"
	"todoweb/internal/transport/http/middleware"
)

type TaskHandler struct {
	tasks   *app.TaskService
	flashes flash.Store
}

func NewTaskHandler(tasks *app.TaskService, flashes flash.Store) *TaskHandler {
	return &TaskHandler{
		tasks:   tasks,
		flashes: flashes,
	}
}

// List renders the current user's tasks in creation order.
func (h *TaskHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	flashes := middleware.TakeFlashes(c, h.flashes)

	tasks, err := h.tasks.ListTasks(user.ID)
	if err != nil {
		flashes = append(flashes, flash.Message{Category: flash.CategoryError, Text: "Could not load your tasks"})
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Username": user.Username,
		"Tasks":    tasks,
		"Flashes":  flashes,
	})
}

// Create inserts a task from the form field "task-text" and reloads the
// list. An empty field is a silent no-op; a storage failure only surfaces as
// a notice on the reloaded page.
func (h *TaskHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	text := c.PostForm("task-text")

	if err := h.tasks.CreateTask(c.Request.Context(), user.ID, text); err != nil {
		middleware.AddFlash(c, h.flashes, flash.CategoryError, "Could not save the task, please try again")
	}
	c.Redirect(http.StatusFound, "/")
}
