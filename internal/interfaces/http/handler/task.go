package handler

import (
	"github.com/gin-gonic/gin"
	appoperations "github.com/outvoice/backend/internal/application/operations"
)

// TaskHandler serves the task board
type TaskHandler struct {
	BaseHandler
	taskService *appoperations.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *appoperations.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// RegisterRoutes mounts the task routes
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.GET("", h.ListTasks)
	tasks.POST("", h.Create)
	tasks.PATCH("/:id/status", h.UpdateStatus)
	tasks.POST("/schedule", h.Schedule)
}

// ListTasks godoc
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, tasks, len(tasks))
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body appoperations.CreateTaskRequest true "Task"
// @Success      201 {object} dto.Response
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req appoperations.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	task, err := h.taskService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, task)
}

// UpdateStatus godoc
// @Summary      Move a task on the board
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body appoperations.UpdateTaskStatusRequest true "Status"
// @Success      200 {object} dto.Response
// @Router       /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	var req appoperations.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	task, err := h.taskService.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Schedule godoc
// @Summary      Plan the work for an invoice with the assistant
// @Description  Replaces earlier scheduled tasks of the invoice. New tasks start in To Do.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body appoperations.ScheduleTasksRequest true "Invoice"
// @Success      201 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /tasks/schedule [post]
func (h *TaskHandler) Schedule(c *gin.Context) {
	var req appoperations.ScheduleTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tasks, err := h.taskService.Schedule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tasks)
}
