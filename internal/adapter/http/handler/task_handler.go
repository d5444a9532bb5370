package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tasksapi/internal/adapter/http/helper"
	"tasksapi/internal/adapter/http/validation"
	"tasksapi/internal/core/model/request"
	"tasksapi/internal/core/port"
	"tasksapi/internal/core/util"
)

type TaskHandler struct {
	svc port.TaskService
}

func NewTaskHandler(svc port.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func (t *TaskHandler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.TaskCreate](c)

	if err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	task, err := t.svc.Create(ctx, params)

	if err != nil {
		slog.Error("Error creating task", "error", err)
		helper.SendInternalError(c, "Error creating task")
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (t *TaskHandler) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()

	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 100)

	data, err := t.svc.List(ctx, skip, limit)

	if err != nil {
		slog.Error("Error listing tasks", "error", err)
		helper.SendInternalError(c, "Error listing tasks")
		return
	}

	c.JSON(http.StatusOK, data)
}

func (t *TaskHandler) GetTask(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := taskID(c)

	if !ok {
		return
	}

	task, err := t.svc.Get(ctx, id)

	if errors.Is(err, port.ErrTaskNotFound) {
		helper.SendNotFoundError(c, "Task not found")
		return
	}

	if err != nil {
		slog.Error("Error getting task", "error", err, "id", id)
		helper.SendInternalError(c, "Error getting task")
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask serves both PUT and PATCH: both apply only the supplied
// fields. A field present as null is rejected for the non-nullable
// columns and clears description.
func (t *TaskHandler) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := taskID(c)

	if !ok {
		return
	}

	params, err := util.ParamsToMap[request.TaskUpdate](c)

	if err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if params.Supplied("title") && params.Title == nil {
		helper.SendBadRequestError(c, "title", "title must not be null")
		return
	}

	if params.Supplied("completed") && params.Completed == nil {
		helper.SendBadRequestError(c, "completed", "completed must not be null")
		return
	}

	if params.Title != nil && *params.Title == "" {
		helper.SendBadRequestError(c, "title", "title must not be empty")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	task, err := t.svc.Update(ctx, id, params)

	if errors.Is(err, port.ErrTaskNotFound) {
		helper.SendNotFoundError(c, "Task not found")
		return
	}

	if err != nil {
		slog.Error("Error updating task", "error", err, "id", id)
		helper.SendInternalError(c, "Error updating task")
		return
	}

	c.JSON(http.StatusOK, task)
}

func (t *TaskHandler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := taskID(c)

	if !ok {
		return
	}

	err := t.svc.Delete(ctx, id)

	if errors.Is(err, port.ErrTaskNotFound) {
		helper.SendNotFoundError(c, "Task not found")
		return
	}

	if err != nil {
		slog.Error("Error deleting task", "error", err, "id", id)
		helper.SendInternalError(c, "Error deleting task")
		return
	}

	c.Status(http.StatusNoContent)
}

// ResetTasks deletes every row and restarts the id sequence. Deleting
// zero rows is still success.
func (t *TaskHandler) ResetTasks(c *gin.Context) {
	ctx := c.Request.Context()

	if err := t.svc.ResetAll(ctx); err != nil {
		slog.Error("Error resetting tasks", "error", err)
		helper.SendInternalError(c, "Error resetting tasks")
		return
	}

	c.Status(http.StatusNoContent)
}

func taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		helper.SendBadRequestError(c, "id", "id must be an integer")
		return 0, false
	}

	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value := c.Query(name)

	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)

	if err != nil || parsed < 0 {
		return fallback
	}

	return parsed
}
