package port

import (
	"context"
	"errors"

	"tasksapi/internal/core/domain"
	"tasksapi/internal/core/model/request"
	"tasksapi/internal/core/model/response"
)

// ErrTaskNotFound is the explicit absent-row result. Get, Update and
// Delete return it instead of a driver error when the id does not exist.
var ErrTaskNotFound = errors.New("task not found")

type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	GetByID(ctx context.Context, id int) (domain.Task, error)
	List(ctx context.Context, skip, limit int) ([]domain.Task, error)
	// Update applies the given column changes plus updated_at in a single
	// atomic statement. An empty change set still refreshes updated_at.
	Update(ctx context.Context, id int, changes map[string]interface{}) (domain.Task, error)
	Delete(ctx context.Context, id int) error
	// ResetAll deletes every row and restarts the id sequence at 1,
	// both inside one transaction.
	ResetAll(ctx context.Context) error
}

type TaskService interface {
	Create(ctx context.Context, params request.TaskCreate) (response.TaskResponse, error)
	Get(ctx context.Context, id int) (response.TaskResponse, error)
	List(ctx context.Context, skip, limit int) (response.TaskListResponse, error)
	Update(ctx context.Context, id int, params request.TaskUpdate) (response.TaskResponse, error)
	Delete(ctx context.Context, id int) error
	ResetAll(ctx context.Context) error
}
