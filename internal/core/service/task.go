package service

import (
	"context"
	"log/slog"
	"time"

	"tasksapi/internal/core/domain"
	"tasksapi/internal/core/model/request"
	"tasksapi/internal/core/model/response"
	"tasksapi/internal/core/port"
)

type TaskService struct {
	repo port.TaskRepository
}

func NewTaskService(repo port.TaskRepository) *TaskService {
	return &TaskService{repo}
}

func (ts *TaskService) Create(ctx context.Context, params request.TaskCreate) (response.TaskResponse, error) {
	now := time.Now().UTC()

	newTask := domain.Task{
		Title:       params.Title,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if params.Completed != nil {
		newTask.Completed = *params.Completed
	}

	task, err := ts.repo.Create(ctx, newTask)

	if err != nil {
		slog.Error("Repository create failed", "error", err, "title", newTask.Title)
		return response.TaskResponse{}, err
	}

	return toTaskResponse(task), nil
}

func (ts *TaskService) Get(ctx context.Context, id int) (response.TaskResponse, error) {
	task, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return response.TaskResponse{}, err
	}

	return toTaskResponse(task), nil
}

func (ts *TaskService) List(ctx context.Context, skip, limit int) (response.TaskListResponse, error) {
	rows, err := ts.repo.List(ctx, skip, limit)

	if err != nil {
		slog.Error("Repository list failed", "error", err)
		return response.TaskListResponse{}, err
	}

	tasks := make([]response.TaskResponse, 0, len(rows))

	for _, task := range rows {
		tasks = append(tasks, toTaskResponse(task))
	}

	return response.TaskListResponse{
		Count: len(tasks),
		Tasks: tasks,
	}, nil
}

func (ts *TaskService) Update(ctx context.Context, id int, params request.TaskUpdate) (response.TaskResponse, error) {
	task, err := ts.repo.Update(ctx, id, buildChanges(params))

	if err != nil {
		return response.TaskResponse{}, err
	}

	return toTaskResponse(task), nil
}

func (ts *TaskService) Delete(ctx context.Context, id int) error {
	return ts.repo.Delete(ctx, id)
}

func (ts *TaskService) ResetAll(ctx context.Context) error {
	return ts.repo.ResetAll(ctx)
}

// buildChanges keeps only the columns the payload actually supplied.
// A supplied-but-null description clears the column; the repository
// appends updated_at on its own.
func buildChanges(params request.TaskUpdate) map[string]interface{} {
	changes := map[string]interface{}{}

	if params.Supplied("title") && params.Title != nil {
		changes["title"] = *params.Title
	}

	if params.Supplied("description") {
		changes["description"] = params.Description
	}

	if params.Supplied("completed") && params.Completed != nil {
		changes["completed"] = *params.Completed
	}

	return changes
}

func toTaskResponse(task domain.Task) response.TaskResponse {
	return response.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.DescriptionOrEmpty(),
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
