package http

import (
	"tasksapi/internal/adapter/http/handler"
	"tasksapi/internal/core/port"
	"tasksapi/internal/core/service"
)

// Container holds the explicitly constructed dependency graph. Everything
// is passed down through constructors; there are no package-level handles.
type Container struct {
	TaskRepo port.TaskRepository
	TaskSvc  port.TaskService

	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

func NewContainer(repo port.TaskRepository) *Container {
	taskSvc := service.NewTaskService(repo)

	return &Container{
		TaskRepo: repo,
		TaskSvc:  taskSvc,

		TaskHandler:   handler.NewTaskHandler(taskSvc),
		HealthHandler: handler.NewHealthHandler(),
	}
}
