package response

import (
	"time"
)

type TaskResponse struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TaskListResponse struct {
	Count int            `json:"count"`
	Tasks []TaskResponse `json:"tasks"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
