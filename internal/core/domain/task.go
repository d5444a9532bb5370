package domain

import (
	"time"
)

// Task is the single persisted entity. Description is nullable in the
// store, so it travels as a pointer until it is rendered.
type Task struct {
	ID          int
	Title       string `validate:"required,max=100"`
	Description *string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) DescriptionOrEmpty() string {
	if t.Description == nil {
		return ""
	}

	return *t.Description
}

func (t *Task) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.DescriptionOrEmpty(),
		"completed":   t.Completed,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}
