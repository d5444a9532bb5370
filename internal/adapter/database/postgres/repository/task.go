package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"tasksapi/internal/adapter/database/postgres"
	"tasksapi/internal/core/domain"
	"tasksapi/internal/core/port"
)

const taskColumns = "id, title, description, completed, created_at, updated_at"

type TaskRepository struct {
	db *postgres.DB
}

func NewTaskRepository(db *postgres.DB) port.TaskRepository {
	return &TaskRepository{db: db}
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	query := tr.db.QueryBuilder.Insert("tasks").
		Columns("title", "description", "completed", "created_at", "updated_at").
		Values(task.Title, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt).
		Suffix("RETURNING " + taskColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	saved, err := scanTask(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		slog.Error("Error creating task", "error", err)
		return domain.Task{}, err
	}

	return saved, nil
}

func (tr *TaskRepository) GetByID(ctx context.Context, id int) (domain.Task, error) {
	query := tr.db.QueryBuilder.Select(taskColumns).
		From("tasks").
		Where(sq.Eq{"id": id}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := scanTask(tr.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, port.ErrTaskNotFound
	}

	if err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) List(ctx context.Context, skip, limit int) ([]domain.Task, error) {
	query := tr.db.QueryBuilder.Select(taskColumns).
		From("tasks").
		Offset(uint64(skip)).
		Limit(uint64(limit))

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching tasks", "error", err)
		return nil, err
	}

	defer rows.Close()

	data := []domain.Task{}

	for rows.Next() {
		var task domain.Task

		err = rows.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)

		if err != nil {
			return nil, err
		}

		data = append(data, task)
	}

	return data, rows.Err()
}

// Update is a single UPDATE ... RETURNING, so the existence check and the
// mutation cannot be split by a concurrent delete.
func (tr *TaskRepository) Update(ctx context.Context, id int, changes map[string]interface{}) (domain.Task, error) {
	query := tr.db.QueryBuilder.Update("tasks").
		SetMap(changes).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + taskColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := scanTask(tr.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, port.ErrTaskNotFound
	}

	if err != nil {
		slog.Error("Error updating task", "error", err, "id", id)
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) Delete(ctx context.Context, id int) error {
	query := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	tag, err := tr.db.Exec(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error deleting task", "error", err, "id", id)
		return err
	}

	if tag.RowsAffected() == 0 {
		return port.ErrTaskNotFound
	}

	return nil
}

// ResetAll deletes every row and restarts the id sequence at 1. Both
// statements run in one transaction; isolation stays at the store default,
// so an insert committed right after ours can still observe the restarted
// sequence.
func (tr *TaskRepository) ResetAll(ctx context.Context) error {
	tx, err := tr.db.Begin(ctx)

	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM tasks"); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "ALTER SEQUENCE tasks_id_seq RESTART WITH 1"); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task

	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return domain.Task{}, err
	}

	return task, nil
}
