package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"tasksapi/internal/adapter/database/sqlite"
	"tasksapi/internal/core/domain"
	"tasksapi/internal/core/port"
)

const taskColumns = "id, title, description, completed, created_at, updated_at"

type TaskRepository struct {
	db *sqlite.DB
}

func NewTaskRepository(db *sqlite.DB) port.TaskRepository {
	return &TaskRepository{db: db}
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	query := tr.db.QueryBuilder.Insert("tasks").
		Columns("title", "description", "completed", "created_at", "updated_at").
		Values(task.Title, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error creating task", "error", err)
		return domain.Task{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.Task{}, err
	}

	return tr.GetByID(ctx, int(id))
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

	return scanTask(tr.db.QueryRowContext(ctx, stmt, args...))
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

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

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

// Update runs inside one transaction so the existence check and the
// mutation are atomic with respect to concurrent deletes.
func (tr *TaskRepository) Update(ctx context.Context, id int, changes map[string]interface{}) (domain.Task, error) {
	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.Task{}, err
	}

	defer tx.Rollback()

	query := tr.db.QueryBuilder.Update("tasks").
		SetMap(changes).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	result, err := tx.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error updating task", "error", err, "id", id)
		return domain.Task{}, err
	}

	affected, _ := result.RowsAffected()

	if affected == 0 {
		return domain.Task{}, port.ErrTaskNotFound
	}

	selectQuery := tr.db.QueryBuilder.Select(taskColumns).
		From("tasks").
		Where(sq.Eq{"id": id}).
		Limit(1)

	stmt, args, err = selectQuery.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := scanTask(tx.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Task{}, err
	}

	return task, tx.Commit()
}

func (tr *TaskRepository) Delete(ctx context.Context, id int) error {
	query := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error deleting task", "error", err, "id", id)
		return err
	}

	affected, _ := result.RowsAffected()

	if affected == 0 {
		return port.ErrTaskNotFound
	}

	return nil
}

// ResetAll clears the table and the AUTOINCREMENT counter in one
// transaction, so the next insert gets id 1.
func (tr *TaskRepository) ResetAll(ctx context.Context) error {
	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return err
	}

	// sqlite_sequence only exists after the first AUTOINCREMENT insert,
	// so a reset on a never-written store must tolerate its absence.
	if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = 'tasks'"); err != nil && !strings.Contains(err.Error(), "no such table") {
		return err
	}

	return tx.Commit()
}

func scanTask(row *sql.Row) (domain.Task, error) {
	var task domain.Task

	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, port.ErrTaskNotFound
	}

	if err != nil {
		return domain.Task{}, err
	}

	return task, nil
}
