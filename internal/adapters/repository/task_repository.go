package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/database"
	"github.com/secangkircinta/scug/internal/ports"
)

const taskColumns = `t.id, t.project_id, t.task_name, t.quantity, t.unit, t.notes, t.filled,
	t.filled_by_member_id, t.filled_at, t.created_at, t.updated_at`

// TaskRepository implements ports.TaskRepository on sqlx
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new, unfilled task
func (r *TaskRepository) Create(ctx context.Context, task *entities.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now()
	}
	task.UpdatedAt = task.CreatedAt

	query := r.db.DB.Rebind(`
		INSERT INTO project_tasks (id, project_id, task_name, quantity, unit, notes, filled,
			filled_by_member_id, filled_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.DB.ExecContext(ctx, query,
		task.ID, task.ProjectID, task.Name, task.Quantity, task.Unit, task.Notes, task.Filled,
		task.FilledByMemberID, task.FilledAt, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return entities.NewStoreError("create task", err)
	}

	return nil
}

// Get returns the task only if it belongs to projectID
func (r *TaskRepository) Get(ctx context.Context, projectID, id uuid.UUID) (*entities.Task, error) {
	query := r.db.DB.Rebind(`SELECT ` + taskColumns + ` FROM project_tasks t WHERE t.id = ? AND t.project_id = ?`)
	return r.get(ctx, query, id, projectID)
}

// GetByID returns a task by id
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	query := r.db.DB.Rebind(`SELECT ` + taskColumns + ` FROM project_tasks t WHERE t.id = ?`)
	return r.get(ctx, query, id)
}

func (r *TaskRepository) get(ctx context.Context, query string, args ...interface{}) (*entities.Task, error) {
	var task entities.Task
	if err := r.db.DB.GetContext(ctx, &task, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, entities.NewStoreError("get task", err)
	}
	return &task, nil
}

// Update writes the editable fields while the task is still unfilled
func (r *TaskRepository) Update(ctx context.Context, task *entities.Task) error {
	task.UpdatedAt = now()

	query := r.db.DB.Rebind(`
		UPDATE project_tasks
		SET task_name = ?, quantity = ?, unit = ?, notes = ?, updated_at = ?
		WHERE id = ? AND filled = ?`)

	result, err := r.db.DB.ExecContext(ctx, query,
		task.Name, task.Quantity, task.Unit, task.Notes, task.UpdatedAt, task.ID, false,
	)
	if err != nil {
		return entities.NewStoreError("update task", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("update task", err)
	}
	if rows == 1 {
		return nil
	}

	if _, err := r.GetByID(ctx, task.ID); err != nil {
		return err
	}
	return entities.ErrTaskFilled
}

// Delete removes the task row
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(`DELETE FROM project_tasks WHERE id = ?`), id)
	if err != nil {
		return entities.NewStoreError("delete task", err)
	}

	return expectRow(result, entities.ErrTaskNotFound, "delete task")
}

// List returns tasks ordered by creation time
func (r *TaskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	from, args := r.from(filter)

	query := `SELECT ` + taskColumns + from + ` ORDER BY t.created_at ASC, t.id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	tasks := []*entities.Task{}
	if err := r.db.DB.SelectContext(ctx, &tasks, r.db.DB.Rebind(query), args...); err != nil {
		return nil, entities.NewStoreError("list tasks", err)
	}

	return tasks, nil
}

// Count returns the number of tasks matching the filter
func (r *TaskRepository) Count(ctx context.Context, filter ports.TaskFilter) (int64, error) {
	from, args := r.from(filter)

	var total int64
	if err := r.db.DB.GetContext(ctx, &total, r.db.DB.Rebind(`SELECT COUNT(*)`+from), args...); err != nil {
		return 0, entities.NewStoreError("count tasks", err)
	}

	return total, nil
}

// Claim fills the task in one conditional statement. Only an unfilled task
// of a non-deleted project matches, so concurrent claims resolve to a single
// winner.
func (r *TaskRepository) Claim(ctx context.Context, projectID, id, memberID uuid.UUID, at time.Time) (bool, error) {
	query := r.db.DB.Rebind(`
		UPDATE project_tasks
		SET filled = ?, filled_by_member_id = ?, filled_at = ?, updated_at = ?
		WHERE id = ? AND project_id = ? AND filled = ?
			AND project_id IN (SELECT id FROM projects WHERE deleted_at IS NULL)`)

	result, err := r.db.DB.ExecContext(ctx, query, true, memberID, at, at, id, projectID, false)
	if err != nil {
		return false, entities.NewStoreError("claim task", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, entities.NewStoreError("claim task", err)
	}

	return rows == 1, nil
}

func (r *TaskRepository) from(filter ports.TaskFilter) (string, []interface{}) {
	from := ` FROM project_tasks t`
	if filter.ActiveProjectsOnly {
		from += ` JOIN projects p ON p.id = t.project_id AND p.deleted_at IS NULL`
	}

	conditions := []string{}
	args := []interface{}{}

	if filter.ProjectID != nil {
		conditions = append(conditions, "t.project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Filled != nil {
		conditions = append(conditions, "t.filled = ?")
		args = append(args, *filter.Filled)
	}

	if len(conditions) > 0 {
		from += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	return from, args
}
