package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/database"
	"github.com/secangkircinta/scug/internal/ports"
)

const projectColumns = `id, name, description, date, created_at, updated_at, deleted_at`

// ProjectRepository implements ports.ProjectRepository on sqlx
type ProjectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, project *entities.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now()
	}
	project.UpdatedAt = project.CreatedAt

	query := r.db.DB.Rebind(`
		INSERT INTO projects (id, name, description, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.DB.ExecContext(ctx, query,
		project.ID, project.Name, project.Description, project.Date,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return entities.NewStoreError("create project", err)
	}

	return nil
}

// GetByID returns a non-deleted project
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	query := r.db.DB.Rebind(`SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND deleted_at IS NULL`)

	var project entities.Project
	if err := r.db.DB.GetContext(ctx, &project, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrProjectNotFound
		}
		return nil, entities.NewStoreError("get project", err)
	}

	return &project, nil
}

// Update writes name, description and date
func (r *ProjectRepository) Update(ctx context.Context, project *entities.Project) error {
	project.UpdatedAt = now()

	query := r.db.DB.Rebind(`
		UPDATE projects
		SET name = ?, description = ?, date = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`)

	result, err := r.db.DB.ExecContext(ctx, query,
		project.Name, project.Description, project.Date, project.UpdatedAt, project.ID,
	)
	if err != nil {
		return entities.NewStoreError("update project", err)
	}

	return expectRow(result, entities.ErrProjectNotFound, "update project")
}

// SoftDelete sets the deletion marker
func (r *ProjectRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	at := now()
	query := r.db.DB.Rebind(`UPDATE projects SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`)

	result, err := r.db.DB.ExecContext(ctx, query, at, at, id)
	if err != nil {
		return entities.NewStoreError("delete project", err)
	}

	return expectRow(result, entities.ErrProjectNotFound, "delete project")
}

// List returns non-deleted projects, newest first unless SortOrder is "asc"
func (r *ProjectRepository) List(ctx context.Context, filter ports.ProjectFilter) ([]*entities.Project, error) {
	where, args := r.where(filter)

	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where + ` ORDER BY created_at ` + order
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	projects := []*entities.Project{}
	if err := r.db.DB.SelectContext(ctx, &projects, r.db.DB.Rebind(query), args...); err != nil {
		return nil, entities.NewStoreError("list projects", err)
	}

	return projects, nil
}

// Count returns the number of non-deleted projects matching the filter
func (r *ProjectRepository) Count(ctx context.Context, filter ports.ProjectFilter) (int64, error) {
	where, args := r.where(filter)

	var total int64
	if err := r.db.DB.GetContext(ctx, &total, r.db.DB.Rebind(`SELECT COUNT(*) FROM projects`+where), args...); err != nil {
		return 0, entities.NewStoreError("count projects", err)
	}

	return total, nil
}

func (r *ProjectRepository) where(filter ports.ProjectFilter) (string, []interface{}) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		conditions = append(conditions, "name "+likeOperator(r.db)+" ?")
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// expectRow turns a zero-row write into notFound
func expectRow(result sql.Result, notFound error, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError(op, err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
