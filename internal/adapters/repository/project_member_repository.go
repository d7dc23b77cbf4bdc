package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/database"
)

// ProjectMemberRepository implements ports.ProjectMemberRepository on sqlx
type ProjectMemberRepository struct {
	db *database.DB
}

// NewProjectMemberRepository creates a new roster repository
func NewProjectMemberRepository(db *database.DB) *ProjectMemberRepository {
	return &ProjectMemberRepository{db: db}
}

// Add puts a member on a project roster. The (project_id, member_id)
// primary key turns a repeated add into entities.ErrAlreadyOnRoster.
func (r *ProjectMemberRepository) Add(ctx context.Context, entry *entities.ProjectMember) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now()
	}

	_, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(`
		INSERT INTO project_members (project_id, member_id, role, created_at)
		VALUES (?, ?, ?, ?)`),
		entry.ProjectID, entry.MemberID, entry.Role, entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrAlreadyOnRoster
		}
		return entities.NewStoreError("add project member", err)
	}

	return nil
}

// Remove takes a member off a project roster
func (r *ProjectMemberRepository) Remove(ctx context.Context, projectID, memberID uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(`
		DELETE FROM project_members WHERE project_id = ? AND member_id = ?`),
		projectID, memberID,
	)
	if err != nil {
		return entities.NewStoreError("remove project member", err)
	}

	return expectRow(result, entities.ErrProjectMemberNotFound, "remove project member")
}

// List returns the roster of a project, oldest entry first
func (r *ProjectMemberRepository) List(ctx context.Context, projectID uuid.UUID) ([]*entities.ProjectMember, error) {
	entries := []*entities.ProjectMember{}
	err := r.db.DB.SelectContext(ctx, &entries, r.db.DB.Rebind(`
		SELECT project_id, member_id, role, created_at FROM project_members
		WHERE project_id = ?
		ORDER BY created_at ASC, member_id ASC`), projectID)
	if err != nil {
		return nil, entities.NewStoreError("list project members", err)
	}

	return entries, nil
}
