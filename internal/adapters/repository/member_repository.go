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

const memberColumns = `id, name, phone, created_at, updated_at, deleted_at`

// MemberRepository implements ports.MemberRepository on sqlx
type MemberRepository struct {
	db *database.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a member. The partial unique index on phone turns a
// duplicate live phone into entities.ErrPhoneTaken.
func (r *MemberRepository) Create(ctx context.Context, member *entities.Member) error {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now()
	}
	member.UpdatedAt = member.CreatedAt

	query := r.db.DB.Rebind(`
		INSERT INTO members (id, name, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.DB.ExecContext(ctx, query,
		member.ID, member.Name, member.Phone, member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrPhoneTaken
		}
		return entities.NewStoreError("create member", err)
	}

	return nil
}

// GetByID returns a member even when soft-deleted
func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Member, error) {
	return r.get(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
}

// GetByPhone returns the live member owning the phone
func (r *MemberRepository) GetByPhone(ctx context.Context, phone string) (*entities.Member, error) {
	return r.get(ctx, `SELECT `+memberColumns+` FROM members WHERE phone = ? AND deleted_at IS NULL`, phone)
}

func (r *MemberRepository) get(ctx context.Context, query string, args ...interface{}) (*entities.Member, error) {
	var member entities.Member
	if err := r.db.DB.GetContext(ctx, &member, r.db.DB.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrMemberNotFound
		}
		return nil, entities.NewStoreError("get member", err)
	}
	return &member, nil
}

// Update writes name and phone of a live member
func (r *MemberRepository) Update(ctx context.Context, member *entities.Member) error {
	member.UpdatedAt = now()

	query := r.db.DB.Rebind(`
		UPDATE members SET name = ?, phone = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`)

	result, err := r.db.DB.ExecContext(ctx, query, member.Name, member.Phone, member.UpdatedAt, member.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrPhoneTaken
		}
		return entities.NewStoreError("update member", err)
	}

	return expectRow(result, entities.ErrMemberNotFound, "update member")
}

// SoftDelete sets the deletion marker, freeing the phone for a new member
func (r *MemberRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	at := now()
	query := r.db.DB.Rebind(`UPDATE members SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`)

	result, err := r.db.DB.ExecContext(ctx, query, at, at, id)
	if err != nil {
		return entities.NewStoreError("delete member", err)
	}

	return expectRow(result, entities.ErrMemberNotFound, "delete member")
}

// List returns live members, newest first
func (r *MemberRepository) List(ctx context.Context, filter ports.MemberFilter) ([]*entities.Member, error) {
	where, args := r.where(filter)

	query := `SELECT ` + memberColumns + ` FROM members` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	members := []*entities.Member{}
	if err := r.db.DB.SelectContext(ctx, &members, r.db.DB.Rebind(query), args...); err != nil {
		return nil, entities.NewStoreError("list members", err)
	}

	return members, nil
}

// Count returns the number of live members matching the filter
func (r *MemberRepository) Count(ctx context.Context, filter ports.MemberFilter) (int64, error) {
	where, args := r.where(filter)

	var total int64
	if err := r.db.DB.GetContext(ctx, &total, r.db.DB.Rebind(`SELECT COUNT(*) FROM members`+where), args...); err != nil {
		return 0, entities.NewStoreError("count members", err)
	}

	return total, nil
}

func (r *MemberRepository) where(filter ports.MemberFilter) (string, []interface{}) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		like := likeOperator(r.db)
		pattern := "%" + strings.TrimSpace(*filter.Search) + "%"
		conditions = append(conditions, "(name "+like+" ? OR phone "+like+" ?)")
		args = append(args, pattern, pattern)
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}
