package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/database"
)

const adminColumns = `id, email, name, password_hash, created_at, updated_at`

// AdminRepository implements ports.AdminRepository on sqlx
type AdminRepository struct {
	db *database.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts an admin, returning entities.ErrEmailTaken on duplicates
func (r *AdminRepository) Create(ctx context.Context, admin *entities.Admin) error {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now()
	}
	admin.UpdatedAt = admin.CreatedAt

	_, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(`
		INSERT INTO admins (`+adminColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`),
		admin.ID, admin.Email, admin.Name, admin.PasswordHash, admin.CreatedAt, admin.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrEmailTaken
		}
		return entities.NewStoreError("create admin", err)
	}

	return nil
}

// GetByID returns an admin by id
func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error) {
	return r.get(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
}

// GetByEmail returns an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*entities.Admin, error) {
	return r.get(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = ?`, email)
}

func (r *AdminRepository) get(ctx context.Context, query string, args ...interface{}) (*entities.Admin, error) {
	var admin entities.Admin
	if err := r.db.DB.GetContext(ctx, &admin, r.db.DB.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrAdminNotFound
		}
		return nil, entities.NewStoreError("get admin", err)
	}
	return &admin, nil
}
