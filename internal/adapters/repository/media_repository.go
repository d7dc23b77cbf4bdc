package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/database"
)

const mediaColumns = `id, project_id, type, image_url, object_path, content_type, caption, order_index, created_at`

// MediaRepository implements ports.MediaRepository on sqlx
type MediaRepository struct {
	db *database.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *database.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a media item at item.OrderIndex
func (r *MediaRepository) Create(ctx context.Context, item *entities.MediaItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now()
	}

	query := r.db.DB.Rebind(`
		INSERT INTO project_media (` + mediaColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.DB.ExecContext(ctx, query,
		item.ID, item.ProjectID, item.Type, item.ImageURL, item.ObjectPath,
		item.ContentType, item.Caption, item.OrderIndex, item.CreatedAt,
	)
	if err != nil {
		return entities.NewStoreError("create media", err)
	}

	return nil
}

// GetByID returns one media item
func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.MediaItem, error) {
	query := r.db.DB.Rebind(`SELECT ` + mediaColumns + ` FROM project_media WHERE id = ?`)

	var item entities.MediaItem
	if err := r.db.DB.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrMediaNotFound
		}
		return nil, entities.NewStoreError("get media", err)
	}

	return &item, nil
}

// List returns the items of one (project, type) scope sorted by order index
func (r *MediaRepository) List(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType) ([]*entities.MediaItem, error) {
	query := r.db.DB.Rebind(`
		SELECT ` + mediaColumns + ` FROM project_media
		WHERE project_id = ? AND type = ?
		ORDER BY order_index ASC, created_at ASC`)

	items := []*entities.MediaItem{}
	if err := r.db.DB.SelectContext(ctx, &items, query, projectID, mediaType); err != nil {
		return nil, entities.NewStoreError("list media", err)
	}

	return items, nil
}

// SetCaption replaces the caption of one item
func (r *MediaRepository) SetCaption(ctx context.Context, id uuid.UUID, caption string) error {
	result, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(`UPDATE project_media SET caption = ? WHERE id = ?`), caption, id)
	if err != nil {
		return entities.NewStoreError("set caption", err)
	}

	return expectRow(result, entities.ErrMediaNotFound, "set caption")
}

// UpdateOrder writes every order index in one transaction. A missing item
// rolls the whole batch back.
func (r *MediaRepository) UpdateOrder(ctx context.Context, items []entities.MediaItem) error {
	if len(items) == 0 {
		return nil
	}

	query := r.db.DB.Rebind(`UPDATE project_media SET order_index = ? WHERE id = ?`)

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, item := range items {
			result, err := stmt.ExecContext(ctx, item.OrderIndex, item.ID)
			if err != nil {
				return err
			}
			if err := expectRow(result, entities.ErrMediaNotFound, "update order"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return entities.NewStoreError("update order", err)
	}

	return nil
}

// Delete removes one item without touching its siblings
func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(`DELETE FROM project_media WHERE id = ?`), id)
	if err != nil {
		return entities.NewStoreError("delete media", err)
	}

	return expectRow(result, entities.ErrMediaNotFound, "delete media")
}

// ObjectPaths returns every storage path referenced by a media item
func (r *MediaRepository) ObjectPaths(ctx context.Context) ([]string, error) {
	return objectPaths(ctx, r.db, "project_media")
}

func objectPaths(ctx context.Context, db *database.DB, table string) ([]string, error) {
	paths := []string{}
	if err := db.DB.SelectContext(ctx, &paths, `SELECT object_path FROM `+table); err != nil {
		return nil, entities.NewStoreError("list object paths", err)
	}
	return paths, nil
}
