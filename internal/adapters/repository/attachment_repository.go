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

const (
	coverColumns  = `project_id, image_url, object_path, content_type, created_at`
	reportColumns = `id, project_id, file_url, object_path, file_name, file_type, created_at`
)

// CoverRepository implements ports.CoverRepository on sqlx
type CoverRepository struct {
	db *database.DB
}

// NewCoverRepository creates a new cover repository
func NewCoverRepository(db *database.DB) *CoverRepository {
	return &CoverRepository{db: db}
}

// Get returns the cover of a project
func (r *CoverRepository) Get(ctx context.Context, projectID uuid.UUID) (*entities.CoverImage, error) {
	var cover entities.CoverImage
	err := r.db.DB.GetContext(ctx, &cover, r.db.DB.Rebind(`SELECT `+coverColumns+` FROM project_covers WHERE project_id = ?`), projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrCoverNotFound
		}
		return nil, entities.NewStoreError("get cover", err)
	}

	return &cover, nil
}

// Upsert replaces the cover keyed by project id and returns the previous one
func (r *CoverRepository) Upsert(ctx context.Context, cover *entities.CoverImage) (*entities.CoverImage, error) {
	if cover.CreatedAt.IsZero() {
		cover.CreatedAt = now()
	}

	var previous *entities.CoverImage

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var old entities.CoverImage
		err := tx.GetContext(ctx, &old, tx.Rebind(`SELECT `+coverColumns+` FROM project_covers WHERE project_id = ?`), cover.ProjectID)
		switch {
		case err == nil:
			previous = &old
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO project_covers (`+coverColumns+`)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (project_id) DO UPDATE SET
				image_url = excluded.image_url,
				object_path = excluded.object_path,
				content_type = excluded.content_type,
				created_at = excluded.created_at`),
			cover.ProjectID, cover.ImageURL, cover.ObjectPath, cover.ContentType, cover.CreatedAt,
		)
		return err
	})
	if err != nil {
		return nil, entities.NewStoreError("upsert cover", err)
	}

	return previous, nil
}

// Delete removes the cover record of a project
func (r *CoverRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(`DELETE FROM project_covers WHERE project_id = ?`), projectID)
	if err != nil {
		return entities.NewStoreError("delete cover", err)
	}

	return expectRow(result, entities.ErrCoverNotFound, "delete cover")
}

// ObjectPaths returns every storage path referenced by a cover
func (r *CoverRepository) ObjectPaths(ctx context.Context) ([]string, error) {
	return objectPaths(ctx, r.db, "project_covers")
}

// ReportRepository implements ports.ReportRepository on sqlx
type ReportRepository struct {
	db *database.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create appends a report file
func (r *ReportRepository) Create(ctx context.Context, report *entities.ReportFile) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now()
	}

	_, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(`
		INSERT INTO project_reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		report.ID, report.ProjectID, report.FileURL, report.ObjectPath,
		report.FileName, report.FileType, report.CreatedAt,
	)
	if err != nil {
		return entities.NewStoreError("create report", err)
	}

	return nil
}

// GetByID returns one report file
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ReportFile, error) {
	var report entities.ReportFile
	err := r.db.DB.GetContext(ctx, &report, r.db.DB.Rebind(`SELECT `+reportColumns+` FROM project_reports WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrReportNotFound
		}
		return nil, entities.NewStoreError("get report", err)
	}

	return &report, nil
}

// List returns the report files of a project, newest first
func (r *ReportRepository) List(ctx context.Context, projectID uuid.UUID) ([]*entities.ReportFile, error) {
	reports := []*entities.ReportFile{}
	err := r.db.DB.SelectContext(ctx, &reports, r.db.DB.Rebind(`
		SELECT `+reportColumns+` FROM project_reports
		WHERE project_id = ?
		ORDER BY created_at DESC`), projectID)
	if err != nil {
		return nil, entities.NewStoreError("list reports", err)
	}

	return reports, nil
}

// Delete removes one report record
func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(`DELETE FROM project_reports WHERE id = ?`), id)
	if err != nil {
		return entities.NewStoreError("delete report", err)
	}

	return expectRow(result, entities.ErrReportNotFound, "delete report")
}

// ObjectPaths returns every storage path referenced by a report
func (r *ReportRepository) ObjectPaths(ctx context.Context) ([]string, error) {
	return objectPaths(ctx, r.db, "project_reports")
}
