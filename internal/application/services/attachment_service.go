package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/infrastructure/metrics"
	"github.com/secangkircinta/scug/internal/ports"
)

const (
	uploadKindCover  = "cover"
	uploadKindReport = "report"
)

// CoverService manages the single cover image of a project
type CoverService struct {
	coverRepo   ports.CoverRepository
	projectRepo ports.ProjectRepository
	storage     ports.ObjectStorage
	views       *ProjectViewCache
	maxBytes    int64
	metrics     *metrics.Metrics
	logger      *logger.Logger
	now         Clock
}

// NewCoverService creates a new cover service
func NewCoverService(coverRepo ports.CoverRepository, projectRepo ports.ProjectRepository, storage ports.ObjectStorage, views *ProjectViewCache, maxBytes int64, m *metrics.Metrics, logger *logger.Logger) *CoverService {
	return &CoverService{
		coverRepo:   coverRepo,
		projectRepo: projectRepo,
		storage:     storage,
		views:       views,
		maxBytes:    maxBytes,
		metrics:     m,
		logger:      logger.WithComponent("cover_service"),
		now:         utcNow,
	}
}

// Get returns the cover of a visible project
func (s *CoverService) Get(ctx context.Context, projectID uuid.UUID) (*entities.CoverImage, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.coverRepo.Get(ctx, projectID)
}

// Set replaces the cover. The new object is stored first and the record
// swapped atomically; the previous object is deleted only after the swap.
func (s *CoverService) Set(ctx context.Context, projectID uuid.UUID, file ports.UploadFile) (*entities.CoverImage, error) {
	cover, err := s.set(ctx, projectID, file)
	s.metrics.ObserveUpload(uploadKindCover, err)
	return cover, err
}

func (s *CoverService) set(ctx context.Context, projectID uuid.UUID, file ports.UploadFile) (*entities.CoverImage, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	sniffed, err := sniffImage(file, s.maxBytes)
	if err != nil {
		return nil, err
	}

	objectPath := objectName("covers", projectID, sniffed.Extension)
	if err := s.storage.Put(ctx, objectPath, sniffed.Body, sniffed.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	cover := &entities.CoverImage{
		ProjectID:   projectID,
		ImageURL:    s.storage.PublicURL(objectPath),
		ObjectPath:  objectPath,
		ContentType: sniffed.ContentType,
		CreatedAt:   s.now(),
	}
	previous, err := s.coverRepo.Upsert(ctx, cover)
	if err != nil {
		discardObject(ctx, s.storage, s.logger, objectPath)
		return nil, fmt.Errorf("failed to save cover: %w", err)
	}
	s.views.Invalidate(ctx, projectID)

	if previous != nil && previous.ObjectPath != objectPath {
		discardObject(ctx, s.storage, s.logger, previous.ObjectPath)
	}

	s.logger.Infow("Cover image set", "project_id", projectID, "object_path", objectPath)

	return cover, nil
}

// Remove deletes the cover record and then its object
func (s *CoverService) Remove(ctx context.Context, projectID uuid.UUID) error {
	cover, err := s.coverRepo.Get(ctx, projectID)
	if err != nil {
		return err
	}

	if err := s.coverRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete cover: %w", err)
	}
	s.views.Invalidate(ctx, projectID)

	discardObject(ctx, s.storage, s.logger, cover.ObjectPath)

	s.logger.Infow("Cover image removed", "project_id", projectID)
	return nil
}

// ReportService manages the report files of a project
type ReportService struct {
	reportRepo  ports.ReportRepository
	projectRepo ports.ProjectRepository
	storage     ports.ObjectStorage
	maxBytes    int64
	metrics     *metrics.Metrics
	logger      *logger.Logger
	now         Clock
}

// NewReportService creates a new report service
func NewReportService(reportRepo ports.ReportRepository, projectRepo ports.ProjectRepository, storage ports.ObjectStorage, maxBytes int64, m *metrics.Metrics, logger *logger.Logger) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		projectRepo: projectRepo,
		storage:     storage,
		maxBytes:    maxBytes,
		metrics:     m,
		logger:      logger.WithComponent("report_service"),
		now:         utcNow,
	}
}

// List returns the report files of a visible project, newest first
func (s *ReportService) List(ctx context.Context, projectID uuid.UUID) ([]*entities.ReportFile, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.reportRepo.List(ctx, projectID)
}

// Upload stores any non-empty file as a new report entry
func (s *ReportService) Upload(ctx context.Context, projectID uuid.UUID, file ports.UploadFile) (*entities.ReportFile, error) {
	report, err := s.upload(ctx, projectID, file)
	s.metrics.ObserveUpload(uploadKindReport, err)
	return report, err
}

func (s *ReportService) upload(ctx context.Context, projectID uuid.UUID, file ports.UploadFile) (*entities.ReportFile, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	sniffed, err := sniff(file, s.maxBytes)
	if err != nil {
		return nil, err
	}

	fileType := strings.TrimSpace(file.ContentType)
	if fileType == "" || fileType == "application/octet-stream" {
		fileType = sniffed.ContentType
	}
	ext := sniffed.Extension
	if ext == "" && !strings.ContainsAny(path.Ext(file.Name), " /\\") {
		ext = path.Ext(file.Name)
	}
	fileName := path.Base(strings.ReplaceAll(file.Name, "\\", "/"))
	if fileName == "." || fileName == "/" {
		fileName = "report" + ext
	}

	objectPath := objectName("reports", projectID, ext)
	if err := s.storage.Put(ctx, objectPath, sniffed.Body, fileType); err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	report := &entities.ReportFile{
		ID:         uuid.New(),
		ProjectID:  projectID,
		FileURL:    s.storage.PublicURL(objectPath),
		ObjectPath: objectPath,
		FileName:   fileName,
		FileType:   fileType,
		CreatedAt:  s.now(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		discardObject(ctx, s.storage, s.logger, objectPath)
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	s.logger.Infow("Report file uploaded", "report_id", report.ID, "project_id", projectID, "file_name", fileName)

	return report, nil
}

// Remove deletes a report record and then its object
func (s *ReportService) Remove(ctx context.Context, id uuid.UUID) error {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report file: %w", err)
	}

	discardObject(ctx, s.storage, s.logger, report.ObjectPath)

	s.logger.Infow("Report file removed", "report_id", id, "project_id", report.ProjectID)
	return nil
}
