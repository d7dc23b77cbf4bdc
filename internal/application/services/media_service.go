package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/infrastructure/metrics"
	"github.com/secangkircinta/scug/internal/ports"
)

const uploadKindMedia = "media"

// MediaService maintains the ordered image collections of a project
type MediaService struct {
	mediaRepo   ports.MediaRepository
	projectRepo ports.ProjectRepository
	storage     ports.ObjectStorage
	views       *ProjectViewCache
	maxBytes    int64
	metrics     *metrics.Metrics
	logger      *logger.Logger
	now         Clock
}

// NewMediaService creates a new media service
func NewMediaService(mediaRepo ports.MediaRepository, projectRepo ports.ProjectRepository, storage ports.ObjectStorage, views *ProjectViewCache, maxBytes int64, m *metrics.Metrics, logger *logger.Logger) *MediaService {
	return &MediaService{
		mediaRepo:   mediaRepo,
		projectRepo: projectRepo,
		storage:     storage,
		views:       views,
		maxBytes:    maxBytes,
		metrics:     m,
		logger:      logger.WithComponent("media_service"),
		now:         utcNow,
	}
}

func (s *MediaService) checkScope(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType) error {
	if !mediaType.IsValid() {
		return entities.NewValidationError("type", fmt.Sprintf("unknown media type %q", mediaType))
	}
	_, err := s.projectRepo.GetByID(ctx, projectID)
	return err
}

// List returns the items of a scope in display order
func (s *MediaService) List(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType) ([]*entities.MediaItem, error) {
	if err := s.checkScope(ctx, projectID, mediaType); err != nil {
		return nil, err
	}
	return s.mediaRepo.List(ctx, projectID, mediaType)
}

// Upload appends every file to the end of the scope. Files are handled one
// by one; a rejected or failed file is reported in its result and the rest
// continue.
func (s *MediaService) Upload(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType, files []ports.UploadFile) (*ports.MediaUploadResponse, error) {
	if err := s.checkScope(ctx, projectID, mediaType); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, entities.NewValidationError("files", "at least one file is required")
	}

	resp := &ports.MediaUploadResponse{Results: make([]ports.UploadResult, 0, len(files))}
	for _, file := range files {
		item, err := s.uploadOne(ctx, projectID, mediaType, file)
		s.metrics.ObserveUpload(uploadKindMedia, err)

		result := ports.UploadResult{FileName: file.Name, Item: item, Err: err}
		if err != nil {
			result.Error = err.Error()
			s.logger.WithError(err).Warnw("Media upload rejected", "project_id", projectID, "file_name", file.Name)
		}
		resp.Results = append(resp.Results, result)
	}
	s.views.Invalidate(ctx, projectID)

	items, err := s.mediaRepo.List(ctx, projectID, mediaType)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	resp.Items = items

	return resp, nil
}

func (s *MediaService) uploadOne(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType, file ports.UploadFile) (*entities.MediaItem, error) {
	sniffed, err := sniffImage(file, s.maxBytes)
	if err != nil {
		return nil, err
	}

	objectPath := objectName("media", projectID, sniffed.Extension, string(mediaType))
	if err := s.storage.Put(ctx, objectPath, sniffed.Body, sniffed.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	existing, err := s.mediaRepo.List(ctx, projectID, mediaType)
	if err != nil {
		discardObject(ctx, s.storage, s.logger, objectPath)
		return nil, fmt.Errorf("failed to read scope: %w", err)
	}

	item := &entities.MediaItem{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Type:        mediaType,
		ImageURL:    s.storage.PublicURL(objectPath),
		ObjectPath:  objectPath,
		ContentType: sniffed.ContentType,
		OrderIndex:  entities.NextOrderIndex(values(existing)),
		CreatedAt:   s.now(),
	}
	if err := s.mediaRepo.Create(ctx, item); err != nil {
		discardObject(ctx, s.storage, s.logger, objectPath)
		return nil, fmt.Errorf("failed to create media item: %w", err)
	}

	s.logger.Infow("Media uploaded", "media_id", item.ID, "project_id", projectID, "type", mediaType, "order_index", item.OrderIndex)

	return item, nil
}

// Reorder moves the item at position from to position to and persists the
// dense numbering of the whole scope in one batch.
func (s *MediaService) Reorder(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType, from, to int) ([]*entities.MediaItem, error) {
	if err := s.checkScope(ctx, projectID, mediaType); err != nil {
		return nil, err
	}

	items, err := s.mediaRepo.List(ctx, projectID, mediaType)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	moved, err := entities.MoveItem(values(items), from, to)
	if err != nil {
		return nil, err
	}
	if err := s.mediaRepo.UpdateOrder(ctx, moved); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	s.views.Invalidate(ctx, projectID)

	s.logger.Infow("Media reordered", "project_id", projectID, "type", mediaType, "from", from, "to", to)

	return pointers(moved), nil
}

// SetCaption replaces the caption of one item
func (s *MediaService) SetCaption(ctx context.Context, id uuid.UUID, caption string) (*entities.MediaItem, error) {
	if len([]rune(caption)) > maxCaptionLength {
		return nil, entities.NewValidationError("caption", fmt.Sprintf("must be at most %d characters", maxCaptionLength))
	}

	if err := s.mediaRepo.SetCaption(ctx, id, caption); err != nil {
		return nil, fmt.Errorf("failed to set caption: %w", err)
	}

	item, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.views.Invalidate(ctx, item.ProjectID)

	return item, nil
}

// Remove deletes an item, closes the gap it leaves in the scope and then
// deletes its object. The returned list is the renumbered scope.
func (s *MediaService) Remove(ctx context.Context, id uuid.UUID) ([]*entities.MediaItem, error) {
	item, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete media item: %w", err)
	}
	s.views.Invalidate(ctx, item.ProjectID)

	rest, err := s.mediaRepo.List(ctx, item.ProjectID, item.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	if !entities.IsDense(values(rest)) {
		renumbered := entities.Renumber(values(rest))
		if err := s.mediaRepo.UpdateOrder(ctx, renumbered); err != nil {
			return nil, fmt.Errorf("failed to renumber media: %w", err)
		}
		rest = pointers(renumbered)
	}

	discardObject(ctx, s.storage, s.logger, item.ObjectPath)

	s.logger.Infow("Media removed", "media_id", id, "project_id", item.ProjectID, "type", item.Type)

	return rest, nil
}

func values(items []*entities.MediaItem) []entities.MediaItem {
	out := make([]entities.MediaItem, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}

func pointers(items []entities.MediaItem) []*entities.MediaItem {
	out := make([]*entities.MediaItem, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
