package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

const recentProjectsLimit = 5

// ProjectService handles project-related operations
type ProjectService struct {
	repos  ports.Repositories
	views  *ProjectViewCache
	logger *logger.Logger
	now    Clock
}

// NewProjectService creates a new project service
func NewProjectService(repos ports.Repositories, views *ProjectViewCache, logger *logger.Logger) *ProjectService {
	return &ProjectService{
		repos:  repos,
		views:  views,
		logger: logger.WithComponent("project_service"),
		now:    utcNow,
	}
}

// CreateProject creates a new project
func (s *ProjectService) CreateProject(ctx context.Context, req ports.CreateProjectRequest) (*entities.Project, error) {
	verr := &entities.ValidationError{}
	name := requireText(verr, "name", req.Name, maxNameLength)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := s.now()
	project := &entities.Project{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Date:        req.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repos.Projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Infow("Project created successfully", "project_id", project.ID, "name", project.Name)

	return project, nil
}

// GetProject retrieves a visible project by ID
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	return s.repos.Projects.GetByID(ctx, id)
}

// UpdateProject updates a project's information
func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, req ports.UpdateProjectRequest) (*entities.Project, error) {
	project, err := s.repos.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &entities.ValidationError{}
	if req.Name != nil {
		project.Name = requireText(verr, "name", *req.Name, maxNameLength)
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.Date != nil {
		project.Date = req.Date
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	project.UpdatedAt = s.now()

	if err := s.repos.Projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	s.views.Invalidate(ctx, id)

	s.logger.Infow("Project updated successfully", "project_id", project.ID)

	return project, nil
}

// DeleteProject soft-deletes a project. Its tasks and attachments stay in
// the store but disappear from every public listing.
func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Projects.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	s.views.Invalidate(ctx, id)

	s.logger.Infow("Project deleted successfully", "project_id", id)
	return nil
}

// ListProjects lists visible projects, newest first unless SortOrder is "asc"
func (s *ProjectService) ListProjects(ctx context.Context, filter ports.ProjectFilter) ([]*entities.Project, int64, error) {
	filter.Limit, filter.Offset = ports.PageBounds(filter.Limit, filter.Offset)
	if filter.Search != nil {
		search := strings.TrimSpace(*filter.Search)
		if search == "" {
			filter.Search = nil
		} else {
			filter.Search = &search
		}
	}

	projects, err := s.repos.Projects.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	total, err := s.repos.Projects.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	return projects, total, nil
}

// GetPublicProject returns the volunteer-facing view: project, cover URL and
// the slider images in display order.
func (s *ProjectService) GetPublicProject(ctx context.Context, id uuid.UUID) (*ports.PublicProject, error) {
	if view, ok := s.views.get(ctx, id); ok {
		return view, nil
	}

	project, err := s.repos.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &ports.PublicProject{Project: project, Slider: []*entities.MediaItem{}}

	cover, err := s.repos.Covers.Get(ctx, id)
	switch {
	case err == nil:
		view.CoverURL = &cover.ImageURL
	case !errors.Is(err, entities.ErrCoverNotFound):
		return nil, fmt.Errorf("failed to load cover: %w", err)
	}

	slider, err := s.repos.Media.List(ctx, id, entities.MediaTypeSlider)
	if err != nil {
		return nil, fmt.Errorf("failed to load slider: %w", err)
	}
	if len(slider) > 0 {
		view.Slider = slider
	}

	s.views.set(ctx, view)

	return view, nil
}

// GetStats returns the dashboard counters
func (s *ProjectService) GetStats(ctx context.Context) (*ports.DashboardStats, error) {
	stats := &ports.DashboardStats{}
	var err error

	if stats.TotalProjects, err = s.repos.Projects.Count(ctx, ports.ProjectFilter{}); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	open, filled := false, true
	if stats.OpenTasks, err = s.repos.Tasks.Count(ctx, ports.TaskFilter{Filled: &open, ActiveProjectsOnly: true}); err != nil {
		return nil, fmt.Errorf("failed to count open tasks: %w", err)
	}
	if stats.FilledTasks, err = s.repos.Tasks.Count(ctx, ports.TaskFilter{Filled: &filled, ActiveProjectsOnly: true}); err != nil {
		return nil, fmt.Errorf("failed to count filled tasks: %w", err)
	}
	if stats.Members, err = s.repos.Members.Count(ctx, ports.MemberFilter{}); err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	if stats.RecentProjects, err = s.repos.Projects.List(ctx, ports.ProjectFilter{Limit: recentProjectsLimit}); err != nil {
		return nil, fmt.Errorf("failed to list recent projects: %w", err)
	}

	return stats, nil
}
