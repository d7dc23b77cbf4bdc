package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

const (
	maxNameLength    = 200
	maxPhoneLength   = 32
	maxUnitLength    = 50
	maxRoleLength    = 100
	maxCaptionLength = 500
)

// Clock returns the current time; services take one so tests can pin it
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// requireText trims s and records a field error when it is empty or too long
func requireText(verr *entities.ValidationError, field, s string, max int) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		verr.Add(field, "is required")
	case utf8.RuneCountInString(s) > max:
		verr.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return s
}

// ProjectViewCache stores the public project view and drops it whenever
// something it is built from changes.
type ProjectViewCache struct {
	cache  ports.CacheRepository
	ttl    time.Duration
	logger *logger.Logger
}

// NewProjectViewCache creates a view cache; ttl <= 0 disables caching
func NewProjectViewCache(cache ports.CacheRepository, ttl time.Duration, logger *logger.Logger) *ProjectViewCache {
	return &ProjectViewCache{cache: cache, ttl: ttl, logger: logger.WithComponent("project_view_cache")}
}

func projectViewKey(projectID uuid.UUID) string {
	return "project:public:" + projectID.String()
}

func (c *ProjectViewCache) get(ctx context.Context, projectID uuid.UUID) (*ports.PublicProject, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}

	var view ports.PublicProject
	if err := c.cache.Get(ctx, projectViewKey(projectID), &view); err != nil {
		if err != ports.ErrCacheMiss {
			c.logger.WithError(err).Warnw("Project view cache read failed", "project_id", projectID)
		}
		return nil, false
	}
	return &view, true
}

func (c *ProjectViewCache) set(ctx context.Context, view *ports.PublicProject) {
	if c == nil || c.ttl <= 0 {
		return
	}
	if err := c.cache.Set(ctx, projectViewKey(view.ID), view, c.ttl); err != nil {
		c.logger.WithError(err).Warnw("Project view cache write failed", "project_id", view.ID)
	}
}

// Invalidate drops the cached view of a project. Failures are logged only;
// the entry then expires with its TTL.
func (c *ProjectViewCache) Invalidate(ctx context.Context, projectID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.cache.Delete(ctx, projectViewKey(projectID)); err != nil {
		c.logger.WithError(err).Warnw("Project view cache invalidation failed", "project_id", projectID)
	}
}
