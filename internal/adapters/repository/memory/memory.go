// Package memory is an in-process Record Store. Tables are maps guarded by a
// single RWMutex, so multi-table checks such as a task claim are atomic.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/ports"
)

// DB holds every table of the in-memory store
type DB struct {
	mutex    sync.RWMutex
	projects map[uuid.UUID]*entities.Project
	tasks    map[uuid.UUID]*entities.Task
	members  map[uuid.UUID]*entities.Member
	media    map[uuid.UUID]*entities.MediaItem
	covers   map[uuid.UUID]*entities.CoverImage
	reports  map[uuid.UUID]*entities.ReportFile
	admins   map[uuid.UUID]*entities.Admin
	rosters  map[rosterKey]*entities.ProjectMember
}

// New creates an empty store
func New() *DB {
	return &DB{
		projects: map[uuid.UUID]*entities.Project{},
		tasks:    map[uuid.UUID]*entities.Task{},
		members:  map[uuid.UUID]*entities.Member{},
		media:    map[uuid.UUID]*entities.MediaItem{},
		covers:   map[uuid.UUID]*entities.CoverImage{},
		reports:  map[uuid.UUID]*entities.ReportFile{},
		admins:   map[uuid.UUID]*entities.Admin{},
		rosters:  map[rosterKey]*entities.ProjectMember{},
	}
}

// NewRepositories returns every repository backed by one fresh store
func NewRepositories() ports.Repositories {
	return New().Repositories()
}

// Repositories returns every repository backed by db
func (db *DB) Repositories() ports.Repositories {
	return ports.Repositories{
		Projects: &projectRepository{db: db},
		Tasks:    &taskRepository{db: db},
		Members:  &memberRepository{db: db},
		Rosters:  &rosterRepository{db: db},
		Media:    &mediaRepository{db: db},
		Covers:   &coverRepository{db: db},
		Reports:  &reportRepository{db: db},
		Admins:   &adminRepository{db: db},
	}
}

func now() time.Time {
	return time.Now().UTC()
}

// page applies offset/limit to an already sorted slice
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func contains(haystack string, needle *string) bool {
	if needle == nil || strings.TrimSpace(*needle) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(*needle)))
}

type projectRepository struct {
	db *DB
}

func (r *projectRepository) Create(ctx context.Context, project *entities.Project) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now()
	}
	project.UpdatedAt = project.CreatedAt

	p := *project
	r.db.projects[p.ID] = &p
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	p, ok := r.db.projects[id]
	if !ok || p.IsDeleted() {
		return nil, entities.ErrProjectNotFound
	}
	out := *p
	return &out, nil
}

func (r *projectRepository) Update(ctx context.Context, project *entities.Project) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	p, ok := r.db.projects[project.ID]
	if !ok || p.IsDeleted() {
		return entities.ErrProjectNotFound
	}
	project.UpdatedAt = now()
	p.Name, p.Description, p.Date, p.UpdatedAt = project.Name, project.Description, project.Date, project.UpdatedAt
	return nil
}

func (r *projectRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	p, ok := r.db.projects[id]
	if !ok || p.IsDeleted() {
		return entities.ErrProjectNotFound
	}
	at := now()
	p.DeletedAt, p.UpdatedAt = &at, at
	return nil
}

func (r *projectRepository) query(filter ports.ProjectFilter) []*entities.Project {
	projects := make([]*entities.Project, 0, len(r.db.projects))
	for _, p := range r.db.projects {
		if p.IsDeleted() || !contains(p.Name, filter.Search) {
			continue
		}
		out := *p
		projects = append(projects, &out)
	}

	asc := strings.EqualFold(filter.SortOrder, "asc")
	sort.SliceStable(projects, func(i, j int) bool {
		if asc {
			return projects[i].CreatedAt.Before(projects[j].CreatedAt)
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects
}

func (r *projectRepository) List(ctx context.Context, filter ports.ProjectFilter) ([]*entities.Project, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return page(r.query(filter), filter.Limit, filter.Offset), nil
}

func (r *projectRepository) Count(ctx context.Context, filter ports.ProjectFilter) (int64, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return int64(len(r.query(filter))), nil
}

type adminRepository struct {
	db *DB
}

func (r *adminRepository) Create(ctx context.Context, admin *entities.Admin) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, a := range r.db.admins {
		if a.Email == admin.Email {
			return entities.ErrEmailTaken
		}
	}

	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now()
	}
	admin.UpdatedAt = admin.CreatedAt

	a := *admin
	r.db.admins[a.ID] = &a
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	a, ok := r.db.admins[id]
	if !ok {
		return nil, entities.ErrAdminNotFound
	}
	out := *a
	return &out, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*entities.Admin, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, a := range r.db.admins {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, entities.ErrAdminNotFound
}
