package ports

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/secangkircinta/scug/internal/domain/entities"
)

// ProjectRepository defines the interface for project data operations.
// Soft-deleted projects are invisible to GetByID and List.
type ProjectRepository interface {
	Create(ctx context.Context, project *entities.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Project, error)
	Update(ctx context.Context, project *entities.Project) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ProjectFilter) ([]*entities.Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	// Get returns the task matching both id and project id, regardless of the
	// project's soft-delete state.
	Get(ctx context.Context, projectID, id uuid.UUID) (*entities.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	// Update writes name, quantity, unit and notes only while the task is unfilled.
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	// Claim fills the task only if it is currently unfilled. It returns false
	// when no row matched (missing task or already filled).
	Claim(ctx context.Context, projectID, id, memberID uuid.UUID, at time.Time) (bool, error)
}

// MemberRepository defines the interface for member data operations.
// Soft-deleted members are invisible to GetByPhone and List but still
// resolvable by GetByID for historical references.
type MemberRepository interface {
	// Create returns entities.ErrPhoneTaken when a live member owns the phone.
	Create(ctx context.Context, member *entities.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Member, error)
	GetByPhone(ctx context.Context, phone string) (*entities.Member, error)
	Update(ctx context.Context, member *entities.Member) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter MemberFilter) ([]*entities.Member, error)
	Count(ctx context.Context, filter MemberFilter) (int64, error)
}

// ProjectMemberRepository defines the interface for project rosters
type ProjectMemberRepository interface {
	// Add returns entities.ErrAlreadyOnRoster when the pair already exists.
	Add(ctx context.Context, entry *entities.ProjectMember) error
	Remove(ctx context.Context, projectID, memberID uuid.UUID) error
	// List returns the roster of a project in the order members were added.
	List(ctx context.Context, projectID uuid.UUID) ([]*entities.ProjectMember, error)
}

// MediaRepository defines the interface for ordered media item operations
type MediaRepository interface {
	Create(ctx context.Context, item *entities.MediaItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.MediaItem, error)
	// List returns the scope sorted by order index.
	List(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType) ([]*entities.MediaItem, error)
	SetCaption(ctx context.Context, id uuid.UUID, caption string) error
	// UpdateOrder writes every item's order index as one batch.
	UpdateOrder(ctx context.Context, items []entities.MediaItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	ObjectPaths(ctx context.Context) ([]string, error)
}

// CoverRepository defines the interface for the single-slot cover image
type CoverRepository interface {
	Get(ctx context.Context, projectID uuid.UUID) (*entities.CoverImage, error)
	// Upsert atomically replaces the cover of cover.ProjectID and returns the
	// replaced record, or nil when there was none.
	Upsert(ctx context.Context, cover *entities.CoverImage) (*entities.CoverImage, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
	ObjectPaths(ctx context.Context) ([]string, error)
}

// ReportRepository defines the interface for append-only report files
type ReportRepository interface {
	Create(ctx context.Context, report *entities.ReportFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ReportFile, error)
	List(ctx context.Context, projectID uuid.UUID) ([]*entities.ReportFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ObjectPaths(ctx context.Context) ([]string, error)
}

// AdminRepository defines the interface for back-office operators
type AdminRepository interface {
	Create(ctx context.Context, admin *entities.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error)
	GetByEmail(ctx context.Context, email string) (*entities.Admin, error)
}

// ObjectStorage stores binary objects and exposes them through public URLs
type ObjectStorage interface {
	Put(ctx context.Context, path string, body io.Reader, contentType string) error
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// Filter types for repository queries
type ProjectFilter struct {
	Search    *string
	Limit     int
	Offset    int
	SortOrder string
}

type TaskFilter struct {
	ProjectID *uuid.UUID
	Filled    *bool
	// ActiveProjectsOnly hides tasks whose project is soft-deleted.
	ActiveProjectsOnly bool
	Limit              int
	Offset             int
}

type MemberFilter struct {
	Search *string
	Limit  int
	Offset int
}

// Repositories bundles one implementation of every Record Store repository
type Repositories struct {
	Projects ProjectRepository
	Tasks    TaskRepository
	Members  MemberRepository
	Rosters  ProjectMemberRepository
	Media    MediaRepository
	Covers   CoverRepository
	Reports  ReportRepository
	Admins   AdminRepository
}
