package ports

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/secangkircinta/scug/internal/domain/entities"
)

// ErrCacheMiss is returned by CacheRepository.Get for absent keys
var ErrCacheMiss = errors.New("cache miss")

// ProjectService interface for project management operations
type ProjectService interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (*entities.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*entities.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*entities.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*entities.Project, int64, error)
	GetPublicProject(ctx context.Context, id uuid.UUID) (*PublicProject, error)
	GetStats(ctx context.Context) (*DashboardStats, error)
}

// TaskService interface for task listing, claiming and admin editing
type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*TaskWithFulfiller, error)
	GetTask(ctx context.Context, projectID, taskID uuid.UUID) (*entities.Task, error)
	GetOpenTaskBoard(ctx context.Context, projectID uuid.UUID) (*TaskBoard, error)
	ClaimTask(ctx context.Context, req ClaimTaskRequest) (*ClaimResult, error)
}

// MemberService interface for member management operations
type MemberService interface {
	CreateMember(ctx context.Context, req CreateMemberRequest) (*entities.Member, error)
	UpdateMember(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*entities.Member, error)
	DeleteMember(ctx context.Context, id uuid.UUID) error
	ListMembers(ctx context.Context, filter MemberFilter) ([]*entities.Member, int64, error)
}

// ProjectMemberService interface for per-project member rosters
type ProjectMemberService interface {
	ListProjectMembers(ctx context.Context, projectID uuid.UUID) ([]*RosterEntry, error)
	AddProjectMember(ctx context.Context, projectID uuid.UUID, req AddProjectMemberRequest) (*RosterEntry, error)
	RemoveProjectMember(ctx context.Context, projectID, memberID uuid.UUID) error
}

// MediaService interface for ordered media collections
type MediaService interface {
	List(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType) ([]*entities.MediaItem, error)
	Upload(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType, files []UploadFile) (*MediaUploadResponse, error)
	Reorder(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType, from, to int) ([]*entities.MediaItem, error)
	SetCaption(ctx context.Context, id uuid.UUID, caption string) (*entities.MediaItem, error)
	Remove(ctx context.Context, id uuid.UUID) ([]*entities.MediaItem, error)
}

// CoverService interface for the single-slot cover image
type CoverService interface {
	Get(ctx context.Context, projectID uuid.UUID) (*entities.CoverImage, error)
	Set(ctx context.Context, projectID uuid.UUID, file UploadFile) (*entities.CoverImage, error)
	Remove(ctx context.Context, projectID uuid.UUID) error
}

// ReportService interface for append-only report files
type ReportService interface {
	List(ctx context.Context, projectID uuid.UUID) ([]*entities.ReportFile, error)
	Upload(ctx context.Context, projectID uuid.UUID, file UploadFile) (*entities.ReportFile, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// AuthService interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (*entities.Admin, error)
}

// Request/Response Types

// Auth related types
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=200"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	Admin       *entities.Admin `json:"admin"`
}

type Claims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
}

// Project related types
type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=20000"`
	Date        *time.Time `json:"date"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=20000"`
	Date        *time.Time `json:"date"`
}

// PublicProject is the volunteer-facing project view
type PublicProject struct {
	*entities.Project
	CoverURL *string               `json:"cover_url"`
	Slider   []*entities.MediaItem `json:"slider"`
}

type DashboardStats struct {
	TotalProjects  int64               `json:"total_projects"`
	OpenTasks      int64               `json:"open_tasks"`
	FilledTasks    int64               `json:"filled_tasks"`
	Members        int64               `json:"members"`
	RecentProjects []*entities.Project `json:"recent_projects"`
}

// Task related types
type CreateTaskRequest struct {
	ProjectID uuid.UUID `json:"-"`
	Name      string    `json:"task_name" validate:"required,max=200"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Unit      string    `json:"unit" validate:"required,max=50"`
	Notes     *string   `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateTaskRequest struct {
	Name     *string `json:"task_name" validate:"omitempty,min=1,max=200"`
	Quantity *int    `json:"quantity" validate:"omitempty,min=1"`
	Unit     *string `json:"unit" validate:"omitempty,min=1,max=50"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
}

type ClaimTaskRequest struct {
	ProjectID uuid.UUID `json:"-"`
	TaskID    uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
}

type ClaimResult struct {
	Task   *entities.Task   `json:"task"`
	Member *entities.Member `json:"member"`
}

// TaskWithFulfiller is the admin view of a task
type TaskWithFulfiller struct {
	*entities.Task
	Fulfiller *entities.Member `json:"fulfiller"`
}

// TaskBoard partitions unfilled tasks into the current project and the others
type TaskBoard struct {
	ProjectID uuid.UUID                   `json:"project_id"`
	Current   []*entities.Task            `json:"current"`
	Others    map[uuid.UUID]*ProjectTasks `json:"others"`
}

type ProjectTasks struct {
	ProjectName string           `json:"project_name"`
	Tasks       []*entities.Task `json:"tasks"`
}

// Member related types
type CreateMemberRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"required,max=32"`
}

type UpdateMemberRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone *string `json:"phone" validate:"omitempty,min=1,max=32"`
}

type AddProjectMemberRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"required,max=32"`
	Role  string `json:"role" validate:"max=100"`
}

// RosterEntry is one member of a project: added to the roster, a fulfiller
// of at least one of its tasks, or both.
type RosterEntry struct {
	*entities.Member
	Role        string     `json:"role"`
	OnRoster    bool       `json:"on_roster"`
	AddedAt     *time.Time `json:"added_at"`
	FilledTasks int        `json:"filled_tasks"`
}

// Upload related types

// UploadFile is one file received from a client
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadResult struct {
	FileName string              `json:"file_name"`
	Item     *entities.MediaItem `json:"item,omitempty"`
	Error    string              `json:"error,omitempty"`
	Err      error               `json:"-"`
}

type MediaUploadResponse struct {
	Results []UploadResult        `json:"results"`
	Items   []*entities.MediaItem `json:"items"`
}

type ReorderRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

type CaptionRequest struct {
	Caption string `json:"caption" validate:"max=500"`
}

// SweepReport summarises one orphan sweep
type SweepReport struct {
	Scanned    int `json:"scanned"`
	Referenced int `json:"referenced"`
	Deleted    int `json:"deleted"`
	Failed     int `json:"failed"`
}

// Page size bounds shared by every paginated listing
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageBounds clamps limit to [1, MaxPageLimit], using DefaultPageLimit when
// unset, and offset to >= 0.
func PageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Response types for pagination and common structures
type PaginatedResponse[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
