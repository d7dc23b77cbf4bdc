package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaType distinguishes ordered collections sharing the same project
type MediaType string

const (
	MediaTypeSlider  MediaType = "slider"
	MediaTypeGallery MediaType = "gallery"
)

// Project represents one fundraising/volunteering event
type Project struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Date        *time.Time `json:"date" db:"date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Task is a single claimable need within a project (e.g. "60 snacks")
type Task struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ProjectID        uuid.UUID  `json:"project_id" db:"project_id"`
	Name             string     `json:"task_name" db:"task_name"`
	Quantity         int        `json:"quantity" db:"quantity"`
	Unit             string     `json:"unit" db:"unit"`
	Notes            *string    `json:"notes" db:"notes"`
	Filled           bool       `json:"filled" db:"filled"`
	FilledByMemberID *uuid.UUID `json:"filled_by_member_id" db:"filled_by_member_id"`
	FilledAt         *time.Time `json:"filled_at" db:"filled_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Member is a phone-keyed identity for contributors and volunteers
type Member struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Phone     string     `json:"phone" db:"phone"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// ProjectMember places a member on a project's roster with an optional role
type ProjectMember struct {
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
	MemberID  uuid.UUID `json:"member_id" db:"member_id"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MediaItem is an image with a caption and a position inside a (project, type) scope
type MediaItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProjectID   uuid.UUID `json:"project_id" db:"project_id"`
	Type        MediaType `json:"type" db:"type"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	ObjectPath  string    `json:"-" db:"object_path"`
	ContentType string    `json:"content_type" db:"content_type"`
	Caption     string    `json:"caption" db:"caption"`
	OrderIndex  int       `json:"order_index" db:"order_index"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CoverImage is the single cover picture of a project
type CoverImage struct {
	ProjectID   uuid.UUID `json:"project_id" db:"project_id"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	ObjectPath  string    `json:"-" db:"object_path"`
	ContentType string    `json:"content_type" db:"content_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ReportFile is one file attached to a project's report
type ReportFile struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProjectID  uuid.UUID `json:"project_id" db:"project_id"`
	FileURL    string    `json:"file_url" db:"file_url"`
	ObjectPath string    `json:"-" db:"object_path"`
	FileName   string    `json:"file_name" db:"file_name"`
	FileType   string    `json:"file_type" db:"file_type"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Admin is a back-office operator
type Admin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Business logic methods for Project
func (p *Project) IsDeleted() bool {
	return p.DeletedAt != nil
}

// Business logic methods for Task
func (t *Task) CanBeClaimed() bool {
	return !t.Filled
}

// CanBeEdited reports whether an admin may still change name, quantity or unit
func (t *Task) CanBeEdited() bool {
	return !t.Filled
}

// Fill marks the task as claimed by the member. Used by stores that apply
// the claim in process; SQL stores express the same transition in the UPDATE.
func (t *Task) Fill(memberID uuid.UUID, at time.Time) error {
	if !t.CanBeClaimed() {
		return ErrTaskUnavailable
	}

	t.Filled = true
	t.FilledByMemberID = &memberID
	t.FilledAt = &at
	t.UpdatedAt = at
	return nil
}

// Business logic methods for Member
func (m *Member) IsDeleted() bool {
	return m.DeletedAt != nil
}

// NormalizePhone strips whitespace and common separators so that
// "0812-3456 789" and "08123456789" resolve to the same member.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, phone)
}

// Utility methods
func (mt MediaType) IsValid() bool {
	switch mt {
	case MediaTypeSlider, MediaTypeGallery:
		return true
	default:
		return false
	}
}

// IsImage reports whether a MIME type names an image
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
